package main

import (
	"testing"

	"github.com/shopspring/decimal"
)

func deliveryRow(t *testing.T, text, recipient, addr string, quantity int64) *orderRow {
	t.Helper()
	return &orderRow{
		Record:      mustRecord(t, text),
		Quantity:    decimal.NewFromInt(quantity),
		HasQuantity: true,
		Recipient:   recipient,
		Address:     addr,
	}
}

func TestDetectCombined(t *testing.T) {
	rows := []*orderRow{
		deliveryRow(t, "깐마늘 1kg", "김민준", "서울시 강남구 1", 1),
		deliveryRow(t, "마늘쫑 1kg", "김민준", "서울시 강남구 1", 2),
		deliveryRow(t, "통마늘 3kg", "이서연", "부산시 해운대구 2", 1),
	}
	groups := detectCombined(rows)
	if groups != 1 {
		t.Fatalf("expected 1 combined group, got %d", groups)
	}
	if !rows[0].Combined || !rows[1].Combined {
		t.Fatalf("expected first two rows combined")
	}
	if rows[2].Combined {
		t.Fatalf("single-order recipient must not be combined")
	}
}

// Empty identity fields never group: two rows with blank addresses are not
// the same delivery.
func TestDetectCombinedIgnoresEmptyIdentity(t *testing.T) {
	rows := []*orderRow{
		deliveryRow(t, "깐마늘 1kg", "김민준", "", 1),
		deliveryRow(t, "마늘쫑 1kg", "김민준", "", 1),
	}
	if groups := detectCombined(rows); groups != 0 {
		t.Fatalf("expected 0 groups, got %d", groups)
	}
}

// When the phone column resolved, the phone participates in the identity and
// a blank phone disqualifies the row.
func TestDetectCombinedPhoneIdentity(t *testing.T) {
	a := deliveryRow(t, "깐마늘 1kg", "김민준", "서울시 강남구 1", 1)
	a.Phone, a.PhoneResolved = "010-1111-2222", true
	b := deliveryRow(t, "마늘쫑 1kg", "김민준", "서울시 강남구 1", 1)
	b.Phone, b.PhoneResolved = "010-3333-4444", true
	c := deliveryRow(t, "통마늘 3kg", "김민준", "서울시 강남구 1", 1)
	c.Phone, c.PhoneResolved = "", true

	if groups := detectCombined([]*orderRow{a, b, c}); groups != 0 {
		t.Fatalf("expected 0 groups, got %d", groups)
	}

	b.Phone = "010-1111-2222"
	if groups := detectCombined([]*orderRow{a, b, c}); groups != 1 {
		t.Fatalf("expected 1 group on matching phones, got %d", groups)
	}
}

func TestDetectHeavy(t *testing.T) {
	heavy := deliveryRow(t, "통마늘 4kg", "김민준", "서울시 강남구 1", 3)  // 12kg
	light := deliveryRow(t, "통마늘 4kg", "이서연", "부산시 해운대구 2", 2) // 8kg
	boundary := deliveryRow(t, "통마늘 5kg", "박지훈", "대구시 수성구 3", 2) // exactly 10kg
	noQty := deliveryRow(t, "통마늘 4kg", "최수아", "전남 무안군 4", 9)
	noQty.HasQuantity = false
	noWeight := deliveryRow(t, "마늘빠삭이 3봉", "정도윤", "경북 의성군 5", 9)

	rows := []*orderRow{heavy, light, boundary, noQty, noWeight}
	if n := detectHeavy(rows); n != 1 {
		t.Fatalf("expected 1 heavy row, got %d", n)
	}
	if !heavy.Heavy {
		t.Fatalf("12kg row must be heavy")
	}
	if light.Heavy || boundary.Heavy || noQty.Heavy || noWeight.Heavy {
		t.Fatalf("only the 12kg row may be heavy")
	}
}

func TestSortRowsCombinedFirst(t *testing.T) {
	a := deliveryRow(t, "통마늘 3kg", "이서연", "부산시 해운대구 2", 1)
	b := deliveryRow(t, "깐마늘 1kg", "김민준", "서울시 강남구 1", 2)
	c := deliveryRow(t, "마늘쫑 1kg", "김민준", "서울시 강남구 1", 1)
	rows := []*orderRow{a, b, c}

	detectCombined(rows)
	sortRows(rows)

	// Combined pair first, ordered by product name, single row last.
	if rows[0] != b || rows[1] != c || rows[2] != a {
		t.Fatalf("unexpected order: %q, %q, %q",
			rows[0].Record.ProductName, rows[1].Record.ProductName, rows[2].Record.ProductName)
	}
}

// Without any combined rows the batch sorts purely by name then quantity.
func TestSortRowsNoCombined(t *testing.T) {
	a := deliveryRow(t, "통마늘 3kg", "이서연", "부산시 해운대구 2", 2)
	b := deliveryRow(t, "통마늘 3kg", "박지훈", "대구시 수성구 3", 1)
	c := deliveryRow(t, "깐마늘 1kg", "김민준", "서울시 강남구 1", 1)
	rows := []*orderRow{a, b, c}

	sortRows(rows)
	if rows[0] != c || rows[1] != b || rows[2] != a {
		t.Fatalf("unexpected order: %q/%s, %q/%s, %q/%s",
			rows[0].Record.ProductName, rows[0].Quantity,
			rows[1].Record.ProductName, rows[1].Quantity,
			rows[2].Record.ProductName, rows[2].Quantity)
	}
}

// Sorting permutes whole rows; every original cell stays attached to its row.
func TestSortRowsKeepsRowsIntact(t *testing.T) {
	a := deliveryRow(t, "통마늘 3kg", "이서연", "부산시 해운대구 2", 1)
	a.Cells = []string{"ORD-1", "이서연"}
	b := deliveryRow(t, "깐마늘 1kg", "김민준", "서울시 강남구 1", 1)
	b.Cells = []string{"ORD-2", "김민준"}

	rows := []*orderRow{a, b}
	sortRows(rows)

	for _, r := range rows {
		if r.Cells[1] != r.Recipient {
			t.Fatalf("row torn apart: cells %v vs recipient %q", r.Cells, r.Recipient)
		}
	}
}
