package main

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// orderRow carries one input row through the pipeline with every original
// column intact; sorting is always a row-atomic permutation of these.
type orderRow struct {
	SourceFile  string
	RowIndex    int
	Cells       []string
	Record      parsedRecord
	Quantity    decimal.Decimal
	HasQuantity bool

	// Delivery identity, captured at parse time because column positions
	// differ per file. Empty when the file did not resolve the column.
	Recipient     string
	Address       string
	Phone         string
	PhoneResolved bool

	Combined bool
	Heavy    bool
}

// heavyThresholdKG is exclusive: a row ships heavy only above 10kg.
var heavyThresholdKG = decimal.NewFromInt(10)

func (r *orderRow) identityKey() (string, bool) {
	name := strings.TrimSpace(r.Recipient)
	addr := strings.TrimSpace(r.Address)
	if name == "" || addr == "" {
		return "", false
	}
	key := name + "\x00" + addr
	if r.PhoneResolved {
		phone := strings.TrimSpace(r.Phone)
		if phone == "" {
			return "", false
		}
		key += "\x00" + phone
	}
	return key, true
}

// detectCombined groups rows by recipient identity and marks every group with
// two or more rows as a combined delivery. Rows missing any configured
// identity field never group; empty strings are not an identity. Returns the
// number of combined groups.
func detectCombined(rows []*orderRow) int {
	groups := make(map[string][]int)
	for i, r := range rows {
		key, ok := r.identityKey()
		if !ok {
			continue
		}
		groups[key] = append(groups[key], i)
	}
	combined := 0
	for _, idxs := range groups {
		if len(idxs) < 2 {
			continue
		}
		combined++
		for _, i := range idxs {
			rows[i].Combined = true
		}
	}
	return combined
}

// detectHeavy flags rows whose quantity × unit weight exceeds the threshold.
// Rows with a non-numeric quantity or no parsed weight are skipped, never
// flagged. Returns the number of heavy rows.
func detectHeavy(rows []*orderRow) int {
	heavy := 0
	for _, r := range rows {
		if !r.HasQuantity || !r.Record.HasWeight {
			continue
		}
		if r.Quantity.Mul(r.Record.Weight).GreaterThan(heavyThresholdKG) {
			r.Heavy = true
			heavy++
		}
	}
	return heavy
}

// sortRows orders the batch for export: combined deliveries first (only when
// the batch has any), then product name, then numeric quantity. Stable, so
// input order breaks remaining ties.
func sortRows(rows []*orderRow) {
	anyCombined := false
	for _, r := range rows {
		if r.Combined {
			anyCombined = true
			break
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if anyCombined && a.Combined != b.Combined {
			return a.Combined
		}
		if a.Record.ProductName != b.Record.ProductName {
			return a.Record.ProductName < b.Record.ProductName
		}
		return a.sortQuantity().LessThan(b.sortQuantity())
	})
}

func (r *orderRow) sortQuantity() decimal.Decimal {
	if !r.HasQuantity {
		return decimal.Zero
	}
	return r.Quantity
}
