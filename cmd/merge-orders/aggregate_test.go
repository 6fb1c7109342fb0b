package main

import (
	"testing"

	"github.com/shopspring/decimal"
)

func mustRecord(t *testing.T, text string) parsedRecord {
	t.Helper()
	rec, warn := buildRecord(text)
	if warn != "" {
		t.Fatalf("buildRecord(%q): unexpected warning %s", text, warn)
	}
	return rec
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// Regular weighted products merge across weights into one kilogram-
// denominated entry.
func TestAggregateMergesRegularWeights(t *testing.T) {
	agg := newAggregator()
	agg.addRow(mustRecord(t, "깐마늘 1kg"), qty(2), "a.xlsx")
	agg.addRow(mustRecord(t, "깐마늘 2kg"), qty(1), "b.xlsx")

	items := agg.generate()
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	it := items[0]
	if it.ProductName != "대서 깐마늘" {
		t.Fatalf("expected %q, got %q", "대서 깐마늘", it.ProductName)
	}
	if !it.Quantity.Equal(qty(4)) {
		t.Fatalf("expected quantity 4, got %s", it.Quantity)
	}
	if !it.TotalWeight.Equal(qty(4)) {
		t.Fatalf("expected weight 4, got %s", it.TotalWeight)
	}
	if len(it.SourceFiles) != 2 {
		t.Fatalf("expected 2 source files, got %v", it.SourceFiles)
	}
}

// Bulk entries keep the verbatim name: a 5kg and a 10kg bulk order are
// different shippable products and never merge.
func TestAggregateBulkNeverMerges(t *testing.T) {
	agg := newAggregator()
	agg.addRow(mustRecord(t, "깐마늘 5kg"), qty(1), "a.xlsx")
	agg.addRow(mustRecord(t, "깐마늘 10kg"), qty(2), "a.xlsx")

	items := agg.generate()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	for _, it := range items {
		if !it.IsBulk {
			t.Fatalf("expected bulk item, got %+v", it)
		}
	}
	// Bulk quantity counts orders, not kilograms.
	if !items[0].Quantity.Equal(qty(2)) || !items[0].TotalWeight.Equal(qty(20)) {
		t.Fatalf("expected qty 2 / 20kg, got %s / %s", items[0].Quantity, items[0].TotalWeight)
	}
	if !items[1].Quantity.Equal(qty(1)) || !items[1].TotalWeight.Equal(qty(5)) {
		t.Fatalf("expected qty 1 / 5kg, got %s / %s", items[1].Quantity, items[1].TotalWeight)
	}
}

// Stalk entries behave like bulk: verbatim identity, order-count quantity.
func TestAggregateStalkVerbatimIdentity(t *testing.T) {
	agg := newAggregator()
	agg.addRow(mustRecord(t, "마늘쫑 1kg"), qty(3), "a.xlsx")
	agg.addRow(mustRecord(t, "마늘쫑 2kg"), qty(1), "a.xlsx")

	items := agg.generate()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if !items[0].Quantity.Equal(qty(3)) || !items[0].TotalWeight.Equal(qty(3)) {
		t.Fatalf("expected qty 3 / 3kg, got %s / %s", items[0].Quantity, items[0].TotalWeight)
	}
}

// Chicken feet are tracked by count; any parsed weight is discarded.
func TestAggregateFeetZeroWeight(t *testing.T) {
	agg := newAggregator()
	agg.addRow(mustRecord(t, "무뼈닭발 500g"), qty(2), "a.xlsx")
	agg.addRow(mustRecord(t, "무뼈닭발 500g"), qty(1), "a.xlsx")

	items := agg.generate()
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if !items[0].Quantity.Equal(qty(3)) {
		t.Fatalf("expected quantity 3, got %s", items[0].Quantity)
	}
	if !items[0].TotalWeight.IsZero() {
		t.Fatalf("expected zero weight, got %s", items[0].TotalWeight)
	}
}

func TestAggregateWeightlessFallsBackToCount(t *testing.T) {
	agg := newAggregator()
	agg.addRow(mustRecord(t, "마늘빠삭이 3봉"), qty(2), "a.xlsx")

	items := agg.generate()
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if !items[0].Quantity.Equal(qty(2)) {
		t.Fatalf("expected quantity 2, got %s", items[0].Quantity)
	}
	if !items[0].TotalWeight.IsZero() {
		t.Fatalf("expected zero weight, got %s", items[0].TotalWeight)
	}
}

func TestAggregateRejectsInvalidRows(t *testing.T) {
	agg := newAggregator()
	agg.addRow(mustRecord(t, "깐마늘 1kg"), qty(0), "a.xlsx")
	agg.addRow(mustRecord(t, "깐마늘 1kg"), qty(-1), "a.xlsx")
	agg.addRow(mustRecord(t, ""), qty(1), "a.xlsx")
	agg.addRow(parsedRecord{ProductName: "nan", Category: catOther}, qty(1), "a.xlsx")

	if items := agg.generate(); len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestAggregateSummaryAndReset(t *testing.T) {
	agg := newAggregator()
	agg.addRow(mustRecord(t, "깐마늘 1kg"), qty(2), "a.xlsx")
	agg.addRow(mustRecord(t, "깐마늘 5kg"), qty(1), "a.xlsx")
	agg.addRow(mustRecord(t, "마늘가루 200그램"), qty(5), "b.xlsx")

	sum := agg.summary()
	if sum.ProcessedOrders != 3 {
		t.Fatalf("expected 3 processed orders, got %d", sum.ProcessedOrders)
	}
	if sum.ItemCount != 3 || sum.BulkItems != 1 || sum.RegularItems != 2 {
		t.Fatalf("unexpected item counts: %+v", sum)
	}
	// 2kg regular + 5kg bulk + 1kg powder.
	if !sum.TotalWeightKG.Equal(qty(8)) {
		t.Fatalf("expected 8kg total, got %s", sum.TotalWeightKG)
	}
	if sum.CategoryCounts[catPeeled] != 2 || sum.CategoryCounts[catPowder] != 1 {
		t.Fatalf("unexpected category counts: %v", sum.CategoryCounts)
	}

	agg.reset()
	if items := agg.generate(); len(items) != 0 {
		t.Fatalf("expected empty aggregator after reset, got %d items", len(items))
	}
	if agg.summary().ProcessedOrders != 0 {
		t.Fatalf("expected processed counter cleared")
	}
}

func TestCleanedProductNameStripsWeight(t *testing.T) {
	rec := mustRecord(t, "육쪽 깐마늘 1kg")
	if got := cleanedProductName(rec); got != "육쪽 깐마늘" {
		t.Fatalf("expected %q, got %q", "육쪽 깐마늘", got)
	}
	bulk := mustRecord(t, "깐마늘 10kg")
	if got := cleanedProductName(bulk); got != bulk.ProductName {
		t.Fatalf("bulk name must stay verbatim, got %q", got)
	}
}
