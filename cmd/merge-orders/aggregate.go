package main

import (
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// aggregationEntry accumulates one distinct (category, cleaned name) product
// across every file in the session. Quantity and weight only grow; the only
// way down is reset().
type aggregationEntry struct {
	Category    string
	ProductName string
	Quantity    decimal.Decimal
	TotalWeight decimal.Decimal
	UnitWeight  decimal.Decimal
	HasWeight   bool
	IsBulk      bool
	SourceFiles map[string]struct{}
}

// packingItem is one line of the generated packing list.
type packingItem struct {
	Category    string
	ProductName string
	Quantity    decimal.Decimal
	TotalWeight decimal.Decimal
	IsBulk      bool
	SourceFiles []string
}

// DisplayQuantity renders the quantity the way the packing list prints it:
// whole numbers, no trailing fraction.
func (p packingItem) DisplayQuantity() string {
	return p.Quantity.Round(0).String()
}

// aggregator is the session-wide accumulation context. addRow is serialized
// with a mutex so parallel file parsing stays safe.
type aggregator struct {
	mu        sync.Mutex
	entries   map[string]*aggregationEntry
	processed int
}

func newAggregator() *aggregator {
	return &aggregator{entries: make(map[string]*aggregationEntry)}
}

// cleanedProductName strips weight expressions from the grouping identity so
// "깐마늘 1kg" and "깐마늘 2kg" merge into one weight-denominated total. Bulk
// and stalk entries keep the verbatim name: different weights there are
// different shippable products and must not merge.
func cleanedProductName(rec parsedRecord) string {
	if rec.IsBulk || rec.Category == catStalk {
		return rec.ProductName
	}
	name := rec.ProductName
	for _, p := range weightPatterns {
		name = p.re.ReplaceAllString(name, "")
	}
	return tidyText(name)
}

func (a *aggregator) addRow(rec parsedRecord, quantity decimal.Decimal, sourceFile string) {
	name := rec.ProductName
	if quantity.LessThanOrEqual(decimal.Zero) || name == "" || strings.EqualFold(name, "nan") {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.processed++

	key := rec.Category + "_" + cleanedProductName(rec)
	e, ok := a.entries[key]
	if !ok {
		e = &aggregationEntry{
			Category:    rec.Category,
			ProductName: cleanedProductName(rec),
			SourceFiles: make(map[string]struct{}),
		}
		a.entries[key] = e
	}
	e.SourceFiles[sourceFile] = struct{}{}
	if rec.IsBulk {
		e.IsBulk = true
	}
	if rec.HasWeight {
		e.UnitWeight = rec.Weight
		e.HasWeight = true
	}

	switch {
	case rec.IsBulk || rec.Category == catStalk:
		e.Quantity = e.Quantity.Add(quantity)
		if rec.HasWeight {
			e.TotalWeight = e.TotalWeight.Add(rec.Weight.Mul(quantity))
		}
	case rec.Category == catFeet:
		// Chicken feet are tracked by count; weight is meaningless there.
		e.Quantity = e.Quantity.Add(quantity)
		e.TotalWeight = decimal.Zero
	case rec.HasWeight:
		// One "unit" equals one kilogram for everything else.
		kg := rec.Weight.Mul(quantity)
		e.Quantity = e.Quantity.Add(kg)
		e.TotalWeight = e.TotalWeight.Add(kg)
	default:
		e.Quantity = e.Quantity.Add(quantity)
	}
}

// generate snapshots the current entries into packing items, sorted by
// (category, product name) so identical products cluster on the printed list.
func (a *aggregator) generate() []packingItem {
	a.mu.Lock()
	defer a.mu.Unlock()

	items := make([]packingItem, 0, len(a.entries))
	for _, e := range a.entries {
		if !e.Quantity.GreaterThan(decimal.Zero) {
			continue
		}
		files := make([]string, 0, len(e.SourceFiles))
		for f := range e.SourceFiles {
			files = append(files, f)
		}
		sort.Strings(files)
		items = append(items, packingItem{
			Category:    e.Category,
			ProductName: e.ProductName,
			Quantity:    e.Quantity,
			TotalWeight: e.TotalWeight,
			IsBulk:      e.IsBulk,
			SourceFiles: files,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].ProductName < items[j].ProductName
	})
	return items
}

type aggregateSummary struct {
	ProcessedOrders int
	ItemCount       int
	BulkItems       int
	RegularItems    int
	TotalWeightKG   decimal.Decimal
	CategoryCounts  map[string]int
}

func (a *aggregator) summary() aggregateSummary {
	items := a.generate()

	s := aggregateSummary{CategoryCounts: make(map[string]int)}
	a.mu.Lock()
	s.ProcessedOrders = a.processed
	a.mu.Unlock()

	for _, it := range items {
		s.ItemCount++
		if it.IsBulk {
			s.BulkItems++
		} else {
			s.RegularItems++
		}
		s.TotalWeightKG = s.TotalWeightKG.Add(it.TotalWeight)
		s.CategoryCounts[it.Category]++
	}
	return s
}

// reset atomically clears all session state.
func (a *aggregator) reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = make(map[string]*aggregationEntry)
	a.processed = 0
}
