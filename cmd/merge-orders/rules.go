package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// bulkThresholdKG is inclusive: a 5.0kg peeled/minced order is a bulk order.
var bulkThresholdKG = decimal.NewFromInt(5)

// Spaced marker forms. The inserted spaces keep the markers from re-matching
// the plain substring checks that run earlier in the pipeline.
const (
	bulkMarkerSpaced = "업 소 용"
	stemMarkerSpaced = "꼭 지 포 함"
)

// sizeSensitive are the two categories that get variety defaulting and bulk
// tagging.
func sizeSensitive(category string) bool {
	return category == catPeeled || category == catMinced
}

// buildRecord turns one raw option string into a parsedRecord: normalize,
// classify, then apply the business rules. Any panic inside the pipeline is
// contained at row granularity; the row falls back to the error category with
// its original text preserved and warn carries the failure.
func buildRecord(rawText string) (rec parsedRecord, warn string) {
	defer func() {
		if r := recover(); r != nil {
			rec = parsedRecord{
				OriginalText: rawText,
				ProductName:  strings.TrimSpace(rawText),
				Category:     catError,
			}
			warn = fmt.Sprintf("row parse failed: %v", r)
		}
	}()

	text := normalizeOptionText(rawText)
	rec = parsedRecord{
		OriginalText: rawText,
		ProductName:  text,
		Category:     classifyCategory(text),
		Variety:      extractVariety(text),
		Size:         extractSize(text),
		Processing:   extractProcessing(text),
	}
	if w, unit, ok := extractWeight(text); ok {
		rec.Weight = w
		rec.Unit = unit
		rec.HasWeight = true
	}
	applyBusinessRules(&rec)
	return rec, ""
}

func applyBusinessRules(rec *parsedRecord) {
	if sizeSensitive(rec.Category) && !strings.Contains(rec.ProductName, varietyPremium) &&
		!strings.Contains(rec.ProductName, varietyDefault) {
		rec.ProductName = varietyDefault + " " + rec.ProductName
		if rec.Variety == "" {
			rec.Variety = varietyDefault
		}
	}

	if rec.Category == catMinced && strings.Contains(rec.ProductName, "꼭지포함") {
		rec.ProductName = strings.ReplaceAll(rec.ProductName, "꼭지포함", stemMarkerSpaced)
	}

	if sizeSensitive(rec.Category) && rec.HasWeight &&
		rec.Weight.GreaterThanOrEqual(bulkThresholdKG) && !hasBulkMarker(rec.ProductName) {
		rec.ProductName = bulkMarkerSpaced + " " + rec.ProductName
		rec.IsBulk = true
	}

	rec.ProductName = tidyText(rec.ProductName)
}

func hasBulkMarker(name string) bool {
	return strings.Contains(name, "업소용") || strings.Contains(name, bulkMarkerSpaced)
}
