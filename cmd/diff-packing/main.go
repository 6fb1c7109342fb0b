package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// diff-packing compares two packing-list CSV exports, typically the same
// batch re-run after a rule change. Rows pair up by (category, product name);
// the report lists quantity and weight drift plus rows present on one side
// only.

type packingRow struct {
	Category    string
	ProductName string
	Quantity    decimal.Decimal
	TotalWeight decimal.Decimal
	IsBulk      bool
}

type rowDiff struct {
	Category          string `json:"category"`
	ProductName       string `json:"product_name"`
	ReferenceQuantity string `json:"reference_quantity"`
	CandidateQuantity string `json:"candidate_quantity"`
	QuantityDelta     string `json:"quantity_delta"`
	ReferenceWeight   string `json:"reference_weight_kg"`
	CandidateWeight   string `json:"candidate_weight_kg"`
	WeightDelta       string `json:"weight_delta_kg"`
	BulkChanged       bool   `json:"bulk_changed,omitempty"`
}

type missingRow struct {
	Category    string `json:"category"`
	ProductName string `json:"product_name"`
	Quantity    string `json:"quantity"`
	Weight      string `json:"weight_kg"`
}

type summaryPayload struct {
	Status            string `json:"status"`
	ReferenceRows     int    `json:"reference_rows"`
	CandidateRows     int    `json:"candidate_rows"`
	MatchedRows       int    `json:"matched_rows"`
	ChangedRows       int    `json:"changed_rows"`
	ReferenceOnlyRows int    `json:"reference_only_rows"`
	CandidateOnlyRows int    `json:"candidate_only_rows"`
	TotalWeightDelta  string `json:"total_weight_delta_kg"`
}

type reportPayload struct {
	Summary       summaryPayload `json:"summary"`
	Changed       []rowDiff      `json:"changed"`
	ReferenceOnly []missingRow   `json:"reference_only"`
	CandidateOnly []missingRow   `json:"candidate_only"`
}

func main() {
	refPath := flag.String("reference", "", "Reference packing-list CSV")
	candPath := flag.String("candidate", "", "Candidate packing-list CSV")
	jsonOut := flag.String("json", "", "Write the JSON report here instead of stdout")
	flag.Parse()

	if *refPath == "" || *candPath == "" {
		fatalf("both -reference and -candidate are required")
	}

	ref, err := loadPackingCSV(*refPath)
	if err != nil {
		fatalf("read reference: %v", err)
	}
	cand, err := loadPackingCSV(*candPath)
	if err != nil {
		fatalf("read candidate: %v", err)
	}

	report := comparePackingLists(ref, cand)

	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fatalf("encode report: %v", err)
	}
	raw = append(raw, '\n')
	if *jsonOut == "" {
		os.Stdout.Write(raw)
	} else if err := os.WriteFile(*jsonOut, raw, 0o644); err != nil {
		fatalf("write report: %v", err)
	}

	if report.Summary.Status != "identical" {
		os.Exit(2)
	}
}

// loadPackingCSV reads a packing-list export: BOM tolerated, header row
// required, trailing columns beyond the known five ignored.
func loadPackingCSV(path string) ([]packingRow, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})

	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	rows := make([]packingRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) < 4 {
			return nil, fmt.Errorf("%s: row %d has %d fields, need 4", path, i+2, len(rec))
		}
		qty, err := decimal.NewFromString(strings.TrimSpace(rec[2]))
		if err != nil {
			return nil, fmt.Errorf("%s: row %d quantity %q: %v", path, i+2, rec[2], err)
		}
		weight, err := decimal.NewFromString(strings.TrimSpace(rec[3]))
		if err != nil {
			return nil, fmt.Errorf("%s: row %d weight %q: %v", path, i+2, rec[3], err)
		}
		row := packingRow{
			Category:    strings.TrimSpace(rec[0]),
			ProductName: strings.TrimSpace(rec[1]),
			Quantity:    qty,
			TotalWeight: weight,
		}
		if len(rec) > 4 {
			row.IsBulk = strings.TrimSpace(rec[4]) != ""
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func rowKey(r packingRow) string {
	return r.Category + "\x00" + r.ProductName
}

func comparePackingLists(ref, cand []packingRow) reportPayload {
	refByKey := make(map[string]packingRow, len(ref))
	for _, r := range ref {
		refByKey[rowKey(r)] = r
	}
	candByKey := make(map[string]packingRow, len(cand))
	for _, r := range cand {
		candByKey[rowKey(r)] = r
	}

	var report reportPayload
	weightDelta := decimal.Zero

	for _, r := range ref {
		c, ok := candByKey[rowKey(r)]
		if !ok {
			report.ReferenceOnly = append(report.ReferenceOnly, missingRow{
				Category:    r.Category,
				ProductName: r.ProductName,
				Quantity:    r.Quantity.String(),
				Weight:      r.TotalWeight.String(),
			})
			weightDelta = weightDelta.Sub(r.TotalWeight)
			continue
		}
		report.Summary.MatchedRows++
		qtyDelta := c.Quantity.Sub(r.Quantity)
		wDelta := c.TotalWeight.Sub(r.TotalWeight)
		weightDelta = weightDelta.Add(wDelta)
		if qtyDelta.IsZero() && wDelta.IsZero() && r.IsBulk == c.IsBulk {
			continue
		}
		report.Changed = append(report.Changed, rowDiff{
			Category:          r.Category,
			ProductName:       r.ProductName,
			ReferenceQuantity: r.Quantity.String(),
			CandidateQuantity: c.Quantity.String(),
			QuantityDelta:     qtyDelta.String(),
			ReferenceWeight:   r.TotalWeight.String(),
			CandidateWeight:   c.TotalWeight.String(),
			WeightDelta:       wDelta.String(),
			BulkChanged:       r.IsBulk != c.IsBulk,
		})
	}

	for _, c := range cand {
		if _, ok := refByKey[rowKey(c)]; ok {
			continue
		}
		report.CandidateOnly = append(report.CandidateOnly, missingRow{
			Category:    c.Category,
			ProductName: c.ProductName,
			Quantity:    c.Quantity.String(),
			Weight:      c.TotalWeight.String(),
		})
		weightDelta = weightDelta.Add(c.TotalWeight)
	}

	sortMissing(report.ReferenceOnly)
	sortMissing(report.CandidateOnly)
	sort.Slice(report.Changed, func(i, j int) bool {
		if report.Changed[i].Category != report.Changed[j].Category {
			return report.Changed[i].Category < report.Changed[j].Category
		}
		return report.Changed[i].ProductName < report.Changed[j].ProductName
	})

	report.Summary.ReferenceRows = len(ref)
	report.Summary.CandidateRows = len(cand)
	report.Summary.ChangedRows = len(report.Changed)
	report.Summary.ReferenceOnlyRows = len(report.ReferenceOnly)
	report.Summary.CandidateOnlyRows = len(report.CandidateOnly)
	report.Summary.TotalWeightDelta = weightDelta.String()
	if report.Summary.ChangedRows == 0 && report.Summary.ReferenceOnlyRows == 0 &&
		report.Summary.CandidateOnlyRows == 0 {
		report.Summary.Status = "identical"
	} else {
		report.Summary.Status = "different"
	}
	return report
}

func sortMissing(rows []missingRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].ProductName < rows[j].ProductName
	})
}

func fatalf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}
