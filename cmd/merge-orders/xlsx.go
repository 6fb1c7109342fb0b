package main

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nfcString NFC-normalizes cell text at the ingest boundary. Storefront
// exports arrive in mixed composed/decomposed Hangul and the keyword rules
// assume composed form.
func nfcString(s string) string {
	out, _, err := transform.String(norm.NFC, s)
	if err != nil {
		return s
	}
	return out
}

// loadWorkbook reads the first sheet of an order workbook into a header row
// and data rows, every cell NFC-normalized and padded to the header width.
func loadWorkbook(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("workbook has no header row")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = nfcString(h)
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, len(headers))
		for i := range headers {
			if i < len(row) {
				cells[i] = nfcString(row[i])
			}
		}
		data = append(data, cells)
	}
	return headers, data, nil
}

const (
	mergedSheetName  = "통합주문"
	packingSheetName = "패킹리스트"
)

// Appended output columns, after the original ones (kept verbatim).
var appendedHeaders = []string{"파싱옵션", "파일명", "원본행"}

// writeMergedWorkbook writes the sorted, annotated batch plus the packing
// list. Highlighting: combined deliveries yellow, heavy orders red, both
// green, plain rows unmarked.
func writeMergedWorkbook(path string, headers []string, rows []*orderRow, items []packingItem) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", mergedSheetName); err != nil {
		return err
	}
	if _, err := f.NewSheet(packingSheetName); err != nil {
		return err
	}

	combinedStyle, err := fillStyle(f, "FFEB9C")
	if err != nil {
		return err
	}
	heavyStyle, err := fillStyle(f, "FFC7CE")
	if err != nil {
		return err
	}
	bothStyle, err := fillStyle(f, "C6EFCE")
	if err != nil {
		return err
	}

	outHeaders := append(append([]string{}, headers...), appendedHeaders...)
	if err := writeRow(f, mergedSheetName, 1, outHeaders); err != nil {
		return err
	}
	for i, r := range rows {
		cells := make([]string, 0, len(outHeaders))
		for c := 0; c < len(headers); c++ {
			if c < len(r.Cells) {
				cells = append(cells, r.Cells[c])
			} else {
				cells = append(cells, "")
			}
		}
		cells = append(cells, r.Record.ProductName, r.SourceFile, fmt.Sprint(r.RowIndex))
		rowNum := i + 2
		if err := writeRow(f, mergedSheetName, rowNum, cells); err != nil {
			return err
		}

		style := 0
		switch {
		case r.Combined && r.Heavy:
			style = bothStyle
		case r.Combined:
			style = combinedStyle
		case r.Heavy:
			style = heavyStyle
		}
		if style != 0 {
			first, _ := excelize.CoordinatesToCellName(1, rowNum)
			last, _ := excelize.CoordinatesToCellName(len(outHeaders), rowNum)
			if err := f.SetCellStyle(mergedSheetName, first, last, style); err != nil {
				return err
			}
		}
	}

	if err := writeRow(f, packingSheetName, 1, []string{"분류", "상품명", "수량", "총중량(kg)", "업소용", "출처파일"}); err != nil {
		return err
	}
	for i, it := range items {
		bulk := ""
		if it.IsBulk {
			bulk = "업소용"
		}
		cells := []string{
			it.Category,
			it.ProductName,
			it.DisplayQuantity(),
			it.TotalWeight.String(),
			bulk,
			joinFiles(it.SourceFiles),
		}
		if err := writeRow(f, packingSheetName, i+2, cells); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func fillStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	vals := make([]interface{}, len(cells))
	for i, c := range cells {
		vals[i] = c
	}
	return f.SetSheetRow(sheet, cell, &vals)
}

func joinFiles(files []string) string {
	out := ""
	for i, f := range files {
		if i > 0 {
			out += " | "
		}
		out += f
	}
	return out
}
