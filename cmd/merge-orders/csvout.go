package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// writePackingCSV writes the packing list with a UTF-8 BOM so spreadsheet
// apps pick up the Korean text without an import dialog.
func writePackingCSV(path string, items []packingItem) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	if err := writeCSVRecord(f, []string{"분류", "상품명", "수량", "총중량(kg)", "업소용", "출처파일"}); err != nil {
		return err
	}
	for _, it := range items {
		bulk := ""
		if it.IsBulk {
			bulk = "업소용"
		}
		rec := []string{
			it.Category,
			it.ProductName,
			it.DisplayQuantity(),
			it.TotalWeight.String(),
			bulk,
			strings.Join(it.SourceFiles, " | "),
		}
		if err := writeCSVRecord(f, rec); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVRecord(w io.Writer, rec []string) error {
	for i, field := range rec {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if needsCSVQuote(field) {
			if _, err := io.WriteString(w, `"`+strings.ReplaceAll(field, `"`, `""`)+`"`); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, field); err != nil {
				return err
			}
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func needsCSVQuote(s string) bool {
	return strings.ContainsAny(s, ",\"\n\r")
}
