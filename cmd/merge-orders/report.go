package main

import (
	"fmt"
	"sort"
	"strings"
)

// fileReport is the per-file outcome: row counts, soft row warnings, or the
// file-level error that made the batch skip it.
type fileReport struct {
	File     string
	Rows     int
	Warnings []string
	Err      error
}

type batchResult struct {
	BatchID        string
	Files          []fileReport
	Rows           []*orderRow
	CombinedGroups int
	HeavyRows      int
}

// buildRunReport renders the batch outcome as markdown, one report per run.
func buildRunReport(res *batchResult, sum aggregateSummary, items []packingItem) string {
	processedFiles, skippedFiles, warningCount := 0, 0, 0
	for _, fr := range res.Files {
		if fr.Err != nil {
			skippedFiles++
		} else {
			processedFiles++
		}
		warningCount += len(fr.Warnings)
	}

	lines := []string{
		"# 주문 통합 결과",
		"",
		fmt.Sprintf("- Batch: %s", res.BatchID),
		"",
		"## Dataset shape",
		fmt.Sprintf("- Files processed: %d", processedFiles),
		fmt.Sprintf("- Files skipped: %d", skippedFiles),
		fmt.Sprintf("- Order rows: %d", len(res.Rows)),
		fmt.Sprintf("- Row warnings: %d", warningCount),
		"",
		"## Aggregation",
		fmt.Sprintf("- Processed orders: %d", sum.ProcessedOrders),
		fmt.Sprintf("- Packing items: %d", sum.ItemCount),
		fmt.Sprintf("- Bulk items: %d", sum.BulkItems),
		fmt.Sprintf("- Regular items: %d", sum.RegularItems),
		fmt.Sprintf("- Total weight: %s kg", sum.TotalWeightKG.String()),
		"",
		"## Delivery",
		fmt.Sprintf("- Combined-delivery groups: %d", res.CombinedGroups),
		fmt.Sprintf("- Heavy rows (>10kg): %d", res.HeavyRows),
		"",
		"## Category histogram",
	}

	cats := make([]string, 0, len(sum.CategoryCounts))
	for c := range sum.CategoryCounts {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		lines = append(lines, fmt.Sprintf("- %s: %d", c, sum.CategoryCounts[c]))
	}
	lines = append(lines, "")

	if len(items) > 0 {
		lines = append(lines, "## Top packing items")
		top := items
		if len(top) > 10 {
			top = top[:10]
		}
		for _, it := range top {
			lines = append(lines, fmt.Sprintf("- %s | %s | %s개 | %skg",
				it.Category, it.ProductName, it.DisplayQuantity(), it.TotalWeight.String()))
		}
		lines = append(lines, "")
	}

	if skippedFiles > 0 {
		lines = append(lines, "## File errors")
		for _, fr := range res.Files {
			if fr.Err != nil {
				lines = append(lines, fmt.Sprintf("- %s: %v", fr.File, fr.Err))
			}
		}
		lines = append(lines, "")
	}

	if warningCount > 0 {
		lines = append(lines, "## Row warnings")
		for _, fr := range res.Files {
			for _, w := range fr.Warnings {
				lines = append(lines, fmt.Sprintf("- %s: %s", fr.File, w))
			}
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
