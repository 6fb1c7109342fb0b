package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	inputArg   = flag.String("input", "", "Input .xlsx order files (comma-separated paths, globs, or a directory)")
	outputDir  = flag.String("out-dir", "outputs", "Output directory")
	xlsxPath   = flag.String("xlsx", "", "Merged workbook path (default outputs/merged_orders.xlsx)")
	csvPath    = flag.String("csv", "", "Packing-list CSV path (default outputs/packing_list.csv)")
	sqlitePath = flag.String("sqlite", "", "SQLite export path (default outputs/orders.sqlite)")
	reportPath = flag.String("report", "", "Run report markdown path (default outputs/run_report.md)")
	parallel   = flag.Int("parallel", 1, "Number of files parsed concurrently")
)

func main() {
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	inputs, err := expandInputs(*inputArg)
	if err != nil {
		fatalf("resolve inputs: %v", err)
	}
	if len(inputs) == 0 {
		fatalf("no input files; pass -input")
	}

	outXLSX := orDefault(*xlsxPath, filepath.Join(*outputDir, "merged_orders.xlsx"))
	outCSV := orDefault(*csvPath, filepath.Join(*outputDir, "packing_list.csv"))
	outSQLite := orDefault(*sqlitePath, filepath.Join(*outputDir, "orders.sqlite"))
	outReport := orDefault(*reportPath, filepath.Join(*outputDir, "run_report.md"))
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fatalf("mkdir outputs: %v", err)
	}

	agg := newAggregator()
	res := processBatch(inputs, agg, logger, *parallel)
	res.BatchID = uuid.NewString()

	res.CombinedGroups = detectCombined(res.Rows)
	res.HeavyRows = detectHeavy(res.Rows)
	sortRows(res.Rows)

	items := agg.generate()
	sum := agg.summary()

	headers := firstHeaders(res)
	if err := writeMergedWorkbook(outXLSX, headers, res.Rows, items); err != nil {
		fatalf("write workbook: %v", err)
	}
	if err := writePackingCSV(outCSV, items); err != nil {
		fatalf("write csv: %v", err)
	}
	if err := writeSQLite(outSQLite, res.BatchID, items, res.Rows); err != nil {
		fatalf("write sqlite: %v", err)
	}
	if err := os.WriteFile(outReport, []byte(buildRunReport(res, sum, items)), 0o644); err != nil {
		fatalf("write report: %v", err)
	}

	fmt.Printf("Batch:            %s\n", res.BatchID)
	fmt.Printf("Order rows:       %d\n", len(res.Rows))
	fmt.Printf("Packing items:    %d\n", sum.ItemCount)
	fmt.Printf("Combined groups:  %d\n", res.CombinedGroups)
	fmt.Printf("Heavy rows:       %d\n", res.HeavyRows)
	fmt.Printf("Workbook:         %s\n", outXLSX)
	fmt.Printf("Packing list:     %s\n", outCSV)
	fmt.Printf("SQLite:           %s\n", outSQLite)
	fmt.Printf("Report:           %s\n", outReport)
}

// processBatch parses every input file and folds rows into the aggregator.
// File errors skip that file only; the batch always continues.
func processBatch(inputs []string, agg *aggregator, logger *zap.Logger, workers int) *batchResult {
	if workers < 1 {
		workers = 1
	}
	type slot struct {
		rows []*orderRow
		rep  fileReport
	}
	slots := make([]slot, len(inputs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i, path := range inputs {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			rows, rep := processFile(path, agg, logger)
			slots[i] = slot{rows: rows, rep: rep}
		}(i, path)
	}
	wg.Wait()

	res := &batchResult{}
	for _, s := range slots {
		res.Files = append(res.Files, s.rep)
		res.Rows = append(res.Rows, s.rows...)
	}
	return res
}

// headersByFile remembers each successfully parsed file's header row so the
// merged workbook can reuse the first one.
var (
	headersMu     sync.Mutex
	headersByFile = map[string][]string{}
)

func processFile(path string, agg *aggregator, logger *zap.Logger) ([]*orderRow, fileReport) {
	name := filepath.Base(path)
	rep := fileReport{File: name}

	headers, data, err := loadWorkbook(path)
	if err != nil {
		rep.Err = err
		logger.Warn("file skipped", zap.String("file", name), zap.Error(err))
		return nil, rep
	}
	optionCol, fallbackCol, err := resolveOptionColumns(headers)
	if err != nil {
		rep.Err = err
		logger.Warn("file skipped", zap.String("file", name), zap.Error(err))
		return nil, rep
	}
	cols := resolveDeliveryColumns(headers)

	headersMu.Lock()
	headersByFile[name] = headers
	headersMu.Unlock()

	rows := make([]*orderRow, 0, len(data))
	for i, cells := range data {
		text := cellAt(cells, optionCol)
		if text == "" {
			text = cellAt(cells, fallbackCol)
		}
		if text == "" && rowEmpty(cells) {
			continue
		}

		qty, hasQty := parseQuantity(cells, cols.Quantity)
		rec, warn := buildRecord(text)
		if warn != "" {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("row %d: %s", i+2, warn))
			logger.Warn("row fell back to error category",
				zap.String("file", name), zap.Int("row", i+2), zap.String("warn", warn))
		}

		row := &orderRow{
			SourceFile:  name,
			RowIndex:    i + 2,
			Cells:       cells,
			Record:      rec,
			Quantity:    qty,
			HasQuantity: hasQty,
		}
		if cols.groupingEnabled() {
			row.Recipient = cellAt(cells, cols.Recipient)
			row.Address = cellAt(cells, cols.Address)
			if cols.Phone >= 0 {
				row.Phone = cellAt(cells, cols.Phone)
				row.PhoneResolved = true
			}
		}
		rows = append(rows, row)

		if hasQty {
			agg.addRow(rec, qty, name)
		}
	}
	rep.Rows = len(rows)
	logger.Info("file parsed", zap.String("file", name), zap.Int("rows", len(rows)),
		zap.Int("warnings", len(rep.Warnings)))
	return rows, rep
}

// parseQuantity reads the quantity cell; a missing quantity column means one
// order per row, a present-but-non-numeric cell disables quantity-dependent
// features for the row.
func parseQuantity(cells []string, col int) (decimal.Decimal, bool) {
	if col < 0 {
		return decimal.NewFromInt(1), true
	}
	raw := cellAt(cells, col)
	if raw == "" {
		return decimal.Zero, false
	}
	q, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	return q, true
}

func rowEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func firstHeaders(res *batchResult) []string {
	headersMu.Lock()
	defer headersMu.Unlock()
	for _, fr := range res.Files {
		if fr.Err == nil {
			if h, ok := headersByFile[fr.File]; ok {
				return h
			}
		}
	}
	return nil
}

// expandInputs accepts comma-separated paths, glob patterns, or a directory.
func expandInputs(arg string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(arg, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		info, err := os.Stat(part)
		if err == nil && info.IsDir() {
			matches, err := filepath.Glob(filepath.Join(part, "*.xlsx"))
			if err != nil {
				return nil, err
			}
			out = append(out, matches...)
			continue
		}
		matches, err := filepath.Glob(part)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			out = append(out, part)
			continue
		}
		out = append(out, matches...)
	}
	sort.Strings(out)
	return out, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func fatalf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}
