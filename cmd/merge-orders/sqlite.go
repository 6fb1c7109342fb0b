package main

import (
	"database/sql"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

// writeSQLite exports the packing list and the annotated order rows so the
// warehouse side can query a batch after the fact.
func writeSQLite(path, batchID string, items []packingItem, rows []*orderRow) error {
	_ = os.Remove(path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	ddl := []string{
		`CREATE TABLE "packing_items" (
			"batch_id" TEXT,
			"category" TEXT,
			"product_name" TEXT,
			"quantity" REAL,
			"total_weight_kg" REAL,
			"is_bulk" INTEGER,
			"source_files" TEXT
		)`,
		`CREATE TABLE "orders" (
			"batch_id" TEXT,
			"source_file" TEXT,
			"row_index" INTEGER,
			"original_text" TEXT,
			"product_name" TEXT,
			"category" TEXT,
			"weight_kg" REAL,
			"quantity" REAL,
			"is_bulk" INTEGER,
			"combined" INTEGER,
			"heavy" INTEGER
		)`,
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	itemStmt, err := db.Prepare(`INSERT INTO "packing_items"
		("batch_id","category","product_name","quantity","total_weight_kg","is_bulk","source_files")
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer itemStmt.Close()
	for _, it := range items {
		qty, _ := it.Quantity.Float64()
		weight, _ := it.TotalWeight.Float64()
		if _, err := itemStmt.Exec(batchID, it.Category, it.ProductName, qty, weight,
			boolInt(it.IsBulk), strings.Join(it.SourceFiles, "|")); err != nil {
			return err
		}
	}

	orderStmt, err := db.Prepare(`INSERT INTO "orders"
		("batch_id","source_file","row_index","original_text","product_name","category",
		 "weight_kg","quantity","is_bulk","combined","heavy")
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer orderStmt.Close()
	for _, r := range rows {
		var weight interface{}
		if r.Record.HasWeight {
			weight, _ = r.Record.Weight.Float64()
		}
		var qty interface{}
		if r.HasQuantity {
			qty, _ = r.Quantity.Float64()
		}
		if _, err := orderStmt.Exec(batchID, r.SourceFile, r.RowIndex, r.Record.OriginalText,
			r.Record.ProductName, r.Record.Category, weight, qty,
			boolInt(r.Record.IsBulk), boolInt(r.Combined), boolInt(r.Heavy)); err != nil {
			return err
		}
	}

	for _, idx := range []string{
		`CREATE INDEX IF NOT EXISTS idx_packing_items_category ON packing_items(category)`,
		`CREATE INDEX IF NOT EXISTS idx_packing_items_name ON packing_items(product_name)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_source_file ON orders(source_file)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_category ON orders(category)`,
	} {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
