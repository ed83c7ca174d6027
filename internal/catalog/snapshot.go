package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// loadSnapshot reads products from a sqlite snapshot database with a
// products(sku, doc) table, where doc holds the JSON record for one
// product. Snapshots are produced offline by the catalog export tooling.
func loadSnapshot(path string) ([]*Product, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog snapshot %q: %w", path, err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT sku, doc FROM products ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query catalog snapshot %q: %w", path, err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		var (
			sku string
			doc []byte
		)
		if err := rows.Scan(&sku, &doc); err != nil {
			return nil, fmt.Errorf("scan catalog snapshot row: %w", err)
		}
		var p Product
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("parse snapshot record %q: %w", sku, err)
		}
		if p.SKU == "" {
			p.SKU = sku
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read catalog snapshot %q: %w", path, err)
	}
	return products, nil
}
