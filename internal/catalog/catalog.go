package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	logx "github.com/greenlandphil/inventory-wishlist/pkg/logger"
)

// Catalog is the immutable, indexed product set loaded once at startup.
type Catalog struct {
	products []*Product
	bySKU    map[string]*Product
}

// Document is the wire shape of a JSON catalog source.
type Document struct {
	Products []*Product `json:"products"`
}

// Load reads a catalog from the given path. Paths ending in .sqlite or .db
// are read as snapshot databases; anything else is a JSON document. Any
// failure is returned to the caller, which must treat it as fatal: a
// partially loaded catalog would produce silently wrong axes.
func Load(path string) (*Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("catalog source %q: %w", path, err)
	}

	var (
		products []*Product
		err      error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sqlite", ".db":
		products, err = loadSnapshot(path)
	default:
		products, err = loadDocument(path)
	}
	if err != nil {
		return nil, err
	}
	return New(products), nil
}

func loadDocument(path string) ([]*Product, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %q: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog %q: %w", path, err)
	}
	return doc.Products, nil
}

// New builds an indexed catalog from the given records. Records without a
// SKU are dropped; on duplicate SKUs the first record wins.
func New(products []*Product) *Catalog {
	c := &Catalog{
		products: make([]*Product, 0, len(products)),
		bySKU:    make(map[string]*Product, len(products)),
	}
	for _, p := range products {
		if p == nil || p.SKU == "" {
			logx.Warn().Msg("dropping catalog record without SKU")
			continue
		}
		if _, exists := c.bySKU[p.SKU]; exists {
			logx.Warn().Str("sku", p.SKU).Msg("dropping duplicate catalog SKU")
			continue
		}
		c.products = append(c.products, p)
		c.bySKU[p.SKU] = p
	}
	return c
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Products returns the catalog records in source order.
func (c *Catalog) Products() []*Product {
	return c.products
}

// BySKU looks up one product by its unique SKU.
func (c *Catalog) BySKU(sku string) (*Product, bool) {
	p, ok := c.bySKU[sku]
	return p, ok
}

// Tags returns the sorted set of distinct tags across all products.
func (c *Catalog) Tags() []string {
	seen := make(map[string]bool)
	for _, p := range c.products {
		for _, t := range p.Tags {
			t = strings.TrimSpace(t)
			if t != "" {
				seen[t] = true
			}
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// FilterByTags returns the products carrying every one of the selected
// tags. An empty selection returns all products.
func (c *Catalog) FilterByTags(selected []string) []*Product {
	if len(selected) == 0 {
		return c.products
	}
	out := make([]*Product, 0, len(c.products))
	for _, p := range c.products {
		tags := make(map[string]bool, len(p.Tags))
		for _, t := range p.Tags {
			tags[strings.TrimSpace(t)] = true
		}
		all := true
		for _, want := range selected {
			if !tags[strings.TrimSpace(want)] {
				all = false
				break
			}
		}
		if all {
			out = append(out, p)
		}
	}
	return out
}
