package catalog

// PriceInfo is the sparse best-effort result of a price lookup. A nil
// Price and empty PricePerPiece mean "unknown", not zero.
type PriceInfo struct {
	Price         *float64 `json:"price,omitempty"`
	PricePerPiece string   `json:"price_per_pc,omitempty"`
}

// Empty reports whether the lookup produced nothing at all.
func (pi PriceInfo) Empty() bool {
	return pi.Price == nil && pi.PricePerPiece == ""
}

// ResolvePrice searches the product's table blocks for a row agreeing with
// the selection and extracts whatever price fields the first matching row
// per block carries. Axes absent from the selection are wildcards, so an
// under-specified selection can still resolve a price (first row wins).
// Blocks are scanned independently; a later block only fills fields an
// earlier block left blank. No match anywhere yields an empty PriceInfo,
// never an error.
func ResolvePrice(p *Product, sel Selection) PriceInfo {
	var info PriceInfo

	for _, block := range p.Blocks {
		tb, ok := block.(*TableBlock)
		if !ok {
			continue
		}

		var matchHeaders []string
		for _, h := range tb.Headers {
			if !isPriceColumn(h) {
				matchHeaders = append(matchHeaders, h)
			}
		}
		// A block of nothing but price columns has no matchable identity.
		if len(matchHeaders) == 0 {
			continue
		}

		for i := range tb.Rows {
			row := &tb.Rows[i]
			if !rowMatches(row, matchHeaders, sel) {
				continue
			}
			if info.Price == nil {
				if v, ok := numericCell(row.Cells["Price"]); ok {
					info.Price = &v
				}
			}
			if info.PricePerPiece == "" {
				if s, ok := row.Cells["Price / pc"].(string); ok {
					info.PricePerPiece = s
				}
			}
			break // first matching row per block
		}
	}
	return info
}

func rowMatches(row *TableRow, matchHeaders []string, sel Selection) bool {
	for _, h := range matchHeaders {
		chosen, ok := sel[NormalizeLabel(h, nil)]
		if !ok {
			continue // unconstrained axis
		}
		if CleanOption(row.Cells[h]) != chosen {
			return false
		}
	}
	return true
}

func numericCell(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
