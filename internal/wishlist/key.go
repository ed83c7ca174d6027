package wishlist

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/greenlandphil/inventory-wishlist/internal/catalog"
)

// Key derives the deterministic line key for a (SKU, selection) pair.
// Entries are sorted by axis label case-insensitively before digesting, so
// the key is independent of selection order. Content equality is the only
// requirement here, not collision resistance; a truncated sha256 keeps the
// key short enough for redis keys and URL paths.
func Key(sku string, sel catalog.Selection) string {
	labels := make([]string, 0, len(sel))
	for label := range sel {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		li, lj := strings.ToLower(labels[i]), strings.ToLower(labels[j])
		if li != lj {
			return li < lj
		}
		return labels[i] < labels[j]
	})

	var b strings.Builder
	b.WriteString(sku)
	for _, label := range labels {
		b.WriteByte('|')
		b.WriteString(label)
		b.WriteByte(':')
		b.WriteString(sel[label])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:16])
}
