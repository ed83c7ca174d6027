package wishlist

import (
	"github.com/greenlandphil/inventory-wishlist/internal/catalog"
)

// Item is one add-to-wishlist request: a product snapshot plus the exact
// option combination the user picked.
type Item struct {
	SKU          string            `json:"sku"`
	Title        string            `json:"title"`
	URL          string            `json:"url,omitempty"`
	Selections   catalog.Selection `json:"selections"`
	PriceInfo    catalog.PriceInfo `json:"price_info"`
	PreviewImage string            `json:"preview_image,omitempty"`
}

// Line is one aggregated wishlist entry. Quantity is always at least one;
// a line whose quantity would drop to zero is removed from the list
// instead.
type Line struct {
	Key          string            `json:"key"`
	SKU          string            `json:"sku"`
	Title        string            `json:"title"`
	URL          string            `json:"url,omitempty"`
	Selections   catalog.Selection `json:"selections"`
	PriceInfo    catalog.PriceInfo `json:"price_info"`
	PreviewImage string            `json:"preview_image,omitempty"`
	Quantity     int               `json:"quantity"`
}

// Summary is the rendered totals for a wishlist.
type Summary struct {
	Lines         int `json:"lines"`
	TotalQuantity int `json:"total_quantity"`
}

// List is the aggregated wishlist: one line per (SKU, selection) key with
// a quantity, iterated in the insertion order of each line's first add.
// List is not safe for concurrent use; callers own serialization.
type List struct {
	lines map[string]*Line
	order []string
}

// NewList returns an empty aggregated wishlist.
func NewList() *List {
	return &List{lines: make(map[string]*Line)}
}

// Add folds an item into the list: a new key inserts a quantity-one line,
// a repeated key increments the existing line. Fresh price info and
// preview images replace stale ones on repeat adds; empty ones keep what
// the line already has.
func (l *List) Add(it Item) *Line {
	key := Key(it.SKU, it.Selections)
	if line, ok := l.lines[key]; ok {
		line.Quantity++
		if !it.PriceInfo.Empty() {
			line.PriceInfo = it.PriceInfo
		}
		if it.PreviewImage != "" {
			line.PreviewImage = it.PreviewImage
		}
		return line
	}

	line := &Line{
		Key:          key,
		SKU:          it.SKU,
		Title:        it.Title,
		URL:          it.URL,
		Selections:   it.Selections.Clone(),
		PriceInfo:    it.PriceInfo,
		PreviewImage: it.PreviewImage,
		Quantity:     1,
	}
	l.lines[key] = line
	l.order = append(l.order, key)
	return line
}

// Increment raises the quantity of an existing line by one. Unknown keys
// are a no-op.
func (l *List) Increment(key string) bool {
	line, ok := l.lines[key]
	if !ok {
		return false
	}
	line.Quantity++
	return true
}

// Decrement lowers the quantity of an existing line by one, deleting the
// line when it reaches zero. Unknown keys are a no-op.
func (l *List) Decrement(key string) bool {
	line, ok := l.lines[key]
	if !ok {
		return false
	}
	line.Quantity--
	if line.Quantity <= 0 {
		l.delete(key)
	}
	return true
}

// Remove deletes a line regardless of quantity. Unknown keys are a no-op.
func (l *List) Remove(key string) bool {
	if _, ok := l.lines[key]; !ok {
		return false
	}
	l.delete(key)
	return true
}

func (l *List) delete(key string) {
	delete(l.lines, key)
	for i, k := range l.order {
		if k == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Get returns a copy of the line for the given key.
func (l *List) Get(key string) (Line, bool) {
	line, ok := l.lines[key]
	if !ok {
		return Line{}, false
	}
	return *line, true
}

// Len returns the number of distinct lines.
func (l *List) Len() int {
	return len(l.lines)
}

// Lines returns the display view: line copies in stable insertion order.
func (l *List) Lines() []Line {
	out := make([]Line, 0, len(l.order))
	for _, key := range l.order {
		if line, ok := l.lines[key]; ok {
			out = append(out, *line)
		}
	}
	return out
}

// Summary returns the distinct line count and the total quantity across
// all lines.
func (l *List) Summary() Summary {
	s := Summary{Lines: len(l.lines)}
	for _, line := range l.lines {
		s.TotalQuantity += line.Quantity
	}
	return s
}
