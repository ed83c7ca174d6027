package wishlist

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/greenlandphil/inventory-wishlist/internal/catalog"
)

// payloadVersion is the current stored wishlist shape. Version 0 (implied)
// was a bare JSON array of LegacyEntry, one element per add with no
// quantities.
const payloadVersion = 1

// LegacyEntry is one element of the pre-aggregation wishlist shape:
// a flat append-per-add record with an implicit quantity of one.
type LegacyEntry struct {
	SKU          string            `json:"sku"`
	Title        string            `json:"title"`
	MainImage    string            `json:"main_image,omitempty"`
	URL          string            `json:"url,omitempty"`
	Selections   catalog.Selection `json:"selections"`
	VariantImage string            `json:"variant_image,omitempty"`
	PriceInfo    catalog.PriceInfo `json:"price_info"`
}

// MigrateLegacy folds a flat legacy wishlist into the aggregated form,
// exactly as repeated Add calls would: entries sharing a (SKU, selection)
// key sum into one line. Safe to run any number of times over the same
// input since it builds a fresh list.
func MigrateLegacy(entries []LegacyEntry) *List {
	list := NewList()
	for _, e := range entries {
		preview := e.VariantImage
		if preview == "" {
			preview = e.MainImage
		}
		list.Add(Item{
			SKU:          e.SKU,
			Title:        e.Title,
			URL:          e.URL,
			Selections:   e.Selections,
			PriceInfo:    e.PriceInfo,
			PreviewImage: preview,
		})
	}
	return list
}

// storedList is the versioned persisted shape of an aggregated wishlist.
type storedList struct {
	Version int    `json:"version"`
	Lines   []Line `json:"lines"`
}

// EncodePayload serializes a list into the current versioned shape.
func EncodePayload(l *List) ([]byte, error) {
	return json.Marshal(storedList{Version: payloadVersion, Lines: l.Lines()})
}

// DecodePayload restores a list from a stored payload, upgrading legacy
// flat-array payloads through MigrateLegacy on the way in. Decoding an
// already-aggregated payload never re-migrates, which makes the legacy
// upgrade a one-shot: once saved back, the payload is versioned.
func DecodePayload(b []byte) (*List, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return NewList(), nil
	}

	if trimmed[0] == '[' {
		var entries []LegacyEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("parse legacy wishlist payload: %w", err)
		}
		return MigrateLegacy(entries), nil
	}

	var stored storedList
	if err := json.Unmarshal(trimmed, &stored); err != nil {
		return nil, fmt.Errorf("parse wishlist payload: %w", err)
	}
	if stored.Version != payloadVersion {
		return nil, fmt.Errorf("unsupported wishlist payload version %d", stored.Version)
	}

	list := NewList()
	for _, line := range stored.Lines {
		if line.Quantity < 1 {
			continue
		}
		restored := line
		restored.Selections = line.Selections.Clone()
		list.lines[line.Key] = &restored
		list.order = append(list.order, line.Key)
	}
	return list, nil
}
