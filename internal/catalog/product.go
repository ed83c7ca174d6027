package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Product is one immutable catalog record. Blocks keep the source order of
// the raw variant data; everything the UI shows is derived from them.
type Product struct {
	SKU            string    `json:"sku"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	URL            string    `json:"url,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	MainImage      string    `json:"main_image,omitempty"`
	MainImageLocal string    `json:"main_image_local,omitempty"`
	Blocks         BlockList `json:"variants,omitempty"`
}

// BestImage prefers the local image path and falls back to the remote URL.
func (p *Product) BestImage() string {
	if p.MainImageLocal != "" {
		return p.MainImageLocal
	}
	return p.MainImage
}

// DisplayTitle falls back to the SKU when the record has no title.
func (p *Product) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return p.SKU
}

// VariantBlock is a closed union over the raw variant shapes the catalog
// sources emit: TableBlock and SwatchBlock. New shapes get a new variant
// here and a case in every dispatch site, keeping the handling exhaustive.
type VariantBlock interface {
	blockType() string
}

// TableBlock is a row/column table where each row is one concrete
// combination scoped to the columns present.
type TableBlock struct {
	Headers []string   `json:"headers"`
	Rows    []TableRow `json:"items"`
}

func (*TableBlock) blockType() string { return "standard_variant" }

// TableRow maps column names to scalar cells plus optional row-level image
// references.
type TableRow struct {
	Cells      map[string]any
	Image      string
	ImageLocal string
}

// BestImage prefers the row's local image path over the remote URL.
func (r *TableRow) BestImage() string {
	if r.ImageLocal != "" {
		return r.ImageLocal
	}
	return r.Image
}

func (r *TableRow) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Cells = make(map[string]any, len(raw))
	for k, v := range raw {
		switch k {
		case "image":
			r.Image, _ = v.(string)
		case "image_local":
			r.ImageLocal, _ = v.(string)
		default:
			r.Cells[k] = v
		}
	}
	return nil
}

// SwatchBlock represents one axis directly, typically color swatches.
type SwatchBlock struct {
	Label   string         `json:"label"`
	Options []SwatchOption `json:"options"`
}

func (*SwatchBlock) blockType() string { return "color_variant" }

type SwatchOption struct {
	Name       string `json:"name"`
	Image      string `json:"image,omitempty"`
	ImageLocal string `json:"image_local,omitempty"`
}

// BestImage prefers the option's local image path over the remote URL.
func (o *SwatchOption) BestImage() string {
	if o.ImageLocal != "" {
		return o.ImageLocal
	}
	return o.Image
}

// BlockList decodes a heterogeneous variant array, dispatching on the
// "type" discriminator. Blocks with an unrecognized type are dropped
// rather than rejected so newer catalog exports keep loading.
type BlockList []VariantBlock

func (l *BlockList) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	blocks := make(BlockList, 0, len(raw))
	for i, msg := range raw {
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &head); err != nil {
			return fmt.Errorf("variant block %d: %w", i, err)
		}
		switch head.Type {
		case "standard_variant":
			var tb TableBlock
			if err := json.Unmarshal(msg, &tb); err != nil {
				return fmt.Errorf("variant block %d: %w", i, err)
			}
			blocks = append(blocks, &tb)
		case "color_variant":
			var sb SwatchBlock
			if err := json.Unmarshal(msg, &sb); err != nil {
				return fmt.Errorf("variant block %d: %w", i, err)
			}
			blocks = append(blocks, &sb)
		default:
			// Unknown block kind; skip it.
		}
	}
	*l = blocks
	return nil
}

// Selection maps an axis label to the single chosen option for that axis.
type Selection map[string]string

// Clone returns an independent copy of the selection.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// UnspecifiedOption is the sentinel used for blank or missing option values.
const UnspecifiedOption = "Unspecified"

// CleanOption renders a raw cell value as an option name. Blank and missing
// values become the Unspecified sentinel, never an empty string.
func CleanOption(v any) string {
	var s string
	switch val := v.(type) {
	case nil:
		s = ""
	case string:
		s = val
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		s = strconv.Itoa(val)
	case int64:
		s = strconv.FormatInt(val, 10)
	case bool:
		s = strconv.FormatBool(val)
	default:
		s = fmt.Sprintf("%v", val)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return UnspecifiedOption
	}
	return s
}
