package catalog

import (
	"regexp"
	"sort"
	"strings"
)

// Axis is one canonical, user-selectable option dimension derived by
// merging raw variant blocks. Options preserve first-seen order and never
// repeat. Images maps an option name to its preview image reference;
// SourceBlocks records which block indices contributed.
type Axis struct {
	Label        string            `json:"label"`
	Options      []string          `json:"options"`
	Images       map[string]string `json:"images,omitempty"`
	SourceBlocks []int             `json:"source_blocks,omitempty"`
}

var mmPattern = regexp.MustCompile(`(?i)^\s*\d+(?:\.\d+)?\s*mm\s*$`)

// labelAliases folds the synonymous raw labels the sources use onto one
// canonical name. Keys are lower-cased trimmed raw labels.
var labelAliases = map[string]string{
	"cz color":       "Color",
	"crystal color":  "Color",
	"color":          "Color",
	"packing option": "Packing Option",
	"packing":        "Packing Option",
	"package":        "Packing Option",
	"rack":           "Rack",
	"gauge":          "Gauge",
	"size":           "Size",
}

// NormalizeLabel maps a raw column or axis name onto its canonical label.
// Numeric millimetre columns are labelled inconsistently at the source
// ("Size", "Length", blank), so when every observed option looks like
// "8.00mm" the label is forced to Length before the alias table is
// consulted. Unmatched labels pass through trimmed; a blank label becomes
// "Option". This must stay a pure, stable function: it is the merge key
// for BuildAxes.
func NormalizeLabel(raw string, options []string) string {
	label := strings.TrimSpace(raw)

	if len(options) > 0 {
		allMM := true
		for _, opt := range options {
			if !mmPattern.MatchString(opt) {
				allMM = false
				break
			}
		}
		if allMM {
			return "Length"
		}
	}

	if canonical, ok := labelAliases[strings.ToLower(label)]; ok {
		return canonical
	}
	if label == "" {
		return "Option"
	}
	return label
}

// priceColumns are the tabular column names that carry price data rather
// than selectable identity. Keys are lower-cased trimmed header names.
var priceColumns = map[string]bool{
	"price":           true,
	"price / pc":      true,
	"price/pc":        true,
	"price per pc":    true,
	"price per pair":  true,
	"price per piece": true,
}

func isPriceColumn(header string) bool {
	return priceColumns[strings.ToLower(strings.TrimSpace(header))]
}

// axisPriority fixes the display order for the well-known axes; anything
// else sorts alphabetically after them.
var axisPriority = map[string]int{
	"Length":         0,
	"Size":           1,
	"Gauge":          2,
	"Color":          3,
	"Packing Option": 4,
	"Rack":           5,
}

// BuildAxes derives the canonical, deduplicated axis list for a product.
// Each variant block contributes (label, options, images) tuples according
// to its shape; tuples whose labels normalize to the same canonical name
// are merged across blocks, preserving first-seen option order and letting
// later blocks overwrite earlier image assignments for the same option.
func BuildAxes(p *Product) []Axis {
	byLabel := make(map[string]*Axis)

	merge := func(blockIdx int, rawLabel string, options []string, images map[string]string) {
		label := NormalizeLabel(rawLabel, options)
		axis, ok := byLabel[label]
		if !ok {
			axis = &Axis{Label: label, Images: make(map[string]string)}
			byLabel[label] = axis
		}
		seen := make(map[string]bool, len(axis.Options))
		for _, opt := range axis.Options {
			seen[opt] = true
		}
		for _, opt := range options {
			if !seen[opt] {
				axis.Options = append(axis.Options, opt)
				seen[opt] = true
			}
		}
		for opt, img := range images {
			axis.Images[opt] = img
		}
		axis.SourceBlocks = append(axis.SourceBlocks, blockIdx)
	}

	for idx, block := range p.Blocks {
		switch b := block.(type) {
		case *TableBlock:
			for _, header := range b.Headers {
				if isPriceColumn(header) {
					continue
				}
				var options []string
				images := make(map[string]string)
				seen := make(map[string]bool)
				for i := range b.Rows {
					row := &b.Rows[i]
					val := CleanOption(row.Cells[header])
					if !seen[val] {
						options = append(options, val)
						seen[val] = true
					}
					if img := row.BestImage(); img != "" {
						images[val] = img
					}
				}
				merge(idx, header, options, images)
			}
		case *SwatchBlock:
			label := b.Label
			if label == "" {
				label = "Color"
			}
			var options []string
			images := make(map[string]string)
			for i := range b.Options {
				opt := &b.Options[i]
				name := CleanOption(opt.Name)
				options = append(options, name)
				if img := opt.BestImage(); img != "" {
					images[name] = img
				}
			}
			merge(idx, label, options, images)
		}
	}

	axes := make([]Axis, 0, len(byLabel))
	for _, axis := range byLabel {
		if len(axis.Images) == 0 {
			axis.Images = nil
		}
		axes = append(axes, *axis)
	}
	sort.Slice(axes, func(i, j int) bool {
		pi, pj := axisRank(axes[i].Label), axisRank(axes[j].Label)
		if pi != pj {
			return pi < pj
		}
		return axes[i].Label < axes[j].Label
	})
	return axes
}

func axisRank(label string) int {
	if p, ok := axisPriority[label]; ok {
		return p
	}
	return 99
}
