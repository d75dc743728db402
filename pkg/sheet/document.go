package sheet

import (
	"iter"

	"github.com/matzehuels/labelsheet/pkg/barcode"
	"github.com/matzehuels/labelsheet/pkg/layout"
)

// Align is the horizontal anchor of a caption.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
)

// Caption is one line of text on a label. X and Y locate the anchor point on
// the text baseline, in millimetres.
type Caption struct {
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"` // points
	Align Align   `json:"align"`
}

// Label is a slot bound to one record.
type Label struct {
	Slot   layout.Slot    `json:"slot"`
	Record Record         `json:"record"`
	Symbol barcode.Symbol `json:"symbol"`

	// Box is the whole label; SymbolBox the barcode region at its top;
	// BarsBox the part of SymbolBox the bars are scaled into.
	Box       layout.Rect `json:"box"`
	SymbolBox layout.Rect `json:"symbol_box"`
	BarsBox   layout.Rect `json:"bars_box"`

	// Serial is the human-readable serial beneath the bars. It is absent
	// when the style disables it.
	Serial *Caption `json:"serial,omitempty"`

	// Lines holds the category and subcategory captions, in that order.
	Lines []Caption `json:"lines"`
}

// ModuleWidth returns the width of one barcode module when the symbol,
// quiet zones included, is stretched across BarsBox.
func (l Label) ModuleWidth() float64 {
	w := l.Symbol.Width()
	if w == 0 {
		return 0
	}
	return l.BarsBox.W / float64(w)
}

// Page is one printed sheet. Labels are in slot order.
type Page struct {
	Index  int     `json:"index"`
	Labels []Label `json:"labels"`
}

// Document is the complete, paginated result of one generation call.
// Pages[0] is the first printed page.
type Document struct {
	Grid      layout.GridConfig `json:"grid"`
	Style     LabelStyle        `json:"style"`
	Symbology barcode.Symbology `json:"symbology"`
	Pages     []Page            `json:"pages"`
}

// LabelCount returns the number of labels across all pages.
func (d Document) LabelCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Labels)
	}
	return n
}

// PageSizes returns the number of labels on each page.
func (d Document) PageSizes() []int {
	sizes := make([]int, len(d.Pages))
	for i, p := range d.Pages {
		sizes[i] = len(p.Labels)
	}
	return sizes
}

// Labels iterates over every label in print order.
func (d Document) Labels() iter.Seq[Label] {
	return func(yield func(Label) bool) {
		for _, p := range d.Pages {
			for _, l := range p.Labels {
				if !yield(l) {
					return
				}
			}
		}
	}
}
