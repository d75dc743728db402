package sink

import (
	"encoding/json"

	"github.com/matzehuels/labelsheet/pkg/barcode"
	"github.com/matzehuels/labelsheet/pkg/layout"
	"github.com/matzehuels/labelsheet/pkg/sheet"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	page    layout.PageSize
	pattern bool
}

// WithJSONPageSize records the paper size the layout is meant for.
func WithJSONPageSize(p layout.PageSize) JSONOption { return func(r *jsonRenderer) { r.page = p } }

// WithJSONPattern includes each symbol's module pattern as a 0/1 string.
func WithJSONPattern() JSONOption { return func(r *jsonRenderer) { r.pattern = true } }

type jsonOutput struct {
	Page         layout.PageSize   `json:"page"`
	Grid         layout.GridConfig `json:"grid"`
	Style        sheet.LabelStyle  `json:"style"`
	Symbology    barcode.Symbology `json:"symbology"`
	ItemsPerPage int               `json:"items_per_page"`
	Labels       int               `json:"labels"`
	Pages        []jsonPage        `json:"pages"`
}

type jsonPage struct {
	Index  int         `json:"index"`
	Labels []jsonLabel `json:"labels"`
}

type jsonLabel struct {
	Index       int             `json:"index"`
	Column      int             `json:"column"`
	Row         int             `json:"row"`
	Serial      string          `json:"serial"`
	Category    string          `json:"category,omitempty"`
	SubCategory string          `json:"sub_category,omitempty"`
	Box         layout.Rect     `json:"box"`
	Bars        layout.Rect     `json:"bars_box"`
	ModuleWidth float64         `json:"module_width"`
	QuietZone   int             `json:"quiet_zone"`
	Runs        []barcode.Bar   `json:"bars"`
	Pattern     string          `json:"pattern,omitempty"`
	Captions    []sheet.Caption `json:"captions"`
}

// RenderJSON exports the document layout: every slot, box and bar run in
// millimetres, for printers and tools that draw labels themselves.
func RenderJSON(doc sheet.Document, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{page: layout.DefaultPageSize}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Page:         r.page,
		Grid:         doc.Grid,
		Style:        doc.Style,
		Symbology:    doc.Symbology,
		ItemsPerPage: doc.Grid.ItemsPerPage(),
		Labels:       doc.LabelCount(),
		Pages:        make([]jsonPage, len(doc.Pages)),
	}
	for i, p := range doc.Pages {
		jp := jsonPage{Index: p.Index, Labels: make([]jsonLabel, len(p.Labels))}
		for j, l := range p.Labels {
			jl := jsonLabel{
				Index:       l.Slot.Index,
				Column:      l.Slot.Column,
				Row:         l.Slot.Row,
				Serial:      l.Record.SerialNumber,
				Category:    l.Record.Category,
				SubCategory: l.Record.SubCategory,
				Box:         l.Box,
				Bars:        l.BarsBox,
				ModuleWidth: l.ModuleWidth(),
				QuietZone:   l.Symbol.QuietZone,
				Runs:        l.Symbol.Bars(),
				Captions:    captions(l),
			}
			if r.pattern {
				jl.Pattern = l.Symbol.Pattern()
			}
			jp.Labels[j] = jl
		}
		out.Pages[i] = jp
	}
	return json.MarshalIndent(out, "", "  ")
}
