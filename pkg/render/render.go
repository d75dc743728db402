package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/layout"
	"github.com/matzehuels/labelsheet/pkg/render/sink"
	"github.com/matzehuels/labelsheet/pkg/sheet"
)

// Output formats.
const (
	FormatPDF  = "pdf"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// Formats lists every supported output format.
var Formats = []string{FormatPDF, FormatSVG, FormatPNG, FormatJSON}

// DefaultBaseName names artifacts when no base name is configured.
const DefaultBaseName = "labels"

var contentTypes = map[string]string{
	FormatPDF:  "application/pdf",
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatJSON: "application/json",
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Artifact is one rendered file.
type Artifact struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	Data   []byte `json:"data"`
}

// Renderer turns a document into artifacts. PDF and JSON produce a single
// artifact; SVG and PNG produce one per page.
type Renderer interface {
	Format() string
	Render(doc sheet.Document) ([]Artifact, error)
}

// Options configures the sinks behind a [Renderer].
type Options struct {
	PageSize  layout.PageSize `json:"page_size"`
	CutGuides bool            `json:"cut_guides,omitempty"`
	DPI       float64         `json:"dpi,omitempty"`
	Title     string          `json:"title,omitempty"`
	BaseName  string          `json:"-"`
}

// SetDefaults fills zero values.
func (o *Options) SetDefaults() {
	if o.PageSize == (layout.PageSize{}) {
		o.PageSize = layout.DefaultPageSize
	}
	if o.DPI == 0 {
		o.DPI = sink.DefaultDPI
	}
	if o.BaseName == "" {
		o.BaseName = DefaultBaseName
	}
}

// ParseFormat normalizes and checks a format name.
func ParseFormat(s string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(Formats, f) {
		return "", errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of %s)", s, strings.Join(Formats, ", "))
	}
	return f, nil
}

// ForFormat returns the renderer for format.
func ForFormat(format string, opts Options) (Renderer, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	opts.SetDefaults()
	switch f {
	case FormatPDF:
		return pdfRenderer{opts}, nil
	case FormatSVG:
		return svgRenderer{opts}, nil
	case FormatPNG:
		return pngRenderer{opts}, nil
	default:
		return jsonRenderer{opts}, nil
	}
}

// Name returns the file name of a whole-document artifact.
func (o Options) Name(format string) string {
	return o.BaseName + "." + format
}

// PageName returns the file name of the artifact for one page.
func (o Options) PageName(format string, page int) string {
	return fmt.Sprintf("%s-%03d.%s", o.BaseName, page+1, format)
}

type pdfRenderer struct{ opts Options }

func (pdfRenderer) Format() string { return FormatPDF }

func (r pdfRenderer) Render(doc sheet.Document) ([]Artifact, error) {
	data, err := sink.RenderPDF(doc, r.opts.PDF()...)
	if err != nil {
		return nil, err
	}
	return []Artifact{{Name: r.opts.Name(FormatPDF), Format: FormatPDF, Data: data}}, nil
}

// PDF returns the sink options for PDF output.
func (o Options) PDF() []sink.PDFOption {
	opts := []sink.PDFOption{sink.WithPDFPageSize(o.PageSize)}
	if o.CutGuides {
		opts = append(opts, sink.WithPDFCutGuides())
	}
	if o.Title != "" {
		opts = append(opts, sink.WithPDFTitle(o.Title))
	}
	return opts
}

type svgRenderer struct{ opts Options }

func (svgRenderer) Format() string { return FormatSVG }

func (r svgRenderer) Render(doc sheet.Document) ([]Artifact, error) {
	if err := sink.CheckFit(doc.Grid, r.opts.PageSize); err != nil {
		return nil, err
	}
	opts := []sink.SVGOption{sink.WithSVGPageSize(r.opts.PageSize)}
	if r.opts.CutGuides {
		opts = append(opts, sink.WithSVGCutGuides())
	}
	out := make([]Artifact, len(doc.Pages))
	for i, p := range doc.Pages {
		out[i] = Artifact{Name: r.opts.PageName(FormatSVG, p.Index), Format: FormatSVG, Data: sink.RenderSVG(p, opts...)}
	}
	return out, nil
}

type pngRenderer struct{ opts Options }

func (pngRenderer) Format() string { return FormatPNG }

func (r pngRenderer) Render(doc sheet.Document) ([]Artifact, error) {
	if err := sink.CheckFit(doc.Grid, r.opts.PageSize); err != nil {
		return nil, err
	}
	opts := []sink.PNGOption{sink.WithPNGPageSize(r.opts.PageSize), sink.WithDPI(r.opts.DPI)}
	if r.opts.CutGuides {
		opts = append(opts, sink.WithPNGCutGuides())
	}
	out := make([]Artifact, len(doc.Pages))
	for i, p := range doc.Pages {
		data, err := sink.RenderPNG(p, opts...)
		if err != nil {
			return nil, err
		}
		out[i] = Artifact{Name: r.opts.PageName(FormatPNG, p.Index), Format: FormatPNG, Data: data}
	}
	return out, nil
}

type jsonRenderer struct{ opts Options }

func (jsonRenderer) Format() string { return FormatJSON }

func (r jsonRenderer) Render(doc sheet.Document) ([]Artifact, error) {
	data, err := sink.RenderJSON(doc, sink.WithJSONPageSize(r.opts.PageSize))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render json")
	}
	return []Artifact{{Name: r.opts.Name(FormatJSON), Format: FormatJSON, Data: data}}, nil
}
