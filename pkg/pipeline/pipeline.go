// Package pipeline runs the generate → render pipeline shared by the CLI
// and the HTTP service.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Generate: encode every record and place it on the label grid
//     ([sheet.Generate])
//  2. Render: write the document in each requested format ([render.ForFormat])
//
// Rendered artifacts are cached by a key derived from the records and every
// option that changes the output bytes, so re-running an unchanged job is a
// cache read.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, records, pipeline.Options{
//	    Formats: []string{"pdf"},
//	})
//	if err != nil {
//	    return err
//	}
//	pdf := result.Artifacts["pdf"][0].Data
//
// Large PDF jobs can be streamed page by page instead:
//
//	err := runner.Stream(ctx, w, records, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labelsheet/pkg/barcode"
	"github.com/matzehuels/labelsheet/pkg/cache"
	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/layout"
	"github.com/matzehuels/labelsheet/pkg/render"
	"github.com/matzehuels/labelsheet/pkg/render/sink"
	"github.com/matzehuels/labelsheet/pkg/sheet"
)

// DefaultFormats is used when no format is requested.
var DefaultFormats = []string{render.FormatPDF}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generate options
	Grid      layout.GridConfig `json:"grid"`
	Style     sheet.LabelStyle  `json:"style"`
	Symbology string            `json:"symbology,omitempty"`
	Workers   int               `json:"-"` // 0 uses every CPU

	// Render options
	Formats   []string        `json:"formats,omitempty"`
	PageSize  layout.PageSize `json:"page_size"`
	CutGuides bool            `json:"cut_guides,omitempty"`
	DPI       float64         `json:"dpi,omitempty"`
	Title     string          `json:"title,omitempty"`
	BaseName  string          `json:"-"`

	// Refresh bypasses cached artifacts (they are still written).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the generated sheet. It is empty when every artifact
	// came from the cache.
	Document sheet.Document

	// RecordsHash is the content hash of the input records.
	RecordsHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]render.Artifact

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records      int
	Pages        int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := render.ParseFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills zero values. A zero Style is replaced as a whole, so a
// style that only sets SerialFontSize to zero must spell out the other
// fields.
func (o *Options) SetDefaults() {
	if o.Grid == (layout.GridConfig{}) {
		o.Grid = layout.DefaultGrid()
	}
	if o.Style == (sheet.LabelStyle{}) {
		o.Style = sheet.DefaultStyle()
	}
	if o.Symbology == "" {
		o.Symbology = string(barcode.DefaultSymbology)
	}
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if o.PageSize == (layout.PageSize{}) {
		o.PageSize = layout.DefaultPageSize
	}
	if o.DPI == 0 {
		o.DPI = sink.DefaultDPI
	}
	if o.BaseName == "" {
		o.BaseName = render.DefaultBaseName
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options without touching any record. Every check
// here is a configuration error.
func (o *Options) Validate() error {
	if err := o.Grid.Validate(); err != nil {
		return err
	}
	if err := o.Style.Validate(o.Grid); err != nil {
		return err
	}
	sym, err := barcode.ParseSymbology(o.Symbology)
	if err != nil {
		return err
	}
	o.Symbology = string(sym)
	for i, f := range o.Formats {
		pf, err := render.ParseFormat(f)
		if err != nil {
			return err
		}
		o.Formats[i] = pf
	}
	if err := o.PageSize.Validate(); err != nil {
		return err
	}
	if !(o.DPI >= 0) || o.DPI > sink.MaxDPI {
		return errors.New(errors.ErrCodeInvalidConfig, "dpi must be between 0 and %v, got %v", sink.MaxDPI, o.DPI)
	}
	return sink.CheckFit(o.Grid, o.PageSize)
}

// ValidateAndSetDefaults applies defaults and validates.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.Formats = append([]string(nil), o.Formats...)
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SheetOptions returns the generator options.
func (o *Options) SheetOptions() ([]sheet.Option, error) {
	sym, err := barcode.ParseSymbology(o.Symbology)
	if err != nil {
		return nil, err
	}
	enc, err := barcode.New(sym)
	if err != nil {
		return nil, err
	}
	return []sheet.Option{
		sheet.WithEncoder(enc),
		sheet.WithStyle(o.Style),
		sheet.WithWorkers(o.Workers),
	}, nil
}

// RenderOptions returns the renderer options.
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		PageSize:  o.PageSize,
		CutGuides: o.CutGuides,
		DPI:       o.DPI,
		Title:     o.Title,
		BaseName:  o.BaseName,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:    format,
		Symbology: o.Symbology,
		Grid:      o.Grid,
		Style:     o.Style,
		PageSize:  o.PageSize,
		CutGuides: o.CutGuides,
		Title:     o.Title,
	}
	if format == render.FormatPNG {
		k.DPI = o.DPI
	}
	return k
}
