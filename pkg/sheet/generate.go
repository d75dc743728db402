package sheet

import (
	"context"
	"iter"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/labelsheet/pkg/barcode"
	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/layout"
)

// ErrEmptyInput is returned when a sheet is requested for zero records.
var ErrEmptyInput error = errors.New(errors.ErrCodeEmptyInput, "no records to print")

// Option configures a generation call.
type Option func(*generator)

// WithEncoder sets the barcode encoder. The default is [barcode.Code128].
func WithEncoder(enc barcode.Encoder) Option {
	return func(g *generator) {
		if enc != nil {
			g.enc = enc
		}
	}
}

// WithStyle sets the label typography. The default is [DefaultStyle].
func WithStyle(s LabelStyle) Option {
	return func(g *generator) { g.style = s }
}

// WithWorkers bounds the number of symbols encoded concurrently.
// n <= 0 uses GOMAXPROCS; 1 encodes sequentially. Output is identical for
// every n.
func WithWorkers(n int) Option {
	return func(g *generator) { g.workers = n }
}

type generator struct {
	grid    layout.GridConfig
	style   LabelStyle
	enc     barcode.Encoder
	workers int
}

func newGenerator(grid layout.GridConfig, opts []Option) (*generator, error) {
	g := &generator{
		grid:  grid,
		style: DefaultStyle(),
		enc:   barcode.Code128{},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.workers <= 0 {
		g.workers = runtime.GOMAXPROCS(0)
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if err := g.style.Validate(grid); err != nil {
		return nil, err
	}
	return g, nil
}

// Generate lays out records on pages of grid and encodes each serial number.
// It fails without a document if the configuration is invalid, records is
// empty, or any serial cannot be encoded.
func Generate(ctx context.Context, records []Record, grid layout.GridConfig, opts ...Option) (Document, error) {
	g, err := newGenerator(grid, opts)
	if err != nil {
		return Document{}, err
	}
	if len(records) == 0 {
		return Document{}, ErrEmptyInput
	}

	symbols, err := g.encode(ctx, records, 0)
	if err != nil {
		return Document{}, err
	}

	n, _ := layout.PageCount(len(records), grid)
	doc := g.document()
	doc.Pages = make([]Page, 0, n)
	ipp := grid.ItemsPerPage()
	for start := 0; start < len(records); start += ipp {
		end := min(start+ipp, len(records))
		doc.Pages = append(doc.Pages, g.page(records, symbols[start:end], start))
	}
	return doc, nil
}

// Pages returns the pages of the document [Generate] would build, one at a
// time. Each range over the sequence starts again from the first record.
// On failure the sequence yields a single error and stops.
func Pages(ctx context.Context, records []Record, grid layout.GridConfig, opts ...Option) iter.Seq2[Page, error] {
	return func(yield func(Page, error) bool) {
		g, err := newGenerator(grid, opts)
		if err != nil {
			yield(Page{}, err)
			return
		}
		if len(records) == 0 {
			yield(Page{}, ErrEmptyInput)
			return
		}
		if err := g.validate(records); err != nil {
			yield(Page{}, err)
			return
		}

		ipp := grid.ItemsPerPage()
		for start := 0; start < len(records); start += ipp {
			end := min(start+ipp, len(records))
			symbols, err := g.encode(ctx, records[start:end], start)
			if err != nil {
				yield(Page{}, err)
				return
			}
			if !yield(g.page(records, symbols, start), nil) {
				return
			}
		}
	}
}

// Describe returns the document header for grid without any pages. Sinks
// that consume [Pages] use it to set up page geometry.
func Describe(grid layout.GridConfig, opts ...Option) (Document, error) {
	g, err := newGenerator(grid, opts)
	if err != nil {
		return Document{}, err
	}
	return g.document(), nil
}

func (g *generator) document() Document {
	return Document{
		Grid:      g.grid,
		Style:     g.style,
		Symbology: g.enc.Symbology(),
	}
}

// validate checks every serial without encoding, so streaming can fail before
// the first page.
func (g *generator) validate(records []Record) error {
	var failures []errors.RecordError
	for i, r := range records {
		if err := g.enc.Validate(r.SerialNumber); err != nil {
			failures = append(failures, errors.RecordError{Index: i, Serial: r.SerialNumber, Err: err})
		}
	}
	if len(failures) > 0 {
		return &errors.EncodingErrors{Total: len(records), Failures: failures}
	}
	return nil
}

// encode encodes the serials of records, which start at input position
// offset. Results are stored by index so worker scheduling cannot affect
// order. Every record is attempted before failures are reported.
func (g *generator) encode(ctx context.Context, records []Record, offset int) ([]barcode.Symbol, error) {
	symbols := make([]barcode.Symbol, len(records))
	errs := make([]error, len(records))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i := range records {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			symbols[i], errs[i] = g.enc.Encode(records[i].SerialNumber)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var failures []errors.RecordError
	for i, err := range errs {
		if err != nil {
			failures = append(failures, errors.RecordError{
				Index:  offset + i,
				Serial: records[i].SerialNumber,
				Err:    err,
			})
		}
	}
	if len(failures) > 0 {
		return nil, &errors.EncodingErrors{Total: len(records), Failures: failures}
	}
	return symbols, nil
}

// page assembles the labels for symbols, the first of which belongs to
// records[start].
func (g *generator) page(records []Record, symbols []barcode.Symbol, start int) Page {
	labels := make([]Label, len(symbols))
	for i, sym := range symbols {
		labels[i] = g.label(g.grid.Slot(start+i), records[start+i], sym)
	}
	return Page{Index: start / g.grid.ItemsPerPage(), Labels: labels}
}

func (g *generator) label(slot layout.Slot, rec Record, sym barcode.Symbol) Label {
	box := g.grid.LabelBox(slot)
	symbolBox := layout.Rect{X: box.X, Y: box.Y, W: box.W, H: g.style.SymbolHeight(g.grid)}
	bars := layout.Rect{X: box.X, Y: box.Y, W: box.W, H: g.style.BarHeight(g.grid)}

	l := Label{
		Slot:      slot,
		Record:    rec,
		Symbol:    sym,
		Box:       box,
		SymbolBox: symbolBox,
		BarsBox:   bars,
	}
	if g.style.SerialFontSize > 0 {
		l.Serial = &Caption{
			Text:  sym.Caption(),
			X:     symbolBox.CenterX(),
			Y:     bars.Bottom() + textGap + 0.75*PtToMM(g.style.SerialFontSize),
			Size:  g.style.SerialFontSize,
			Align: AlignCenter,
		}
	}

	// Caption baselines sit at half and nine tenths of the caption band.
	ch := g.style.CaptionHeight
	l.Lines = []Caption{
		{Text: rec.Category, X: box.X, Y: symbolBox.Bottom() + 0.5*ch, Size: g.style.FontSize, Align: AlignLeft},
		{Text: rec.SubCategory, X: box.X, Y: symbolBox.Bottom() + 0.9*ch, Size: g.style.FontSize, Align: AlignLeft},
	}
	return l
}
