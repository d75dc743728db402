package sink

import (
	"bytes"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/layout"
	"github.com/matzehuels/labelsheet/pkg/sheet"
)

// DefaultDPI is the raster resolution used when none is configured.
const DefaultDPI = 150.0

// MaxDPI is the highest accepted raster resolution.
const MaxDPI = 1200.0

// maxPNGPixels bounds the raster of one page. A4 and Letter fit at MaxDPI.
const maxPNGPixels = 150_000_000

var regularFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	page   layout.PageSize
	dpi    float64
	guides bool
	faces  map[float64]font.Face
}

// WithPNGPageSize sets the paper size (default A4).
func WithPNGPageSize(p layout.PageSize) PNGOption { return func(r *pngRenderer) { r.page = p } }

// WithDPI sets the raster resolution in dots per inch (default 150).
func WithDPI(dpi float64) PNGOption { return func(r *pngRenderer) { r.dpi = dpi } }

// WithPNGCutGuides outlines every label with a dashed line.
func WithPNGCutGuides() PNGOption { return func(r *pngRenderer) { r.guides = true } }

// RenderPNG rasterizes one page.
func RenderPNG(p sheet.Page, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{page: layout.DefaultPageSize, dpi: DefaultDPI, faces: map[float64]font.Face{}}
	for _, opt := range opts {
		opt(&r)
	}
	if !(r.dpi > 0) || r.dpi > MaxDPI {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "dpi must be between 0 and %v, got %v", MaxDPI, r.dpi)
	}
	if err := r.page.Validate(); err != nil {
		return nil, err
	}
	w, h := int(math.Ceil(r.px(r.page.Width))), int(math.Ceil(r.px(r.page.Height)))
	if w*h > maxPNGPixels {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s page at %v dpi is %d×%d px, above the %d pixel limit", r.page, r.dpi, w, h, maxPNGPixels)
	}
	defer r.close()

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	for _, l := range p.Labels {
		if err := r.drawLabel(dc, l); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// px converts millimetres to pixels.
func (r *pngRenderer) px(mm float64) float64 {
	return mm * r.dpi / 25.4
}

func (r *pngRenderer) face(size float64) (font.Face, error) {
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	ft, err := regularFont()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load font")
	}
	f, err := opentype.NewFace(ft, &opentype.FaceOptions{Size: size, DPI: r.dpi, Hinting: font.HintingFull})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "font face %gpt", size)
	}
	r.faces[size] = f
	return f, nil
}

func (r *pngRenderer) close() {
	for _, f := range r.faces {
		f.Close()
	}
}

func (r *pngRenderer) drawLabel(dc *gg.Context, l sheet.Label) error {
	if r.guides {
		dc.SetRGB255(guideGray, guideGray, guideGray)
		dc.SetLineWidth(r.px(guideWidth))
		dc.SetDash(r.px(guideDash), r.px(guideDash))
		dc.DrawRectangle(r.px(l.Box.X), r.px(l.Box.Y), r.px(l.Box.W), r.px(l.Box.H))
		dc.Stroke()
		dc.SetDash()
	}

	dc.SetRGB(0, 0, 0)
	mw := l.ModuleWidth()
	for _, b := range l.Symbol.Bars() {
		dc.DrawRectangle(r.px(l.BarsBox.X+float64(b.Start)*mw), r.px(l.BarsBox.Y), r.px(float64(b.Width)*mw), r.px(l.BarsBox.H))
	}
	dc.Fill()

	for _, c := range captions(l) {
		f, err := r.face(c.Size)
		if err != nil {
			return err
		}
		dc.SetFontFace(f)
		width := func(s string) float64 {
			w, _ := dc.MeasureString(s)
			return w
		}
		text, size := fitCaption(l, c, r.px(l.Box.W), width)
		if size != c.Size {
			if f, err = r.face(size); err != nil {
				return err
			}
			dc.SetFontFace(f)
		}
		ax := 0.0
		if c.Align == sheet.AlignCenter {
			ax = 0.5
		}
		dc.DrawStringAnchored(text, r.px(c.X), r.px(c.Y), ax, 0)
	}
	return nil
}
