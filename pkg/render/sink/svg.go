package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/labelsheet/pkg/layout"
	"github.com/matzehuels/labelsheet/pkg/sheet"
)

const svgFontFamily = "Helvetica, Arial, sans-serif"

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	page   layout.PageSize
	guides bool
}

// WithSVGPageSize sets the page the SVG viewBox spans (default A4).
func WithSVGPageSize(p layout.PageSize) SVGOption { return func(r *svgRenderer) { r.page = p } }

// WithSVGCutGuides outlines every label with a dashed line.
func WithSVGCutGuides() SVGOption { return func(r *svgRenderer) { r.guides = true } }

// RenderSVG renders one page as a standalone SVG whose user unit is the
// millimetre.
func RenderSVG(p sheet.Page, opts ...SVGOption) []byte {
	r := svgRenderer{page: layout.DefaultPageSize}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := num(r.page.Width), num(r.page.Height)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%smm" height="%smm">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, `  <rect width="%s" height="%s" fill="white"/>`+"\n", w, h)
	fmt.Fprintf(&buf, `  <g id="page-%d" font-family="%s" fill="black">`+"\n", p.Index+1, svgFontFamily)
	for _, l := range p.Labels {
		r.renderLabel(&buf, l)
	}
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func (r svgRenderer) renderLabel(buf *bytes.Buffer, l sheet.Label) {
	fmt.Fprintf(buf, `    <g id="label-%d" data-serial="%s">`+"\n", l.Slot.Index, escapeXML(l.Record.SerialNumber))
	if r.guides {
		fmt.Fprintf(buf, `      <rect class="cut" x="%s" y="%s" width="%s" height="%s" fill="none" stroke="rgb(%d,%d,%d)" stroke-width="%s" stroke-dasharray="%s"/>`+"\n",
			num(l.Box.X), num(l.Box.Y), num(l.Box.W), num(l.Box.H),
			guideGray, guideGray, guideGray, num(guideWidth), num(guideDash))
	}
	renderBars(buf, l)
	for _, c := range captions(l) {
		anchor := "start"
		if c.Align == sheet.AlignCenter {
			anchor = "middle"
		}
		text, pt := fitCaption(l, c, l.Box.W, estimateWidth(c.Size))
		size := sheet.PtToMM(pt)
		fmt.Fprintf(buf, `      <text x="%s" y="%s" font-size="%s" text-anchor="%s">%s</text>`+"\n",
			num(c.X), num(c.Y), num(size), anchor, escapeXML(text))
	}
	buf.WriteString("    </g>\n")
}

// renderBars draws all bars of a label as a single path.
func renderBars(buf *bytes.Buffer, l sheet.Label) {
	bars := l.Symbol.Bars()
	if len(bars) == 0 {
		return
	}
	mw := l.ModuleWidth()
	buf.WriteString(`      <path class="bars" d="`)
	for i, b := range bars {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "M%s %sh%sv%sh-%sz",
			num(l.BarsBox.X+float64(b.Start)*mw), num(l.BarsBox.Y),
			num(float64(b.Width)*mw), num(l.BarsBox.H), num(float64(b.Width)*mw))
	}
	buf.WriteString(`"/>` + "\n")
}
