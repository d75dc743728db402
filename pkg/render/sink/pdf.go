package sink

import (
	"bytes"
	"io"
	"iter"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/layout"
	"github.com/matzehuels/labelsheet/pkg/sheet"
)

// pdfEpoch is written as the creation and modification date so identical
// documents produce identical bytes.
var pdfEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

const pdfFont = "Helvetica"

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	page   layout.PageSize
	guides bool
	title  string
	date   time.Time
}

// WithPDFPageSize sets the paper size (default A4).
func WithPDFPageSize(p layout.PageSize) PDFOption { return func(r *pdfRenderer) { r.page = p } }

// WithPDFCutGuides outlines every label with a dashed line.
func WithPDFCutGuides() PDFOption { return func(r *pdfRenderer) { r.guides = true } }

// WithPDFTitle sets the document title in the PDF metadata.
func WithPDFTitle(title string) PDFOption { return func(r *pdfRenderer) { r.title = title } }

// WithPDFDate overrides the fixed creation date.
func WithPDFDate(t time.Time) PDFOption { return func(r *pdfRenderer) { r.date = t } }

func newPDFRenderer(opts ...PDFOption) pdfRenderer {
	r := pdfRenderer{page: layout.DefaultPageSize, date: pdfEpoch}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderPDF renders every page of doc into one PDF.
func RenderPDF(doc sheet.Document, opts ...PDFOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := StreamPDF(&buf, doc, pagesOf(doc.Pages), opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// StreamPDF writes a PDF built from pages as they are produced. doc supplies
// the grid and style; its Pages field is ignored. An error from the sequence
// aborts the document and nothing is written to w.
func StreamPDF(w io.Writer, doc sheet.Document, pages iter.Seq2[sheet.Page, error], opts ...PDFOption) error {
	r := newPDFRenderer(opts...)
	if err := CheckFit(doc.Grid, r.page); err != nil {
		return err
	}

	pdf := r.newDocument()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	n := 0
	for page, err := range pages {
		if err != nil {
			return err
		}
		pdf.AddPage()
		r.drawPage(pdf, tr, page)
		n++
	}
	if n == 0 {
		return errors.New(errors.ErrCodeEmptyInput, "document has no pages")
	}
	if err := pdf.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "render pdf")
	}
	if err := pdf.Output(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write pdf")
	}
	return nil
}

func (r pdfRenderer) newDocument() *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: r.page.Width, Ht: r.page.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(r.date)
	pdf.SetModificationDate(r.date)
	pdf.SetCreator("labelsheet", true)
	if r.title != "" {
		pdf.SetTitle(r.title, true)
	}
	return pdf
}

func (r pdfRenderer) drawPage(pdf *fpdf.Fpdf, tr func(string) string, page sheet.Page) {
	for _, l := range page.Labels {
		if r.guides {
			pdf.SetDrawColor(guideGray, guideGray, guideGray)
			pdf.SetLineWidth(guideWidth)
			pdf.SetDashPattern([]float64{guideDash, guideDash}, 0)
			pdf.Rect(l.Box.X, l.Box.Y, l.Box.W, l.Box.H, "D")
			pdf.SetDashPattern(nil, 0)
		}

		pdf.SetFillColor(0, 0, 0)
		mw := l.ModuleWidth()
		for _, b := range l.Symbol.Bars() {
			pdf.Rect(l.BarsBox.X+float64(b.Start)*mw, l.BarsBox.Y, float64(b.Width)*mw, l.BarsBox.H, "F")
		}

		pdf.SetTextColor(0, 0, 0)
		for _, c := range captions(l) {
			pdf.SetFont(pdfFont, "", c.Size)
			width := func(s string) float64 { return pdf.GetStringWidth(tr(s)) }
			raw, size := fitCaption(l, c, l.Box.W, width)
			pdf.SetFont(pdfFont, "", size)
			text := tr(raw)
			x := c.X
			if c.Align == sheet.AlignCenter {
				x -= pdf.GetStringWidth(text) / 2
			}
			pdf.Text(x, c.Y, text)
		}
	}
}
