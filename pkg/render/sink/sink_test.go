package sink

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"image/png"
	"iter"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/layout"
	"github.com/matzehuels/labelsheet/pkg/sheet"
)

func testDocument(t *testing.T, n int) sheet.Document {
	t.Helper()
	records := make([]sheet.Record, n)
	for i := range records {
		records[i] = sheet.Record{
			SerialNumber: fmt.Sprintf("SN-%04d", i),
			Category:     "Furniture & <Fittings>",
			SubCategory:  "Chair",
		}
	}
	doc, err := sheet.Generate(context.Background(), records, layout.DefaultGrid())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return doc
}

func TestRenderPDF(t *testing.T) {
	doc := testDocument(t, 45)
	data, err := RenderPDF(doc)
	if err != nil {
		t.Fatalf("RenderPDF() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", data[:min(8, len(data))])
	}
	if got := bytes.Count(data, []byte("<</Type /Page\n")); got != 3 {
		t.Errorf("page objects = %d, want 3", got)
	}
}

func TestRenderPDFDeterministic(t *testing.T) {
	doc := testDocument(t, 21)
	a, err := RenderPDF(doc, WithPDFCutGuides(), WithPDFTitle("Room 101"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := RenderPDF(doc, WithPDFCutGuides(), WithPDFTitle("Room 101"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two renders of the same document differ")
	}
}

func TestStreamPDFMatchesRender(t *testing.T) {
	doc := testDocument(t, 30)
	want, err := RenderPDF(doc)
	if err != nil {
		t.Fatal(err)
	}

	records := make([]sheet.Record, 0, 30)
	for l := range doc.Labels() {
		records = append(records, l.Record)
	}
	hdr, err := sheet.Describe(doc.Grid)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := StreamPDF(&buf, hdr, sheet.Pages(context.Background(), records, doc.Grid)); err != nil {
		t.Fatalf("StreamPDF() error: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Error("streamed PDF differs from RenderPDF")
	}
}

func TestStreamPDFError(t *testing.T) {
	doc := testDocument(t, 1)
	boom := stderrors.New("boom")
	pages := func(yield func(sheet.Page, error) bool) {
		if !yield(doc.Pages[0], nil) {
			return
		}
		yield(sheet.Page{}, boom)
	}

	var buf bytes.Buffer
	err := StreamPDF(&buf, doc, iter.Seq2[sheet.Page, error](pages))
	if !stderrors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes after failure", buf.Len())
	}
}

func TestStreamPDFNoPages(t *testing.T) {
	doc := testDocument(t, 1)
	doc.Pages = nil
	_, err := RenderPDF(doc)
	if !errors.Is(err, errors.ErrCodeEmptyInput) {
		t.Errorf("err = %v, want EMPTY_INPUT", err)
	}
}

func TestCheckFit(t *testing.T) {
	tests := []struct {
		name    string
		page    layout.PageSize
		wantErr bool
	}{
		{"a4", layout.A4, false},
		{"letter", layout.Letter, false},
		{"a5 too narrow", layout.A5, true},
		{"zero", layout.PageSize{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFit(layout.DefaultGrid(), tt.page)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckFit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %q", errors.GetCode(err))
			}
		})
	}

	doc := testDocument(t, 1)
	if _, err := RenderPDF(doc, WithPDFPageSize(layout.A5)); err == nil {
		t.Error("RenderPDF accepted a grid larger than the page")
	}
}

func TestRenderSVG(t *testing.T) {
	doc := testDocument(t, 25)
	svg := string(RenderSVG(doc.Pages[1]))

	if !strings.HasPrefix(svg, "<svg") {
		t.Error("missing <svg> root")
	}
	if !strings.Contains(svg, `viewBox="0 0 210 297"`) {
		t.Error("viewBox is not the A4 page in mm")
	}
	if got := strings.Count(svg, `<g id="label-`); got != 5 {
		t.Errorf("labels = %d, want 5", got)
	}
	if !strings.Contains(svg, `id="label-20"`) {
		t.Error("second page should start with label 20")
	}
	if !strings.Contains(svg, "Furniture &amp; &lt;Fittings&gt;") {
		t.Error("caption text is not escaped")
	}
	if strings.Contains(svg, `class="cut"`) {
		t.Error("cut guides drawn without WithSVGCutGuides")
	}
	if !strings.Contains(string(RenderSVG(doc.Pages[1], WithSVGCutGuides())), `class="cut"`) {
		t.Error("WithSVGCutGuides did not draw guides")
	}
}

func TestRenderSVGPageSize(t *testing.T) {
	doc := testDocument(t, 1)
	svg := string(RenderSVG(doc.Pages[0], WithSVGPageSize(layout.Letter)))
	if !strings.Contains(svg, `viewBox="0 0 215.9 279.4"`) {
		t.Errorf("viewBox not Letter: %s", svg[:80])
	}
}

func TestRenderPNG(t *testing.T) {
	doc := testDocument(t, 1)
	data, err := RenderPNG(doc.Pages[0], WithDPI(100))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	b := img.Bounds()
	// 210×297 mm at 100 dpi.
	if b.Dx() != 827 || b.Dy() != 1170 {
		t.Errorf("size = %dx%d, want 827x1170", b.Dx(), b.Dy())
	}

	dark := func(x, y int) bool {
		r, g, bl, _ := img.At(x, y).RGBA()
		return r+g+bl < 3*0x8000
	}
	if dark(2, 2) {
		t.Error("page corner is not white")
	}

	l := doc.Pages[0].Labels[0]
	bar := l.Symbol.Bars()[0]
	mw := l.ModuleWidth()
	x := int((l.BarsBox.X + (float64(bar.Start)+float64(bar.Width)/2)*mw) * 100 / 25.4)
	y := int((l.BarsBox.Y + l.BarsBox.H/2) * 100 / 25.4)
	if !dark(x, y) {
		t.Errorf("pixel (%d, %d) inside the first bar is not dark", x, y)
	}
}

func TestRenderPNGInvalidDPI(t *testing.T) {
	doc := testDocument(t, 1)
	for _, dpi := range []float64{0, -1, math.NaN(), math.Inf(1), MaxDPI + 1, 20000} {
		if _, err := RenderPNG(doc.Pages[0], WithDPI(dpi)); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("dpi %v: err = %v, want INVALID_CONFIG", dpi, err)
		}
	}
}

func TestRenderPNGPixelLimit(t *testing.T) {
	doc := testDocument(t, 1)
	page := layout.PageSize{Width: 1000, Height: 1000}
	if _, err := RenderPNG(doc.Pages[0], WithDPI(MaxDPI), WithPNGPageSize(page)); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestRenderJSON(t *testing.T) {
	doc := testDocument(t, 22)
	data, err := RenderJSON(doc, WithJSONPattern())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Labels != 22 {
		t.Errorf("Labels = %d, want 22", out.Labels)
	}
	if out.ItemsPerPage != 20 {
		t.Errorf("ItemsPerPage = %d, want 20", out.ItemsPerPage)
	}
	if len(out.Pages) != 2 || len(out.Pages[1].Labels) != 2 {
		t.Fatalf("pages = %+v", out.Pages)
	}
	if out.Page.Name != "A4" {
		t.Errorf("Page = %+v", out.Page)
	}
	first := out.Pages[0].Labels[0]
	if first.Serial != "SN-0000" || first.Box.X != 10 || first.Box.Y != 10 {
		t.Errorf("first label = %+v", first)
	}
	if first.Pattern == "" || len(first.Runs) == 0 {
		t.Error("missing bar data")
	}
	if len(first.Captions) != 3 {
		t.Errorf("captions = %d, want 3", len(first.Captions))
	}
}

func TestFitCaption(t *testing.T) {
	serial := sheet.Caption{Text: "SN-0123456789", Size: 10}
	line := sheet.Caption{Text: "Laboratory Equipment", Size: 8, Y: 5}
	l := sheet.Label{Serial: &serial, Lines: []sheet.Caption{line}}
	width := func(s string) float64 { return float64(len([]rune(s))) }

	text, size := fitCaption(l, serial, 6.5, width)
	if text != serial.Text {
		t.Errorf("serial text = %q, want it unchanged", text)
	}
	if size != 5 {
		t.Errorf("serial size = %v, want 5", size)
	}

	text, size = fitCaption(l, line, 10, width)
	if text != "Laborator…" || size != 8 {
		t.Errorf("line = %q at %v, want ellipsis at unchanged size", text, size)
	}

	if text, size = fitCaption(l, serial, 100, width); text != serial.Text || size != 10 {
		t.Errorf("fitting serial = %q at %v", text, size)
	}
}

func TestRenderSVGLongSerialKeptWhole(t *testing.T) {
	long := "SN-" + strings.Repeat("1234567890", 4)
	doc, err := sheet.Generate(context.Background(), []sheet.Record{{SerialNumber: long, Category: "Equipment"}}, layout.DefaultGrid())
	if err != nil {
		t.Fatal(err)
	}
	svg := string(RenderSVG(doc.Pages[0]))
	if !strings.Contains(svg, ">"+long+"</text>") {
		t.Errorf("serial caption shortened:\n%s", svg)
	}
}

func TestFitText(t *testing.T) {
	width := func(s string) float64 { return float64(len([]rune(s))) }
	tests := []struct {
		in   string
		maxW float64
		want string
	}{
		{"short", 10, "short"},
		{"exactly10c", 10, "exactly10c"},
		{"much too long", 6, "much …"},
		{"abc", 0, "abc"},
		{"abc", 0.5, ""},
	}
	for _, tt := range tests {
		if got := fitText(tt.in, tt.maxW, width); got != tt.want {
			t.Errorf("fitText(%q, %v) = %q, want %q", tt.in, tt.maxW, got, tt.want)
		}
	}
}
