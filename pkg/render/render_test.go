package render

import (
	"context"
	"fmt"
	"testing"

	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/layout"
	"github.com/matzehuels/labelsheet/pkg/sheet"
)

func testDoc(t *testing.T, n int) sheet.Document {
	t.Helper()
	records := make([]sheet.Record, n)
	for i := range records {
		records[i] = sheet.Record{SerialNumber: fmt.Sprintf("INV-%03d", i)}
	}
	doc, err := sheet.Generate(context.Background(), records, layout.DefaultGrid())
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestForFormat(t *testing.T) {
	doc := testDoc(t, 41)
	tests := []struct {
		format string
		names  []string
	}{
		{"pdf", []string{"labels.pdf"}},
		{"PDF", []string{"labels.pdf"}},
		{"json", []string{"labels.json"}},
		{"svg", []string{"labels-001.svg", "labels-002.svg", "labels-003.svg"}},
		{"png", []string{"labels-001.png", "labels-002.png", "labels-003.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			r, err := ForFormat(tt.format, Options{DPI: 50})
			if err != nil {
				t.Fatalf("ForFormat(%q) error: %v", tt.format, err)
			}
			arts, err := r.Render(doc)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if len(arts) != len(tt.names) {
				t.Fatalf("artifacts = %d, want %d", len(arts), len(tt.names))
			}
			for i, a := range arts {
				if a.Name != tt.names[i] {
					t.Errorf("artifact %d name = %q, want %q", i, a.Name, tt.names[i])
				}
				if a.Format != r.Format() {
					t.Errorf("artifact %d format = %q, want %q", i, a.Format, r.Format())
				}
				if len(a.Data) == 0 {
					t.Errorf("artifact %d is empty", i)
				}
			}
		})
	}
}

func TestForFormatInvalid(t *testing.T) {
	_, err := ForFormat("docx", Options{})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestRenderPageTooSmall(t *testing.T) {
	doc := testDoc(t, 1)
	for _, f := range Formats {
		if f == FormatJSON {
			continue
		}
		r, _ := ForFormat(f, Options{PageSize: layout.A5})
		if _, err := r.Render(doc); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("%s: err = %v, want INVALID_CONFIG", f, err)
		}
	}
}

func TestBaseName(t *testing.T) {
	o := Options{BaseName: "room-101"}
	if got := o.Name(FormatPDF); got != "room-101.pdf" {
		t.Errorf("Name = %q", got)
	}
	if got := o.PageName(FormatSVG, 9); got != "room-101-010.svg" {
		t.Errorf("PageName = %q", got)
	}
}

func TestContentType(t *testing.T) {
	if ContentType(FormatPDF) != "application/pdf" || ContentType("x") != "application/octet-stream" {
		t.Error("unexpected content types")
	}
}
