// Package sink provides output format renderers for label documents.
//
// # Overview
//
// A "sink" turns a [sheet.Document], or one of its pages, into bytes. Sinks
// only draw: every position, box and caption is already fixed by the sheet
// generator, so the same document renders to the same output every time.
//
//   - PDF: one multi-page, print-ready document ([RenderPDF], [StreamPDF])
//   - SVG: one vector image per page ([RenderSVG])
//   - PNG: one raster image per page ([RenderPNG])
//   - JSON: layout export for external printing tools ([RenderJSON])
//
// All coordinates are millimetres with the origin at the top-left corner of
// the page. Bars are drawn as filled rectangles scaled so the symbol, quiet
// zones included, spans the label width.
//
// # PDF Output
//
// PDFs are written with github.com/go-pdf/fpdf using the built-in Helvetica
// font. The creation date is pinned and the catalog sorted, so identical
// input yields byte-identical files.
//
//	pdf, err := sink.RenderPDF(doc, sink.WithPDFPageSize(layout.Letter))
//
// [StreamPDF] consumes the lazy sequence from [sheet.Pages], so pages are
// encoded one at a time while the PDF is assembled:
//
//	hdr, _ := sheet.Describe(grid)
//	err := sink.StreamPDF(w, hdr, sheet.Pages(ctx, records, grid))
//
// # SVG and PNG Output
//
// [RenderSVG] and [RenderPNG] render a single page. PNG captions use the Go
// Regular font from golang.org/x/image at the requested resolution:
//
//	svg := sink.RenderSVG(doc.Pages[0], sink.WithSVGCutGuides())
//	png, err := sink.RenderPNG(doc.Pages[0], sink.WithDPI(300))
//
// # Page Fit
//
// [CheckFit] rejects grids whose extent exceeds the paper. [RenderPDF] and
// [StreamPDF] call it; callers rendering single pages should call it first.
//
// [sheet.Document]: github.com/matzehuels/labelsheet/pkg/sheet.Document
// [sheet.Pages]: github.com/matzehuels/labelsheet/pkg/sheet.Pages
package sink
