// Package pkg provides the core libraries for Labelsheet barcode label sheets.
//
// # Overview
//
// Labelsheet turns inventory records (a serial number plus a category and
// subcategory) into printable sheets of barcode labels placed on a fixed
// grid. The pkg directory is organized into four main areas:
//
//  1. Domain logic: [barcode], [layout] and [sheet]
//  2. Output: [render] and [render/sink]
//  3. Orchestration: [pipeline] and [server]
//  4. Infrastructure: [cache], [config], [records], [inventory], [session]
//
// # Architecture
//
// The typical data flow through Labelsheet:
//
//	Records file / inventory API / MongoDB
//	         ↓
//	    [records] or [inventory] (import + validate captions)
//	         ↓
//	    [barcode] (serial → module pattern)
//	         ↓
//	    [layout] (index → page, row, column, position)
//	         ↓
//	    [sheet] (paginated document)
//	         ↓
//	    [render/sink] (PDF, SVG, PNG, JSON)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/labelsheet/pkg/cache"
//	    "github.com/matzehuels/labelsheet/pkg/pipeline"
//	    "github.com/matzehuels/labelsheet/pkg/records"
//	)
//
//	recs, _ := records.Import("items.json")
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, _ := runner.Execute(ctx, recs, pipeline.Options{
//	    Formats: []string{"pdf"},
//	})
//	pdf := result.Artifacts["pdf"][0].Data
//
// # Main Packages
//
// [barcode] encodes serial numbers as Code 128 (default) or Code 39
// module patterns.
//
// [layout] owns the grid geometry: [layout.Locate] maps a zero-based item
// index to its page, row, column and top-left position in millimetres.
//
// [sheet] combines both into a [sheet.Document]. Generation is all or
// nothing; encoding failures are collected into a single error that names
// every failing record.
//
// [render/sink] draws documents: PDF through fpdf, PNG through gg, SVG as
// text, and JSON as the document model.
//
// [pipeline] runs generate → render with artifact caching, and streams PDF
// output page by page for large batches.
//
// [server] exposes the pipeline over HTTP.
//
// [barcode]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/barcode
// [layout]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/layout
// [sheet]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/sheet
// [render]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/config
// [records]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/records
// [inventory]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/inventory
// [session]: https://pkg.go.dev/github.com/matzehuels/labelsheet/pkg/session
package pkg
