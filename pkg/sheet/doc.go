// Package sheet turns an ordered list of inventory records into a paginated
// document of barcode labels.
//
// # Overview
//
// Generation is the first of two phases. It produces a pure description of
// every page: where each label sits, the encoded barcode symbol it carries,
// and where its caption lines go. Nothing here draws or writes bytes; the
// sinks in [render/sink] turn a [Document] into PDF, SVG, PNG or JSON.
//
//	records := []sheet.Record{{SerialNumber: "SN-0001", Category: "Laptop", SubCategory: "Dell"}}
//	doc, err := sheet.Generate(ctx, records, layout.DefaultGrid())
//
// # Order
//
// Record i lands on page i / ItemsPerPage in slot i % ItemsPerPage. Records are
// never reordered, and no slot is left empty except at the end of the final
// page. The same records and grid always yield the same document.
//
// # Failures
//
// The grid and [LabelStyle] are validated before any record is touched.
// Encoding is attempted for every record; if any fail, the call returns one
// [errors.EncodingErrors] naming each failing record and no document.
// [Generate] rejects an empty record list with [ErrEmptyInput].
//
// # Streaming
//
// [Pages] yields the same pages lazily, encoding one page of symbols at a
// time. Every serial is validated before the first page is produced, so a
// consumer either receives every page or a single error.
//
// [render/sink]: github.com/matzehuels/labelsheet/pkg/render/sink
// [errors.EncodingErrors]: github.com/matzehuels/labelsheet/pkg/errors.EncodingErrors
package sheet
