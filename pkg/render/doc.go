// Package render turns label documents into output files.
//
// # Overview
//
// Rendering is the second phase of producing a label sheet. The first phase,
// [sheet.Generate], fixes every position and barcode; this package only
// selects and drives an output sink:
//
//	r, err := render.ForFormat("pdf", render.Options{PageSize: layout.A4})
//	artifacts, err := r.Render(doc)
//
// A [Renderer] returns [Artifact] values rather than writing files, so the
// CLI, the HTTP service and the cache can each decide where the bytes go.
// PDF and JSON produce a single artifact ("labels.pdf"); SVG and PNG produce
// one per page ("labels-001.svg", "labels-002.svg", ...).
//
// The format-specific drawing code lives in the [sink] subpackage.
//
// [sheet.Generate]: github.com/matzehuels/labelsheet/pkg/sheet.Generate
// [sink]: github.com/matzehuels/labelsheet/pkg/render/sink
package render
