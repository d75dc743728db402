// Package layout maps label indices onto a fixed grid of slots.
//
// # Overview
//
// A label sheet is a grid of Columns × Rows equally sized label slots
// repeated over as many pages as needed. Given the sequential index of an
// item and a [GridConfig], [Locate] computes which page the item lands on
// and the top-left corner of its slot:
//
//	itemsPerPage = Columns * Rows
//	pageIndex    = index / itemsPerPage
//	within       = index % itemsPerPage
//	column       = within % Columns
//	row          = within / Columns
//	x            = Margin + column*(LabelWidth + ColumnGap)
//	y            = Margin + row*(LabelHeight + RowGap)
//
// Items fill a page left to right, top to bottom. Placement depends only on
// the index and the grid, never on the item, so the n-th label on a printed
// sheet always belongs to the n-th record.
//
// # Units
//
// All lengths are millimetres with the origin at the top-left corner of the
// page, y growing downwards. This matches how label stock is specified and
// how the PDF sink addresses the page.
//
// # Items Per Page
//
// [GridConfig.ItemsPerPage] is derived from Columns and Rows and cannot be
// configured separately, so the page break and the grid shape can never
// disagree.
//
// # Validation
//
// [GridConfig.Validate] rejects non-positive Columns or Rows and negative or
// non-finite lengths with an INVALID_CONFIG error. [Locate] validates its
// input on every call; callers that place many items can validate once and
// use [GridConfig.Slot] directly.
package layout
