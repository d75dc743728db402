// Package records reads and writes the record lists that label sheets are
// generated from.
//
// # Overview
//
// A record list is an ordered sequence of [sheet.Record] values. Order matters:
// it is the order labels appear on the printed pages. This package never
// sorts, deduplicates or filters.
//
// # JSON Format
//
// [ReadJSON] accepts the inventory API's item array directly, so the output
// of "GET /api/inventory" (or of the batch endpoint) can be piped in as is:
//
//	[
//	  {"_id": "65f…", "serialNumber": "CS-LAB1-0001", "category": "Computer", "subCategory": "Desktop", "status": "active"},
//	  {"_id": "65f…", "serialNumber": "CS-LAB1-0002", "category": "Computer", "subCategory": "Desktop", "status": "active"}
//	]
//
// Fields other than serialNumber, category and subCategory are ignored. An
// object of the form {"items": [...]} is accepted as well.
//
// # CSV Format
//
// [ReadCSV] requires a header row. Headers are matched case-insensitively
// with separators ignored, so "serialNumber", "serial_number" and
// "Serial Number" all name the serial column:
//
//	serialNumber,category,subCategory
//	CS-LAB1-0001,Computer,Desktop
//
// # Validation
//
// Category lines are checked for length and control characters. Serial
// numbers are not checked here; the barcode encoder validates them against
// the symbology when the sheet is generated.
//
// [sheet.Record]: github.com/matzehuels/labelsheet/pkg/sheet.Record
package records
