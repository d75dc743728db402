// Package config loads labelsheet settings from a TOML file.
//
// The file is optional. Values are resolved in three layers: built-in
// defaults, then the file, then environment variables; the CLI applies its
// flags on top. A complete file looks like:
//
//	[grid]
//	columns = 4
//	rows = 5
//	label_width = 45.0
//	label_height = 30.0
//	margin = 10.0
//	column_gap = 5.0
//	row_gap = 10.0
//
//	[label]
//	caption_height = 10.0
//	font_size = 8.0
//	serial_font_size = 10.0
//
//	[render]
//	symbology = "code128"
//	formats = ["pdf"]
//	page_size = "A4"
//
//	[inventory]
//	url = "http://localhost:5000"
//
//	[cache]
//	ttl = "168h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
package config
