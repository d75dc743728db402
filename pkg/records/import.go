package records

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/sheet"
)

// Stdin is the path that makes [Import] read JSON from standard input.
const Stdin = "-"

// item is the subset of an inventory item this package reads. Any other
// field in the input is ignored.
type item struct {
	SerialNumber string `json:"serialNumber"`
	Category     string `json:"category"`
	SubCategory  string `json:"subCategory"`
}

// ReadJSON decodes records from r.
//
// The input is either an array of items, as returned by the inventory API,
// or an object with an "items" array:
//
//	[{"serialNumber": "SN-1", "category": "Laptop", "subCategory": "Dell"}]
//	{"items": [{"serialNumber": "SN-1"}]}
//
// Caption fields are checked with [errors.ValidateCaption]. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) ([]sheet.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read records")
	}

	var items []item
	switch trimmed := bytes.TrimSpace(data); {
	case bytes.HasPrefix(trimmed, []byte("[")):
		err = json.Unmarshal(trimmed, &items)
	case bytes.HasPrefix(trimmed, []byte("{")):
		var wrapped struct {
			Items []item `json:"items"`
		}
		err = json.Unmarshal(trimmed, &wrapped)
		items = wrapped.Items
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "records must be a JSON array or an object with an \"items\" array")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode records")
	}

	out := make([]sheet.Record, len(items))
	for i, it := range items {
		out[i] = sheet.Record(it)
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Column names accepted by [ReadCSV], after normalization.
const (
	colSerial      = "serialnumber"
	colCategory    = "category"
	colSubCategory = "subcategory"
)

var columnAliases = map[string]string{
	"serial": colSerial,
	"sn":     colSerial,
}

// normalizeColumn lower-cases a header and drops separators, so
// "serialNumber", "serial_number" and "Serial Number" match.
func normalizeColumn(s string) string {
	s = strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	if alias, ok := columnAliases[s]; ok {
		return alias
	}
	return s
}

// ReadCSV decodes records from a CSV file with a header row. A serial number
// column is required; category and subcategory columns are optional. Column
// order is free and unknown columns are ignored.
func ReadCSV(r io.Reader) ([]sheet.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "csv has no header row")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read csv header")
	}
	cols := map[string]int{}
	for i, h := range header {
		name := normalizeColumn(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	serialCol, ok := cols[colSerial]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "csv header has no serialNumber column")
	}
	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []sheet.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read csv")
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if serialCol >= len(row) {
			line, _ := cr.FieldPos(0)
			return nil, errors.New(errors.ErrCodeInvalidRecord, "line %d: missing serial number", line)
		}
		out = append(out, sheet.Record{
			SerialNumber: field(row, colSerial),
			Category:     field(row, colCategory),
			SubCategory:  field(row, colSubCategory),
		})
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks the caption fields of every record. Serial numbers are left
// to the barcode encoder, which knows its symbology's character set.
func Validate(records []sheet.Record) error {
	for i, r := range records {
		if err := errors.ValidateCaption("category", r.Category); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRecord, err, "record %d", i)
		}
		if err := errors.ValidateCaption("subCategory", r.SubCategory); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRecord, err, "record %d", i)
		}
	}
	return nil
}

// Import reads records from path, choosing the decoder by extension
// (.json or .csv). [Stdin] reads JSON from standard input.
func Import(path string) ([]sheet.Record, error) {
	if path == Stdin {
		return ReadJSON(os.Stdin)
	}
	var read func(io.Reader) ([]sheet.Record, error)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		read = ReadJSON
	case ".csv":
		read = ReadCSV
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported records file %q (use .json or .csv)", path)
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "records file %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return read(f)
}
