package records

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/sheet"
)

func TestReadJSON(t *testing.T) {
	want := []sheet.Record{
		{SerialNumber: "CS-LAB1-0001", Category: "Computer", SubCategory: "Desktop"},
		{SerialNumber: "CS-LAB1-0002", Category: "Computer"},
	}
	tests := []struct {
		name  string
		input string
	}{
		{"api array", `[
			{"_id": "a1", "serialNumber": "CS-LAB1-0001", "category": "Computer", "subCategory": "Desktop", "status": "active", "faculty": "CS"},
			{"_id": "a2", "serialNumber": "CS-LAB1-0002", "category": "Computer"}
		]`},
		{"items object", `{"items": [
			{"serialNumber": "CS-LAB1-0001", "category": "Computer", "subCategory": "Desktop"},
			{"serialNumber": "CS-LAB1-0002", "category": "Computer"}
		]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadJSON(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadJSON() error: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("ReadJSON() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"scalar", `"SN-1"`, errors.ErrCodeInvalidFormat},
		{"malformed", `[{"serialNumber": }]`, errors.ErrCodeInvalidFormat},
		{"control char", `[{"serialNumber": "A", "category": "bad\u0007"}]`, errors.ErrCodeInvalidRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestReadCSV(t *testing.T) {
	input := "\ufeffSub Category,serial_number,Category,room\n" +
		"Desktop,CS-0001,Computer,101\n" +
		"\n" +
		"Chair, CS-0002 ,Furniture,102\n" +
		"Printer,CS-0003\n"
	got, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	want := []sheet.Record{
		{SerialNumber: "CS-0001", Category: "Computer", SubCategory: "Desktop"},
		{SerialNumber: "CS-0002", Category: "Furniture", SubCategory: "Chair"},
		{SerialNumber: "CS-0003", SubCategory: "Printer"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadCSV() = %+v, want %+v", got, want)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"empty", "", errors.ErrCodeInvalidFormat},
		{"no serial column", "category,subCategory\nA,B\n", errors.ErrCodeInvalidFormat},
		{"short row", "category,serialNumber\nA\n", errors.ErrCodeInvalidRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	in := []sheet.Record{
		{SerialNumber: "A-1", Category: "Desk", SubCategory: "Oak"},
		{SerialNumber: "A-2"},
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, in); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"serialNumber": "A-1"`) {
		t.Errorf("unexpected output: %s", buf.String())
	}
	out, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestWriteJSONNil(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("WriteJSON(nil) = %q, want []", buf.String())
	}
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	records := []sheet.Record{{SerialNumber: "X-1", Category: "Monitor"}}

	jsonPath := filepath.Join(dir, "records.json")
	if err := Export(jsonPath, records); err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	got, err := Import(jsonPath)
	if err != nil {
		t.Fatalf("Import(json) error: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Errorf("Import(json) = %+v", got)
	}

	csvPath := filepath.Join(dir, "records.CSV")
	if err := os.WriteFile(csvPath, []byte("serialNumber,category\nX-1,Monitor\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = Import(csvPath)
	if err != nil {
		t.Fatalf("Import(csv) error: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Errorf("Import(csv) = %+v", got)
	}
}

func TestImportErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Import(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v", err)
	}
	if _, err := Import(filepath.Join(dir, "records.xlsx")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown extension: err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	long := strings.Repeat("x", errors.MaxCaptionLength+1)
	err := Validate([]sheet.Record{{SerialNumber: "A"}, {SerialNumber: "B", SubCategory: long}})
	if !errors.Is(err, errors.ErrCodeInvalidRecord) {
		t.Fatalf("err = %v, want INVALID_RECORD", err)
	}
	if !strings.Contains(err.Error(), "record 1") {
		t.Errorf("error %q does not name the record", err)
	}
	if err := Validate([]sheet.Record{{SerialNumber: ""}}); err != nil {
		t.Errorf("Validate rejected an empty serial: %v", err)
	}
}
