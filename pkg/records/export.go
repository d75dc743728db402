package records

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/sheet"
)

// WriteJSON encodes records as an indented JSON array that [ReadJSON] reads
// back unchanged.
func WriteJSON(w io.Writer, records []sheet.Record) error {
	if records == nil {
		records = []sheet.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode records")
	}
	return nil
}

// Export writes records to a JSON file at path.
func Export(path string, records []sheet.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := WriteJSON(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
