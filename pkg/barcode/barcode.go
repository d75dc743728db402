package barcode

import (
	stderrors "errors"
	"image"
	"strings"

	"github.com/matzehuels/labelsheet/pkg/errors"
)

// MaxDataLength is the longest identifier accepted by any encoder.
const MaxDataLength = 80

// DefaultQuietZone is the blank margin, in modules, on each side of the bars.
const DefaultQuietZone = 10

// Sentinel causes wrapped by ENCODING_FAILED errors.
var (
	ErrEmptyData            = stderrors.New("empty data")
	ErrTooLong              = stderrors.New("data too long")
	ErrUnsupportedCharacter = stderrors.New("unsupported character")
)

// Symbology names a barcode symbology.
type Symbology string

// Supported symbologies.
const (
	SymbologyCode128 Symbology = "code128"
	SymbologyCode39  Symbology = "code39"
)

// DefaultSymbology is used when none is configured.
const DefaultSymbology = SymbologyCode128

// ParseSymbology resolves a symbology name case-insensitively.
// "code-128" and "code_128" spellings are accepted.
func ParseSymbology(s string) (Symbology, error) {
	name := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	switch Symbology(name) {
	case SymbologyCode128, "":
		return SymbologyCode128, nil
	case SymbologyCode39:
		return SymbologyCode39, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown symbology %q (must be code128 or code39)", s)
}

// Encoder encodes identifiers as barcode symbols.
type Encoder interface {
	// Symbology returns the symbology produced by this encoder.
	Symbology() Symbology

	// Validate reports whether data can be encoded, without encoding it.
	Validate(data string) error

	// Encode returns the symbol for data.
	Encode(data string) (Symbol, error)
}

// New returns the default encoder for the symbology.
func New(s Symbology) (Encoder, error) {
	switch s {
	case SymbologyCode128, "":
		return Code128{}, nil
	case SymbologyCode39:
		return Code39{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown symbology %q", s)
}

// Symbol is an encoded linear barcode.
type Symbol struct {
	Symbology Symbology `json:"symbology"`
	Data      string    `json:"data"`
	Modules   []bool    `json:"-"` // true for a dark module, left to right
	QuietZone int       `json:"quiet_zone"`
}

// Bar is a run of dark modules. Start is measured in modules from the left
// edge of the symbol, quiet zone included.
type Bar struct {
	Start int `json:"start"`
	Width int `json:"width"`
}

// Width returns the total width in modules, both quiet zones included.
func (s Symbol) Width() int {
	return len(s.Modules) + 2*s.QuietZone
}

// Caption returns the human-readable text printed beneath the bars.
func (s Symbol) Caption() string {
	return s.Data
}

// Bars returns the dark runs of the symbol from left to right.
func (s Symbol) Bars() []Bar {
	var bars []Bar
	for i := 0; i < len(s.Modules); {
		if !s.Modules[i] {
			i++
			continue
		}
		j := i
		for j < len(s.Modules) && s.Modules[j] {
			j++
		}
		bars = append(bars, Bar{Start: s.QuietZone + i, Width: j - i})
		i = j
	}
	return bars
}

// Pattern returns the modules as a string of '1' (dark) and '0' (light),
// quiet zones excluded.
func (s Symbol) Pattern() string {
	var b strings.Builder
	b.Grow(len(s.Modules))
	for _, m := range s.Modules {
		if m {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Equal reports whether two symbols are identical.
func (s Symbol) Equal(o Symbol) bool {
	if s.Symbology != o.Symbology || s.Data != o.Data || s.QuietZone != o.QuietZone || len(s.Modules) != len(o.Modules) {
		return false
	}
	for i := range s.Modules {
		if s.Modules[i] != o.Modules[i] {
			return false
		}
	}
	return true
}

// modulesOf reads the module pattern of a 1-D barcode image, whose single
// row holds one pixel per module.
func modulesOf(img image.Image) []bool {
	b := img.Bounds()
	modules := make([]bool, 0, b.Dx())
	for x := b.Min.X; x < b.Max.X; x++ {
		r, g, bl, _ := img.At(x, b.Min.Y).RGBA()
		modules = append(modules, r+g+bl < 3*0x8000)
	}
	return modules
}

// checkCommon applies the checks shared by all symbologies.
func checkCommon(s Symbology, data string) error {
	if data == "" {
		return errors.Wrap(errors.ErrCodeEncoding, ErrEmptyData, "%s: identifier is empty", s)
	}
	if len(data) > MaxDataLength {
		return errors.Wrap(errors.ErrCodeEncoding, ErrTooLong, "%s: identifier has %d characters (max %d)", s, len(data), MaxDataLength)
	}
	return nil
}

// checkChars rejects the first character outside the symbology's set.
func checkChars(s Symbology, data string, ok func(rune) bool) error {
	for i, r := range data {
		if !ok(r) {
			return errors.Wrap(errors.ErrCodeEncoding, ErrUnsupportedCharacter, "%s: character %q at position %d cannot be encoded", s, r, i)
		}
	}
	return nil
}
