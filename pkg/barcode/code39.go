package barcode

import (
	"strings"

	"github.com/boombuler/barcode/code39"

	"github.com/matzehuels/labelsheet/pkg/errors"
)

// code39Chars is the Code 39 character set without the '*' start/stop symbol.
const code39Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ-. $/+%"

// Code39 encodes the Code 39 character set. It produces wider symbols than
// [Code128] but is readable by older scanners.
type Code39 struct {
	// QuietZone overrides [DefaultQuietZone] when positive.
	QuietZone int
	// Checksum appends the optional modulo 43 check character.
	Checksum bool
}

// Symbology returns [SymbologyCode39].
func (Code39) Symbology() Symbology { return SymbologyCode39 }

// Validate accepts non-empty Code 39 data up to [MaxDataLength] characters.
// Lower-case letters are rejected rather than silently upper-cased, so the
// caption always matches what a scanner reads.
func (Code39) Validate(data string) error {
	if err := checkCommon(SymbologyCode39, data); err != nil {
		return err
	}
	return checkChars(SymbologyCode39, data, func(r rune) bool {
		return r < 0x80 && strings.ContainsRune(code39Chars, r)
	})
}

// Encode returns the Code 39 symbol for data.
func (c Code39) Encode(data string) (Symbol, error) {
	if err := c.Validate(data); err != nil {
		return Symbol{}, err
	}
	bc, err := code39.Encode(data, c.Checksum, false)
	if err != nil {
		return Symbol{}, errors.Wrap(errors.ErrCodeEncoding, err, "code39: encode %q", data)
	}
	return Symbol{
		Symbology: SymbologyCode39,
		Data:      data,
		Modules:   modulesOf(bc),
		QuietZone: quietZone(c.QuietZone),
	}, nil
}
