package barcode

import (
	"github.com/boombuler/barcode/code128"

	"github.com/matzehuels/labelsheet/pkg/errors"
)

// Code128 encodes printable ASCII as Code 128, switching code sets as needed
// to keep the symbol short.
type Code128 struct {
	// QuietZone overrides [DefaultQuietZone] when positive.
	QuietZone int
}

// Symbology returns [SymbologyCode128].
func (Code128) Symbology() Symbology { return SymbologyCode128 }

// Validate accepts non-empty printable ASCII up to [MaxDataLength] characters.
func (Code128) Validate(data string) error {
	if err := checkCommon(SymbologyCode128, data); err != nil {
		return err
	}
	return checkChars(SymbologyCode128, data, func(r rune) bool {
		return r >= 0x20 && r <= 0x7e
	})
}

// Encode returns the Code 128 symbol for data.
func (c Code128) Encode(data string) (Symbol, error) {
	if err := c.Validate(data); err != nil {
		return Symbol{}, err
	}
	bc, err := code128.Encode(data)
	if err != nil {
		return Symbol{}, errors.Wrap(errors.ErrCodeEncoding, err, "code128: encode %q", data)
	}
	return Symbol{
		Symbology: SymbologyCode128,
		Data:      data,
		Modules:   modulesOf(bc),
		QuietZone: quietZone(c.QuietZone),
	}, nil
}

func quietZone(q int) int {
	if q > 0 {
		return q
	}
	return DefaultQuietZone
}
