package sheet

import (
	"math"

	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/layout"
)

// Default label typography. With a 30 mm label the caption band leaves a
// 20 mm barcode region.
const (
	DefaultCaptionHeight  = 10.0 // mm
	DefaultFontSize       = 8.0  // pt
	DefaultSerialFontSize = 10.0 // pt
)

// textGap separates the bars from the serial caption, in millimetres.
const textGap = 1.0

// PtToMM converts a font size in points to millimetres.
func PtToMM(pt float64) float64 {
	return pt * 25.4 / 72
}

// LabelStyle controls how the space inside one label is divided.
type LabelStyle struct {
	// CaptionHeight is the band below the barcode region holding the
	// category and subcategory lines, in millimetres.
	CaptionHeight float64 `json:"caption_height" toml:"caption_height"`

	// FontSize is the size of the caption lines, in points.
	FontSize float64 `json:"font_size" toml:"font_size"`

	// SerialFontSize is the size of the serial number printed beneath the
	// bars, in points. Zero omits the serial line.
	SerialFontSize float64 `json:"serial_font_size" toml:"serial_font_size"`
}

// DefaultStyle returns the default label typography.
func DefaultStyle() LabelStyle {
	return LabelStyle{
		CaptionHeight:  DefaultCaptionHeight,
		FontSize:       DefaultFontSize,
		SerialFontSize: DefaultSerialFontSize,
	}
}

// SymbolHeight returns the height of the barcode region of a label in g.
func (s LabelStyle) SymbolHeight(g layout.GridConfig) float64 {
	return g.LabelHeight - s.CaptionHeight
}

// BarHeight returns the height of the bars once the serial line is reserved.
func (s LabelStyle) BarHeight(g layout.GridConfig) float64 {
	h := s.SymbolHeight(g)
	if s.SerialFontSize > 0 {
		h -= PtToMM(s.SerialFontSize) + textGap
	}
	return h
}

// Validate reports whether s can be applied to labels of grid g.
func (s LabelStyle) Validate(g layout.GridConfig) error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"caption height", s.CaptionHeight},
		{"font size", s.FontSize},
		{"serial font size", s.SerialFontSize},
	} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) || v.value < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be a non-negative number, got %v", v.name, v.value)
		}
	}
	if s.CaptionHeight >= g.LabelHeight {
		return errors.New(errors.ErrCodeInvalidConfig,
			"caption height %gmm leaves no room for the barcode in a %gmm label", s.CaptionHeight, g.LabelHeight)
	}
	if s.BarHeight(g) <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"serial font size %gpt does not fit in a %gmm barcode region", s.SerialFontSize, s.SymbolHeight(g))
	}
	return nil
}
