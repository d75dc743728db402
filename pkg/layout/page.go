package layout

import (
	"fmt"
	"strings"

	"github.com/matzehuels/labelsheet/pkg/errors"
)

// PageSize is a portrait page in millimetres.
type PageSize struct {
	Name   string  `json:"name,omitempty" toml:"name"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Standard page sizes.
var (
	A4     = PageSize{Name: "A4", Width: 210, Height: 297}
	A5     = PageSize{Name: "A5", Width: 148, Height: 210}
	Letter = PageSize{Name: "Letter", Width: 215.9, Height: 279.4}
	Legal  = PageSize{Name: "Legal", Width: 215.9, Height: 355.6}
)

// MaxPageSide bounds either page dimension, in millimetres.
const MaxPageSide = 1000.0

// DefaultPageSize is the page used when none is configured.
var DefaultPageSize = A4

var pageSizes = map[string]PageSize{
	"a4":     A4,
	"a5":     A5,
	"letter": Letter,
	"legal":  Legal,
}

// ParsePageSize resolves a page size by name ("A4", "letter") or as
// explicit dimensions "WIDTHxHEIGHT" in millimetres ("100x150").
func ParsePageSize(s string) (PageSize, error) {
	if p, ok := pageSizes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p, nil
	}
	var w, h float64
	if _, err := fmt.Sscanf(strings.ToLower(s), "%gx%g", &w, &h); err != nil {
		return PageSize{}, errors.New(errors.ErrCodeInvalidConfig, "unknown page size %q (use a4, a5, letter, legal or WxH in mm)", s)
	}
	p := PageSize{Width: w, Height: h}
	if err := p.Validate(); err != nil {
		return PageSize{}, err
	}
	return p, nil
}

// Validate reports whether p has positive dimensions no larger than
// [MaxPageSide].
func (p PageSize) Validate() error {
	if !(p.Width > 0) || !(p.Height > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "page size must be positive, got %vx%v", p.Width, p.Height)
	}
	if p.Width > MaxPageSide || p.Height > MaxPageSide {
		return errors.New(errors.ErrCodeInvalidConfig, "page size %vx%v exceeds %v mm", p.Width, p.Height, MaxPageSide)
	}
	return nil
}

// String returns the page name or its dimensions.
func (p PageSize) String() string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("%gx%g", p.Width, p.Height)
}
