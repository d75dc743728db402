package layout

import (
	"math"

	"github.com/matzehuels/labelsheet/pkg/errors"
)

// Default grid geometry in millimetres. These values fit twenty 45×30 mm
// labels on an A4 page.
const (
	DefaultColumns     = 4
	DefaultRows        = 5
	DefaultLabelWidth  = 45.0
	DefaultLabelHeight = 30.0
	DefaultMargin      = 10.0
	DefaultColumnGap   = 5.0
	DefaultRowGap      = 10.0
)

// GridConfig describes the label grid printed on every page.
// Lengths are in millimetres.
type GridConfig struct {
	Columns     int     `json:"columns" toml:"columns"`
	Rows        int     `json:"rows" toml:"rows"`
	LabelWidth  float64 `json:"label_width" toml:"label_width"`
	LabelHeight float64 `json:"label_height" toml:"label_height"`
	Margin      float64 `json:"margin" toml:"margin"`
	ColumnGap   float64 `json:"column_gap" toml:"column_gap"`
	RowGap      float64 `json:"row_gap" toml:"row_gap"`
}

// DefaultGrid returns the 4×5 grid of 45×30 mm labels.
func DefaultGrid() GridConfig {
	return GridConfig{
		Columns:     DefaultColumns,
		Rows:        DefaultRows,
		LabelWidth:  DefaultLabelWidth,
		LabelHeight: DefaultLabelHeight,
		Margin:      DefaultMargin,
		ColumnGap:   DefaultColumnGap,
		RowGap:      DefaultRowGap,
	}
}

// ItemsPerPage returns Columns * Rows.
func (g GridConfig) ItemsPerPage() int {
	return g.Columns * g.Rows
}

// Validate reports whether g describes a usable grid.
func (g GridConfig) Validate() error {
	if g.Columns <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "columns must be positive, got %d", g.Columns)
	}
	if g.Rows <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "rows must be positive, got %d", g.Rows)
	}
	if g.Columns > math.MaxInt/g.Rows {
		return errors.New(errors.ErrCodeInvalidConfig, "grid of %d×%d labels is too large", g.Columns, g.Rows)
	}
	dims := []struct {
		name  string
		value float64
	}{
		{"label width", g.LabelWidth},
		{"label height", g.LabelHeight},
		{"margin", g.Margin},
		{"column gap", g.ColumnGap},
		{"row gap", g.RowGap},
	}
	for _, d := range dims {
		if math.IsNaN(d.value) || math.IsInf(d.value, 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be finite, got %v", d.name, d.value)
		}
		if d.value < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must not be negative, got %v", d.name, d.value)
		}
	}
	return nil
}

// Extent returns the right and bottom edges of the last column and row,
// measured from the page origin. It is the smallest page that holds the grid.
func (g GridConfig) Extent() (width, height float64) {
	width = g.Margin + float64(g.Columns)*g.LabelWidth + float64(max(g.Columns-1, 0))*g.ColumnGap
	height = g.Margin + float64(g.Rows)*g.LabelHeight + float64(max(g.Rows-1, 0))*g.RowGap
	return width, height
}

// Fits reports whether the whole grid lies within the page.
func (g GridConfig) Fits(p PageSize) bool {
	w, h := g.Extent()
	return w <= p.Width && h <= p.Height
}

// PageCount returns how many pages n items occupy: ceil(n / ItemsPerPage).
// Zero items occupy zero pages.
func PageCount(n int, g GridConfig) (int, error) {
	if err := g.Validate(); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "item count must not be negative, got %d", n)
	}
	if n == 0 {
		return 0, nil
	}
	return (n-1)/g.ItemsPerPage() + 1, nil
}
