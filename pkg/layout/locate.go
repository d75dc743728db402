package layout

import "github.com/matzehuels/labelsheet/pkg/errors"

// Slot is the position assigned to one item index.
// It is always derived from the index and the grid; nothing stores it
// independently.
type Slot struct {
	Index     int     `json:"index"`
	PageIndex int     `json:"page"`
	Within    int     `json:"within"`
	Column    int     `json:"column"`
	Row       int     `json:"row"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// Rect is an axis-aligned box with its origin at the top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Bottom returns the y coordinate of the lower edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// CenterX returns the horizontal center of the box.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// Locate returns the slot of the item at index.
// It validates g on every call; see [GridConfig.Slot] for the unchecked form.
func Locate(index int, g GridConfig) (Slot, error) {
	if err := g.Validate(); err != nil {
		return Slot{}, err
	}
	if index < 0 {
		return Slot{}, errors.New(errors.ErrCodeInvalidInput, "index must not be negative, got %d", index)
	}
	return g.Slot(index), nil
}

// Slot computes the slot of index without validating g.
// g must have passed [GridConfig.Validate] and index must be non-negative.
func (g GridConfig) Slot(index int) Slot {
	ipp := g.ItemsPerPage()
	within := index % ipp
	col := within % g.Columns
	row := within / g.Columns
	return Slot{
		Index:     index,
		PageIndex: index / ipp,
		Within:    within,
		Column:    col,
		Row:       row,
		X:         g.Margin + float64(col)*(g.LabelWidth+g.ColumnGap),
		Y:         g.Margin + float64(row)*(g.LabelHeight+g.RowGap),
	}
}

// LabelBox returns the full label rectangle of s.
func (g GridConfig) LabelBox(s Slot) Rect {
	return Rect{X: s.X, Y: s.Y, W: g.LabelWidth, H: g.LabelHeight}
}
