package sink

import (
	"iter"

	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/layout"
	"github.com/matzehuels/labelsheet/pkg/sheet"
)

// CheckFit reports an INVALID_CONFIG error when the grid does not fit on page.
func CheckFit(g layout.GridConfig, page layout.PageSize) error {
	if err := page.Validate(); err != nil {
		return err
	}
	if !g.Fits(page) {
		w, h := g.Extent()
		return errors.New(errors.ErrCodeInvalidConfig,
			"grid needs %s×%smm but the %s page is %s×%smm", num(w), num(h), page, num(page.Width), num(page.Height))
	}
	return nil
}

// pagesOf adapts a built document to the streaming form.
func pagesOf(pages []sheet.Page) iter.Seq2[sheet.Page, error] {
	return func(yield func(sheet.Page, error) bool) {
		for _, p := range pages {
			if !yield(p, nil) {
				return
			}
		}
	}
}

// Cut guide appearance, shared by the sinks. Lengths in millimetres.
const (
	guideGray  = 180
	guideDash  = 1.0
	guideWidth = 0.1
)
