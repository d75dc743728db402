package inventory

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/labelsheet/pkg/errors"
)

// All disables a category or status filter.
const All = "All"

// Sort fields accepted by [Filter].
const (
	SortNone      = ""
	SortSerial    = "serialNumber"
	SortCategory  = "category"
	SortStatus    = "status"
	SortCreatedAt = "createdAt"
)

// Filter selects and orders items the way the inventory view does.
// The zero value keeps every item in its original order.
type Filter struct {
	// Search matches case-insensitively against the serial number,
	// subcategory, faculty, room and department.
	Search string

	// Category and Status must match exactly unless empty or [All].
	Category string
	Status   string

	SortBy string
	Desc   bool
}

// Match reports whether it passes the filter.
func (f Filter) Match(it Item) bool {
	if f.Category != "" && f.Category != All && it.Category != f.Category {
		return false
	}
	if f.Status != "" && f.Status != All && it.Status != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	for _, field := range []string{it.SerialNumber, it.SubCategory, it.Location.Faculty, it.Location.Room, it.Department} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Apply returns the matching items, sorted when SortBy is set.
// The sort is stable, so items that compare equal keep their API order.
func (f Filter) Apply(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	if f.SortBy == SortNone {
		return out
	}
	slices.SortStableFunc(out, func(a, b Item) int {
		c := f.compare(a, b)
		if f.Desc {
			return -c
		}
		return c
	})
	return out
}

func (f Filter) compare(a, b Item) int {
	switch f.SortBy {
	case SortSerial:
		return cmp.Compare(a.SerialNumber, b.SerialNumber)
	case SortCategory:
		return cmp.Compare(a.Category, b.Category)
	case SortStatus:
		return cmp.Compare(a.Status, b.Status)
	case SortCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	return 0
}

// Validate checks the sort field.
func (f Filter) Validate() error {
	switch f.SortBy {
	case SortNone, SortSerial, SortCategory, SortStatus, SortCreatedAt:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown sort field %q", f.SortBy)
}

// Validate checks a batch request before it is sent.
func (r BatchRequest) Validate() error {
	if r.Count < 1 || r.Count > MaxBatchCount {
		return errors.New(errors.ErrCodeInvalidInput, "count must be between 1 and %d, got %d", MaxBatchCount, r.Count)
	}
	if strings.TrimSpace(r.Category) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "category is required")
	}
	if err := errors.ValidateCaption("category", r.Category); err != nil {
		return err
	}
	return errors.ValidateCaption("subCategory", r.SubCategory)
}
