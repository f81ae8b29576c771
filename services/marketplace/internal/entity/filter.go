package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortNewest, SortOldest, SortPriceLow, SortPriceHigh:
		return true
	}
	return false
}

// FilterSet is the active listing filter. Empty fields are no constraint.
// Prices and dates are kept as entered.
type FilterSet struct {
	Category   string  `json:"category"`
	Location   string  `json:"location"`
	PriceMin   string  `json:"price_min"`
	PriceMax   string  `json:"price_max"`
	PriceRange string  `json:"price_range"`
	Date       string  `json:"date"`
	SortBy     SortKey `json:"sort_by"`
}

func DefaultFilters() FilterSet {
	return FilterSet{SortBy: SortNewest}
}

// FilterPatch updates a FilterSet. Nil fields are left as they are; an
// empty string clears a field.
type FilterPatch struct {
	Category   *string  `json:"category,omitempty"`
	Location   *string  `json:"location,omitempty"`
	PriceMin   *string  `json:"price_min,omitempty"`
	PriceMax   *string  `json:"price_max,omitempty"`
	PriceRange *string  `json:"price_range,omitempty"`
	Date       *string  `json:"date,omitempty"`
	SortBy     *SortKey `json:"sort_by,omitempty"`
}

func (p FilterPatch) IsEmpty() bool {
	return p == FilterPatch{}
}

func (p FilterPatch) Apply(f FilterSet) FilterSet {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&f.Category, p.Category)
	set(&f.Location, p.Location)
	set(&f.PriceMin, p.PriceMin)
	set(&f.PriceMax, p.PriceMax)
	set(&f.PriceRange, p.PriceRange)
	set(&f.Date, p.Date)
	if p.SortBy != nil {
		f.SortBy = *p.SortBy
	}
	if f.SortBy == "" {
		f.SortBy = SortNewest
	}
	return f
}

// Validate reports malformed numeric, range, date or sort fields.
func (f FilterSet) Validate() error {
	if _, err := parseOptionalFloat(f.PriceMin); err != nil {
		return fmt.Errorf("%w: price_min: %v", ErrValidation, err)
	}
	if _, err := parseOptionalFloat(f.PriceMax); err != nil {
		return fmt.Errorf("%w: price_max: %v", ErrValidation, err)
	}
	if _, err := f.ParsedPriceRange(); err != nil {
		return fmt.Errorf("%w: price_range: %v", ErrValidation, err)
	}
	if _, err := f.ParsedDate(); err != nil {
		return fmt.Errorf("%w: date: %v", ErrValidation, err)
	}
	if f.SortBy != "" && !f.SortBy.Valid() {
		return fmt.Errorf("%w: sort_by: unknown key %q", ErrValidation, f.SortBy)
	}
	return nil
}

// PriceBounds is an inclusive price interval; a nil bound is open.
type PriceBounds struct {
	Min *float64
	Max *float64
}

func (b PriceBounds) Contains(price float64) bool {
	if b.Min != nil && price < *b.Min {
		return false
	}
	if b.Max != nil && price > *b.Max {
		return false
	}
	return true
}

func (f FilterSet) ParsedPriceMin() *float64 {
	v, _ := parseOptionalFloat(f.PriceMin)
	return v
}

func (f FilterSet) ParsedPriceMax() *float64 {
	v, _ := parseOptionalFloat(f.PriceMax)
	return v
}

// ParsedPriceRange reads PriceRange as "min-max". An empty min is 0. An
// empty or zero max is unbounded.
func (f FilterSet) ParsedPriceRange() (*PriceBounds, error) {
	if f.PriceRange == "" {
		return nil, nil
	}
	lo, hi, ok := strings.Cut(f.PriceRange, "-")
	if !ok {
		return nil, fmt.Errorf("want min-max, got %q", f.PriceRange)
	}

	lower, err := parseOptionalFloat(lo)
	if err != nil {
		return nil, err
	}
	if lower == nil {
		zero := 0.0
		lower = &zero
	}
	upper, err := parseOptionalFloat(hi)
	if err != nil {
		return nil, err
	}
	if upper != nil && *upper == 0 {
		upper = nil
	}
	return &PriceBounds{Min: lower, Max: upper}, nil
}

// ParsedDate reads Date as YYYY-MM-DD (UTC midnight) or RFC 3339.
func (f FilterSet) ParsedDate() (*time.Time, error) {
	if f.Date == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", f.Date); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, f.Date)
	if err != nil {
		return nil, fmt.Errorf("want YYYY-MM-DD or RFC 3339, got %q", f.Date)
	}
	return &t, nil
}

func parseOptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	return &v, nil
}
