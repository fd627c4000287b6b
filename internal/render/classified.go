package render

import (
	"image/color"
	"math"
	"sort"
)

// ClassifiedRenderer maps values to colors through discrete right-open bins:
// a value takes the color of the greatest stop at or below it. Values below
// the first stop clamp to the first color; the last bin is unbounded above.
type ClassifiedRenderer struct {
	stops []ColorStop
	fill  *float64
}

// NewClassified builds a classified renderer. stops must contain at least
// one entry with strictly increasing values (they are sorted if needed).
// fill, when non-nil, is the NODATA value rendered fully transparent.
func NewClassified(stops []ColorStop, fill *float64) (*ClassifiedRenderer, error) {
	s := copyStops(stops)
	sortStops(s)
	if err := validateStops(s, 1); err != nil {
		return nil, err
	}
	return &ClassifiedRenderer{stops: s, fill: copyFill(fill)}, nil
}

// Apply maps a value to its bin color. Fill and NaN inputs are transparent.
func (r *ClassifiedRenderer) Apply(x float64) color.RGBA {
	if matchesFill(x, r.fill) || math.IsNaN(x) {
		return transparent
	}
	// First stop with value > x; the bin owner is the stop before it.
	i := sort.Search(len(r.stops), func(i int) bool { return r.stops[i].Value > x })
	if i == 0 {
		return r.stops[0].Color
	}
	return r.stops[i-1].Color
}

// Kind returns KindClassified.
func (r *ClassifiedRenderer) Kind() Kind { return KindClassified }

// Stops returns a copy of the stop table.
func (r *ClassifiedRenderer) Stops() []ColorStop { return copyStops(r.stops) }

// Fill returns the NODATA value, if configured.
func (r *ClassifiedRenderer) Fill() (float64, bool) {
	if r.fill == nil {
		return 0, false
	}
	return *r.fill, true
}

func (r *ClassifiedRenderer) sealed() {}
