package render

import (
	"image/color"
	"math"
	"sort"
)

// StretchedRenderer maps values to colors by piecewise-linear interpolation
// between ordered stops, in either RGB or HSV space. Values at or beyond
// the first and last stop clamp to the endpoint colors.
type StretchedRenderer struct {
	stops      []ColorStop
	colorspace Colorspace
	fill       *float64
}

// NewStretched builds a stretched renderer. stops must contain at least two
// entries with strictly increasing values (they are sorted if needed).
// fill, when non-nil, is the NODATA value rendered fully transparent.
func NewStretched(stops []ColorStop, space Colorspace, fill *float64) (*StretchedRenderer, error) {
	if space != ColorspaceRGB && space != ColorspaceHSV {
		return nil, configErrorf(MalformedColorEntry, "invalid colorspace %q", space)
	}
	s := copyStops(stops)
	sortStops(s)
	if err := validateStops(s, 2); err != nil {
		return nil, err
	}
	return &StretchedRenderer{stops: s, colorspace: space, fill: copyFill(fill)}, nil
}

// Apply maps a value to its interpolated color. Fill and NaN inputs are
// transparent; out-of-domain inputs clamp to the endpoint colors.
func (r *StretchedRenderer) Apply(x float64) color.RGBA {
	if matchesFill(x, r.fill) || math.IsNaN(x) {
		return transparent
	}
	first, last := r.stops[0], r.stops[len(r.stops)-1]
	if x <= first.Value {
		return first.Color
	}
	if x >= last.Value {
		return last.Color
	}

	// First stop with value > x; the segment is [i-1, i].
	i := sort.Search(len(r.stops), func(i int) bool { return r.stops[i].Value > x })
	lo, hi := r.stops[i-1], r.stops[i]
	t := (x - lo.Value) / (hi.Value - lo.Value)

	if r.colorspace == ColorspaceHSV {
		return lerpHSV(lo.Color, hi.Color, t)
	}
	return lerpRGB(lo.Color, hi.Color, t)
}

// Kind returns KindStretched.
func (r *StretchedRenderer) Kind() Kind { return KindStretched }

// Colorspace returns the interpolation space.
func (r *StretchedRenderer) Colorspace() Colorspace { return r.colorspace }

// Stops returns a copy of the stop table.
func (r *StretchedRenderer) Stops() []ColorStop { return copyStops(r.stops) }

// Fill returns the NODATA value, if configured.
func (r *StretchedRenderer) Fill() (float64, bool) {
	if r.fill == nil {
		return 0, false
	}
	return *r.fill, true
}

func (r *StretchedRenderer) sealed() {}
