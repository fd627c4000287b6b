// Package render maps numeric raster values to colors. It provides a
// continuous (stretched) and a discrete (classified) renderer over a shared
// table of color stops, legend composition, and a JSON codec so a fitted
// renderer can be reused across many files with a consistent color scale.
package render

import (
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/rastermap/rastermap/pkg/colormap"
)

// ColorStop is a breakpoint pairing a data value with a color.
type ColorStop struct {
	Value float64
	Color color.RGBA
}

// ParseColormap parses a colormap literal of the form
// "value:#RRGGBB[,value:#RRGGBB]*" into a sorted stop table.
func ParseColormap(s string) ([]ColorStop, error) {
	entries := strings.Split(s, ",")
	stops := make([]ColorStop, 0, len(entries))
	for _, entry := range entries {
		value, hex, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, configErrorf(MalformedColorEntry, "%q: want value:#RRGGBB", entry)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, &ConfigError{Kind: MalformedColorEntry, Detail: entry, Err: err}
		}
		c, err := colormap.ParseHex(strings.TrimSpace(hex))
		if err != nil {
			return nil, &ConfigError{Kind: MalformedColorEntry, Detail: entry, Err: err}
		}
		stops = append(stops, ColorStop{Value: v, Color: c})
	}
	sortStops(stops)
	if err := checkDuplicates(stops); err != nil {
		return nil, err
	}
	return stops, nil
}

// PaletteStops resolves a named palette and stretches it over [lo, hi],
// synthesizing evenly spaced stop values with both endpoints included.
func PaletteStops(name string, lo, hi float64) ([]ColorStop, error) {
	colors, err := colormap.Resolve(name)
	if err != nil {
		return nil, &ConfigError{Kind: UnknownPalette, Detail: name, Err: err}
	}
	if lo >= hi {
		return nil, configErrorf(DegenerateRange, "[%g, %g]", lo, hi)
	}
	n := len(colors)
	stops := make([]ColorStop, n)
	for i, c := range colors {
		stops[i] = ColorStop{
			Value: lo + float64(i)*(hi-lo)/float64(n-1),
			Color: c,
		}
	}
	return stops, nil
}

// rangeBound is one endpoint of a stretch range: a literal number or a
// deferred reference to one of the data extrema.
type rangeBound struct {
	value   float64
	dataMin bool
	dataMax bool
}

func (b rangeBound) resolve(dataMin, dataMax float64) float64 {
	switch {
	case b.dataMin:
		return dataMin
	case b.dataMax:
		return dataMax
	default:
		return b.value
	}
}

// StretchRange is a parsed "lo,hi" range literal. Either bound may be the
// sentinel min or max, meaning "use the data's actual extremum at render
// time"; "max,min" inverts the ramp.
type StretchRange struct {
	lo, hi rangeBound
}

// ParseStretchRange parses a two-element range literal such as "0,100",
// "min,max" or "max,min".
func ParseStretchRange(s string) (StretchRange, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return StretchRange{}, configErrorf(DegenerateRange, "range literal %q: want two comma-separated values", s)
	}
	var r StretchRange
	for i, part := range parts {
		var b rangeBound
		switch token := strings.TrimSpace(part); token {
		case "min":
			b.dataMin = true
		case "max":
			b.dataMax = true
		default:
			v, err := strconv.ParseFloat(token, 64)
			if err != nil {
				return StretchRange{}, &ConfigError{Kind: DegenerateRange, Detail: s, Err: err}
			}
			b.value = v
		}
		if i == 0 {
			r.lo = b
		} else {
			r.hi = b
		}
	}
	return r, nil
}

// NeedsData reports whether either bound defers to data extrema.
func (r StretchRange) NeedsData() bool {
	return r.lo.dataMin || r.lo.dataMax || r.hi.dataMin || r.hi.dataMax
}

// Resolve substitutes data extrema for sentinel bounds and returns the
// concrete range.
func (r StretchRange) Resolve(dataMin, dataMax float64) (lo, hi float64) {
	return r.lo.resolve(dataMin, dataMax), r.hi.resolve(dataMin, dataMax)
}

func sortStops(stops []ColorStop) {
	sort.Slice(stops, func(i, j int) bool { return stops[i].Value < stops[j].Value })
}

func checkDuplicates(stops []ColorStop) error {
	for i := 1; i < len(stops); i++ {
		if stops[i].Value == stops[i-1].Value {
			return configErrorf(DuplicateStopValue, "%g", stops[i].Value)
		}
	}
	return nil
}

// validateStops checks sortedness, uniqueness and the minimum stop count for
// a renderer kind.
func validateStops(stops []ColorStop, min int) error {
	if len(stops) < min {
		return configErrorf(InsufficientStops, "got %d, need at least %d", len(stops), min)
	}
	for i := 1; i < len(stops); i++ {
		if stops[i].Value < stops[i-1].Value {
			return configErrorf(MalformedColorEntry, "stops not sorted at index %d", i)
		}
	}
	return checkDuplicates(stops)
}
