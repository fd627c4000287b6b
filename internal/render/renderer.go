package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"runtime"
	"sync"
)

// Kind identifies a renderer variant.
type Kind string

const (
	// KindStretched is the continuous piecewise-linear renderer.
	KindStretched Kind = "stretched"
	// KindClassified is the discrete right-open bin renderer.
	KindClassified Kind = "classified"
)

// Renderer maps a single value to a color. Implementations are immutable
// after construction, so Apply is safe to call concurrently. Exactly two
// variants exist: StretchedRenderer and ClassifiedRenderer.
type Renderer interface {
	// Apply maps a value to an RGBA color. It is total: fill values and
	// values outside the stop domain are policy-handled (transparent or
	// clamped), never an error.
	Apply(x float64) color.RGBA
	// Kind identifies the variant.
	Kind() Kind
	// Stops returns a copy of the stop table, sorted by value.
	Stops() []ColorStop
	// Fill returns the configured NODATA value, if any.
	Fill() (float64, bool)

	sealed()
}

// matchesFill reports whether x is the renderer's NODATA value. Comparison
// is NaN-aware: a NaN fill matches NaN inputs, which plain float64 equality
// would miss; otherwise the match is exact.
func matchesFill(x float64, fill *float64) bool {
	if fill == nil {
		return false
	}
	if math.IsNaN(*fill) {
		return math.IsNaN(x)
	}
	return x == *fill
}

// transparent is the output for fill values, NaN inputs and masked cells.
var transparent = color.RGBA{}

// RenderImage applies r element-wise over a row-major grid of values and
// returns the RGBA image. mask, if non-nil, must be the same length as
// values; true excludes the cell, forcing full transparency regardless of
// its value. Rows are rendered in parallel: Apply is pure, so elements have
// no ordering requirement.
func RenderImage(r Renderer, values []float64, width, height int, mask []bool) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid grid shape %dx%d", width, height)
	}
	if len(values) != width*height {
		return nil, fmt.Errorf("grid has %d values, want %d (%dx%d)", len(values), width*height, width, height)
	}
	if mask != nil && len(mask) != len(values) {
		return nil, fmt.Errorf("mask has %d cells, want %d", len(mask), len(values))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	workers := runtime.GOMAXPROCS(0)
	if workers > height {
		workers = height
	}

	var wg sync.WaitGroup
	rowsPerWorker := (height + workers - 1) / workers
	for w := 0; w < workers; w++ {
		y0 := w * rowsPerWorker
		y1 := y0 + rowsPerWorker
		if y1 > height {
			y1 = height
		}
		if y0 >= y1 {
			break
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			renderRows(r, values, mask, img, width, y0, y1)
		}(y0, y1)
	}
	wg.Wait()

	return img, nil
}

func renderRows(r Renderer, values []float64, mask []bool, img *image.RGBA, width, y0, y1 int) {
	for y := y0; y < y1; y++ {
		row := y * width
		pix := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			i := row + x
			var c color.RGBA
			if mask == nil || !mask[i] {
				c = r.Apply(values[i])
			}
			o := x * 4
			pix[o] = c.R
			pix[o+1] = c.G
			pix[o+2] = c.B
			pix[o+3] = c.A
		}
	}
}

// Domain returns the value range spanned by the renderer's stops.
func Domain(r Renderer) (min, max float64) {
	stops := r.Stops()
	return stops[0].Value, stops[len(stops)-1].Value
}

func copyStops(stops []ColorStop) []ColorStop {
	out := make([]ColorStop, len(stops))
	copy(out, stops)
	return out
}

func copyFill(fill *float64) *float64 {
	if fill == nil {
		return nil
	}
	v := *fill
	return &v
}
