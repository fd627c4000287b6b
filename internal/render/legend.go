package render

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strconv"

	"github.com/fogleman/gg"
)

const (
	defaultLegendHeight = 150
	defaultBarWidth     = 20
	tickLineLength      = 6
	labelGap            = 12
)

// legend tick and border grey
var legendGrey = color.RGBA{R: 150, G: 150, B: 150, A: 255}

// LegendConfig controls legend composition. The zero value uses a 150px,
// 20px-wide bar with ticks at the renderer's stop values and integer labels.
type LegendConfig struct {
	// Height is the pixel height of the color key.
	Height int
	// Width is the pixel width of the color bar. Label layout extends the
	// total image width beyond this; width is a presentation choice.
	Width int
	// Breaks places this many evenly spaced ticks across the domain,
	// endpoints included. Ignored when Ticks is set; values below 2 fall
	// back to ticks at the stop values.
	Breaks int
	// Ticks are explicit tick values. Each must lie within the renderer
	// domain. For a classified legend, len(stops)+1 ascending values are
	// treated as bin edges and apportion block heights proportionally.
	Ticks []float64
	// Precision is the number of decimal places for tick labels.
	Precision int
	// Labels override the per-block labels of a classified legend. When
	// set, one label per stop is required.
	Labels []string
}

// Legend renders a color-key image for a renderer: a continuous gradient
// bar with tick marks for a stretched renderer, or one labeled color block
// per stop for a classified renderer.
func Legend(r Renderer, cfg LegendConfig) (image.Image, error) {
	if cfg.Height <= 0 {
		cfg.Height = defaultLegendHeight
	}
	if cfg.Width <= 0 {
		cfg.Width = defaultBarWidth
	}
	switch r := r.(type) {
	case *StretchedRenderer:
		return stretchedLegend(r, cfg)
	case *ClassifiedRenderer:
		return classifiedLegend(r, cfg)
	default:
		return nil, fmt.Errorf("unsupported renderer kind %q", r.Kind())
	}
}

func stretchedLegend(r *StretchedRenderer, cfg LegendConfig) (image.Image, error) {
	min, max := Domain(r)

	ticks, err := legendTicks(r, cfg, min, max)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(ticks))
	for i, v := range ticks {
		labels[i] = formatLabel(v, cfg.Precision)
	}

	dc, pad := newLegendContext(cfg, labels)

	// Gradient bar, high values at the top.
	bar := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	for y := 0; y < cfg.Height; y++ {
		v := max
		if cfg.Height > 1 {
			v = max - (max-min)*float64(y)/float64(cfg.Height-1)
		}
		c := r.Apply(v)
		for x := 0; x < cfg.Width; x++ {
			o := y*bar.Stride + x*4
			bar.Pix[o] = c.R
			bar.Pix[o+1] = c.G
			bar.Pix[o+2] = c.B
			bar.Pix[o+3] = c.A
		}
	}
	dc.DrawImage(bar, 0, pad)

	for i, v := range ticks {
		pos := 0.5
		if max > min {
			pos = (v - min) / (max - min)
		}
		y := float64(pad) + (1-pos)*float64(cfg.Height-1)
		drawTick(dc, cfg.Width, y, labels[i])
	}

	return dc.Image(), nil
}

func classifiedLegend(r *ClassifiedRenderer, cfg LegendConfig) (image.Image, error) {
	stops := r.Stops()

	labels := cfg.Labels
	if len(labels) == 0 {
		labels = make([]string, len(stops))
		for i, stop := range stops {
			labels[i] = formatLabel(stop.Value, cfg.Precision)
		}
	} else if len(labels) != len(stops) {
		return nil, fmt.Errorf("legend labels: got %d, want one per stop (%d)", len(labels), len(stops))
	}

	edges, err := classEdges(stops, cfg)
	if err != nil {
		return nil, err
	}

	dc, pad := newLegendContext(cfg, labels)

	// Blocks render top-down in reverse stop order so higher bins sit on
	// top, matching the stretched bar orientation.
	for i := len(stops) - 1; i >= 0; i-- {
		y0 := float64(pad) + (1-edges[i+1])*float64(cfg.Height)
		y1 := float64(pad) + (1-edges[i])*float64(cfg.Height)
		dc.SetColor(stops[i].Color)
		dc.DrawRectangle(0, y0, float64(cfg.Width), y1-y0)
		dc.Fill()
		dc.SetColor(legendGrey)
		dc.SetLineWidth(1)
		dc.DrawRectangle(0, y0, float64(cfg.Width), y1-y0)
		dc.Stroke()

		drawTick(dc, cfg.Width, (y0+y1)/2, labels[i])
	}

	return dc.Image(), nil
}

// legendTicks resolves the tick values for a stretched legend: explicit
// ticks win over a break count, which wins over the stop values themselves.
func legendTicks(r *StretchedRenderer, cfg LegendConfig, min, max float64) ([]float64, error) {
	if len(cfg.Ticks) > 0 {
		ticks := append([]float64(nil), cfg.Ticks...)
		for _, v := range ticks {
			if v < min || v > max {
				return nil, configErrorf(TickOutOfRange, "tick %g outside domain [%g, %g]", v, min, max)
			}
		}
		sort.Float64s(ticks)
		return ticks, nil
	}
	if cfg.Breaks >= 2 {
		ticks := make([]float64, cfg.Breaks)
		for i := range ticks {
			ticks[i] = min + float64(i)*(max-min)/float64(cfg.Breaks-1)
		}
		return ticks, nil
	}
	stops := r.Stops()
	ticks := make([]float64, len(stops))
	for i, stop := range stops {
		ticks[i] = stop.Value
	}
	return ticks, nil
}

// classEdges returns normalized block boundaries in [0,1] for a classified
// legend, one more than the stop count. Heights are even unless explicit
// bin edges were supplied.
func classEdges(stops []ColorStop, cfg LegendConfig) ([]float64, error) {
	n := len(stops)
	edges := make([]float64, n+1)
	if len(cfg.Ticks) == 0 {
		for i := range edges {
			edges[i] = float64(i) / float64(n)
		}
		return edges, nil
	}
	if len(cfg.Ticks) != n+1 {
		return nil, configErrorf(TickOutOfRange, "classified legend wants %d bin edges, got %d", n+1, len(cfg.Ticks))
	}
	span := cfg.Ticks[n] - cfg.Ticks[0]
	if span <= 0 {
		return nil, configErrorf(TickOutOfRange, "bin edges must be ascending")
	}
	for i, v := range cfg.Ticks {
		if i > 0 && v <= cfg.Ticks[i-1] {
			return nil, configErrorf(TickOutOfRange, "bin edges must be ascending")
		}
		edges[i] = (v - cfg.Ticks[0]) / span
	}
	return edges, nil
}

// newLegendContext sizes a drawing context for the bar plus a label gutter
// and returns it with the vertical padding reserved for label overflow.
func newLegendContext(cfg LegendConfig, labels []string) (*gg.Context, int) {
	measure := gg.NewContext(1, 1)
	maxLabel := 0.0
	labelH := 13.0
	for _, l := range labels {
		w, h := measure.MeasureString(l)
		if w > maxLabel {
			maxLabel = w
		}
		labelH = h
	}
	pad := int(labelH)
	width := cfg.Width + labelGap + int(maxLabel) + 4
	dc := gg.NewContext(width, cfg.Height+2*pad)
	dc.SetRGBA(0, 0, 0, 0)
	dc.Clear()
	return dc, pad
}

func drawTick(dc *gg.Context, barWidth int, y float64, label string) {
	dc.SetColor(legendGrey)
	dc.SetLineWidth(1)
	dc.DrawLine(float64(barWidth+2), y, float64(barWidth+2+tickLineLength), y)
	dc.Stroke()
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(label, float64(barWidth+labelGap), y, 0, 0.35)
}

func formatLabel(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}
