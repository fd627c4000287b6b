package render

import (
	"image/color"
	"math"
	"testing"
)

func mustStretched(t *testing.T, literal string, space Colorspace, fill *float64) *StretchedRenderer {
	t.Helper()
	stops, err := ParseColormap(literal)
	if err != nil {
		t.Fatalf("ParseColormap(%q): %v", literal, err)
	}
	r, err := NewStretched(stops, space, fill)
	if err != nil {
		t.Fatalf("NewStretched: %v", err)
	}
	return r
}

func TestStretchedEndpointsAndClamping(t *testing.T) {
	t.Parallel()

	r := mustStretched(t, "0:#0000FF,100:#FF0000", ColorspaceRGB, nil)

	blue := color.RGBA{0, 0, 255, 255}
	red := color.RGBA{255, 0, 0, 255}

	if got := r.Apply(0); got != blue {
		t.Errorf("Apply(0) = %#v, want endpoint blue", got)
	}
	if got := r.Apply(100); got != red {
		t.Errorf("Apply(100) = %#v, want endpoint red", got)
	}
	if got := r.Apply(-10); got != blue {
		t.Errorf("Apply(-10) = %#v, want clamped blue", got)
	}
	if got := r.Apply(200); got != red {
		t.Errorf("Apply(200) = %#v, want clamped red", got)
	}
}

func TestStretchedRGBMidpoint(t *testing.T) {
	t.Parallel()

	r := mustStretched(t, "0:#0000FF,100:#FF0000", ColorspaceRGB, nil)

	want := color.RGBA{128, 0, 128, 255} // rounded midpoint purple
	if got := r.Apply(50); got != want {
		t.Errorf("Apply(50) = %#v, want %#v", got, want)
	}
}

func TestStretchedRGBMonotonicChannels(t *testing.T) {
	t.Parallel()

	r := mustStretched(t, "0:#102030,10:#F0A080", ColorspaceRGB, nil)

	prev := r.Apply(0)
	for x := 0.5; x <= 10; x += 0.5 {
		cur := r.Apply(x)
		if cur.R < prev.R || cur.G < prev.G || cur.B < prev.B {
			t.Fatalf("channel decreased at x=%g: %#v -> %#v", x, prev, cur)
		}
		prev = cur
	}
}

func TestStretchedMultiSegment(t *testing.T) {
	t.Parallel()

	r := mustStretched(t, "0:#000000,10:#FFFFFF,30:#000000", ColorspaceRGB, nil)

	if got := r.Apply(10); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("Apply(10) = %#v, want white at interior stop", got)
	}
	if got := r.Apply(5); got != (color.RGBA{128, 128, 128, 255}) {
		t.Errorf("Apply(5) = %#v, want mid grey", got)
	}
	// Second segment is twice as wide; 20 is its midpoint.
	if got := r.Apply(20); got != (color.RGBA{128, 128, 128, 255}) {
		t.Errorf("Apply(20) = %#v, want mid grey", got)
	}
}

func TestHueShortestArc(t *testing.T) {
	t.Parallel()

	if d := shortestHueDelta(350, 10); d != 20 {
		t.Errorf("shortestHueDelta(350, 10) = %g, want 20", d)
	}
	if d := shortestHueDelta(10, 350); d != -20 {
		t.Errorf("shortestHueDelta(10, 350) = %g, want -20", d)
	}
	if d := shortestHueDelta(0, 180); d != 180 {
		t.Errorf("shortestHueDelta(0, 180) = %g, want 180", d)
	}
}

func TestStretchedHSVWrapsThroughRed(t *testing.T) {
	t.Parallel()

	// Hue 350 to hue 10 must pass through 0, not through 180.
	r350, g350, b350 := hsvToRGB(350, 1, 1)
	r10, g10, b10 := hsvToRGB(10, 1, 1)

	stops := []ColorStop{
		{Value: 0, Color: color.RGBA{r350, g350, b350, 255}},
		{Value: 1, Color: color.RGBA{r10, g10, b10, 255}},
	}
	r, err := NewStretched(stops, ColorspaceHSV, nil)
	if err != nil {
		t.Fatalf("NewStretched: %v", err)
	}

	got := r.Apply(0.5)
	want := color.RGBA{255, 0, 0, 255} // hue 0
	if got != want {
		t.Errorf("Apply(0.5) = %#v, want %#v (hue wrapped through 0)", got, want)
	}
}

func TestStretchedHSVGreyEndpointKeepsHue(t *testing.T) {
	t.Parallel()

	// A grey endpoint has no hue; the ramp must stay on the red hue
	// instead of sweeping through the color wheel.
	stops := []ColorStop{
		{Value: 0, Color: color.RGBA{128, 128, 128, 255}},
		{Value: 1, Color: color.RGBA{255, 0, 0, 255}},
	}
	r, err := NewStretched(stops, ColorspaceHSV, nil)
	if err != nil {
		t.Fatalf("NewStretched: %v", err)
	}

	got := r.Apply(0.5)
	if got.G != got.B {
		t.Errorf("Apply(0.5) = %#v, want G == B on a grey-to-red ramp", got)
	}
	if got.R <= got.G {
		t.Errorf("Apply(0.5) = %#v, want red dominant", got)
	}
}

func TestStretchedAlphaInterpolates(t *testing.T) {
	t.Parallel()

	stops := []ColorStop{
		{Value: 0, Color: color.RGBA{255, 0, 0, 0}},
		{Value: 1, Color: color.RGBA{255, 0, 0, 255}},
	}
	for _, space := range []Colorspace{ColorspaceRGB, ColorspaceHSV} {
		r, err := NewStretched(stops, space, nil)
		if err != nil {
			t.Fatalf("NewStretched(%s): %v", space, err)
		}
		if got := r.Apply(0.5).A; got != 128 {
			t.Errorf("%s alpha at midpoint = %d, want 128", space, got)
		}
	}
}

func TestStretchedFillTransparent(t *testing.T) {
	t.Parallel()

	fill := -9999.0
	r := mustStretched(t, "0:#0000FF,100:#FF0000", ColorspaceRGB, &fill)

	if got := r.Apply(-9999); got.A != 0 {
		t.Errorf("Apply(fill) alpha = %d, want 0", got.A)
	}
	// Fill is excluded from clamping: a nearby value still clamps.
	if got := r.Apply(-9998); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("Apply(-9998) = %#v, want clamped blue", got)
	}
}

func TestStretchedNaNHandling(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	r := mustStretched(t, "0:#0000FF,100:#FF0000", ColorspaceRGB, &nan)
	if got := r.Apply(math.NaN()); got.A != 0 {
		t.Errorf("NaN fill should match NaN input, got alpha %d", got.A)
	}

	// NaN input is transparent even without a NaN fill.
	r = mustStretched(t, "0:#0000FF,100:#FF0000", ColorspaceRGB, nil)
	if got := r.Apply(math.NaN()); got.A != 0 {
		t.Errorf("NaN input should be transparent, got alpha %d", got.A)
	}
}

func TestStretchedConstructionErrors(t *testing.T) {
	t.Parallel()

	_, err := NewStretched([]ColorStop{{Value: 0, Color: color.RGBA{A: 255}}}, ColorspaceRGB, nil)
	if kind := configKind(t, err); kind != InsufficientStops {
		t.Errorf("single stop: kind = %v, want InsufficientStops", kind)
	}

	stops := []ColorStop{
		{Value: 0, Color: color.RGBA{A: 255}},
		{Value: 0, Color: color.RGBA{R: 255, A: 255}},
	}
	_, err = NewStretched(stops, ColorspaceRGB, nil)
	if kind := configKind(t, err); kind != DuplicateStopValue {
		t.Errorf("duplicate values: kind = %v, want DuplicateStopValue", kind)
	}

	stops = []ColorStop{
		{Value: 0, Color: color.RGBA{A: 255}},
		{Value: 1, Color: color.RGBA{R: 255, A: 255}},
	}
	if _, err := NewStretched(stops, "xyz", nil); err == nil {
		t.Error("invalid colorspace: expected error")
	}
}
