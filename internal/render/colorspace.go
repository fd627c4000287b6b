package render

import (
	"image/color"
	"math"
)

// Colorspace selects the space in which a stretched renderer interpolates
// between adjacent stops. Classified lookups never interpolate.
type Colorspace string

const (
	// ColorspaceRGB interpolates each channel independently and linearly.
	ColorspaceRGB Colorspace = "rgb"
	// ColorspaceHSV interpolates hue along the shorter circular arc, with
	// saturation and value linear. Produces smoother ramps for diverging
	// and sequential schemes than naive RGB interpolation.
	ColorspaceHSV Colorspace = "hsv"
)

// ParseColorspace validates a colorspace name (case-insensitive).
func ParseColorspace(s string) (Colorspace, error) {
	switch Colorspace(s) {
	case ColorspaceRGB, "RGB":
		return ColorspaceRGB, nil
	case ColorspaceHSV, "HSV":
		return ColorspaceHSV, nil
	default:
		return "", configErrorf(MalformedColorEntry, "invalid colorspace %q: want rgb or hsv", s)
	}
}

// rgbToHSV converts an 8-bit color to hue [0,360), saturation [0,1] and
// value [0,1]. Alpha is ignored.
func rgbToHSV(c color.RGBA) (h, s, v float64) {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	delta := max - min

	v = max
	if max > 0 {
		s = delta / max
	}
	if delta == 0 {
		return 0, s, v
	}

	switch max {
	case r:
		h = (g - b) / delta
	case g:
		h = 2 + (b-r)/delta
	default:
		h = 4 + (r-g)/delta
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, v
}

// hsvToRGB converts hue [0,360), saturation [0,1] and value [0,1] back to
// 8-bit RGB channels.
func hsvToRGB(h, s, v float64) (r, g, b uint8) {
	if s == 0 {
		c := channel(v)
		return c, c, c
	}

	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	sector := h / 60
	i := int(sector) % 6
	f := sector - math.Floor(sector)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var rf, gf, bf float64
	switch i {
	case 0:
		rf, gf, bf = v, t, p
	case 1:
		rf, gf, bf = q, v, p
	case 2:
		rf, gf, bf = p, v, t
	case 3:
		rf, gf, bf = p, q, v
	case 4:
		rf, gf, bf = t, p, v
	default:
		rf, gf, bf = v, p, q
	}
	return channel(rf), channel(gf), channel(bf)
}

func channel(f float64) uint8 {
	v := math.Round(f * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// shortestHueDelta returns the signed shortest angular distance from h0 to
// h1 on the 360-degree hue circle, in (-180, 180].
func shortestHueDelta(h0, h1 float64) float64 {
	return math.Mod(h1-h0+540, 360) - 180
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func lerpChannel(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a)*(1-t) + float64(b)*t))
}

// lerpRGB interpolates two colors channel-wise.
func lerpRGB(c0, c1 color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: lerpChannel(c0.R, c1.R, t),
		G: lerpChannel(c0.G, c1.G, t),
		B: lerpChannel(c0.B, c1.B, t),
		A: lerpChannel(c0.A, c1.A, t),
	}
}

// lerpHSV interpolates two colors in HSV space with shortest-arc hue.
// A grey endpoint (zero saturation) has no meaningful hue, so it adopts the
// other endpoint's hue instead of dragging the ramp through red.
func lerpHSV(c0, c1 color.RGBA, t float64) color.RGBA {
	h0, s0, v0 := rgbToHSV(c0)
	h1, s1, v1 := rgbToHSV(c1)

	if s0 == 0 {
		h0 = h1
	} else if s1 == 0 {
		h1 = h0
	}

	h := math.Mod(h0+shortestHueDelta(h0, h1)*t+360, 360)
	s := lerp(s0, s1, t)
	v := lerp(v0, v1, t)

	r, g, b := hsvToRGB(h, s, v)
	return color.RGBA{R: r, G: g, B: b, A: lerpChannel(c0.A, c1.A, t)}
}
