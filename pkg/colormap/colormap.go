// Package colormap provides named color palettes for visualization.
package colormap

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownPalette is returned when a palette name does not resolve.
var ErrUnknownPalette = errors.New("unknown palette")

// Palette is an ordered list of colors forming a ramp.
type Palette []color.RGBA

// registry maps dotted palette identifiers to their full ramps.
// Lookup is case-insensitive; a trailing _N selects N colors sampled
// evenly from the ramp (e.g. "colorbrewer.sequential.Blues_3").
var registry = map[string]Palette{}

func register(name string, p Palette) {
	registry[strings.ToLower(name)] = p
}

func init() {
	register("matplotlib.Viridis", Viridis)
	register("matplotlib.Plasma", Plasma)
	register("matplotlib.Inferno", Inferno)
	register("matplotlib.Magma", Magma)

	// Bare aliases for the matplotlib ramps under their common names.
	register("viridis", Viridis)
	register("plasma", Plasma)
	register("inferno", Inferno)
	register("magma", Magma)

	for name, p := range brewerSequential {
		register("colorbrewer.sequential."+name, p)
	}
	for name, p := range brewerDiverging {
		register("colorbrewer.diverging."+name, p)
	}
}

// Resolve returns the ordered colors for a palette identifier.
// A trailing _N (N >= 2) samples N colors evenly across the named ramp.
func Resolve(name string) (Palette, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	if p, ok := registry[key]; ok {
		out := make(Palette, len(p))
		copy(out, p)
		return out, nil
	}

	// Try the base name with a _N size suffix.
	if i := strings.LastIndex(key, "_"); i > 0 {
		n, err := strconv.Atoi(key[i+1:])
		if err == nil {
			if p, ok := registry[key[:i]]; ok {
				if n < 2 || n > len(p) {
					return nil, fmt.Errorf("%w: %q (size %d not in 2..%d)", ErrUnknownPalette, name, n, len(p))
				}
				return sample(p, n), nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
}

// Names returns all registered palette identifiers, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sample picks n colors evenly spaced across the ramp, endpoints included.
func sample(p Palette, n int) Palette {
	out := make(Palette, n)
	for i := 0; i < n; i++ {
		idx := (i*(len(p)-1) + (n-1)/2) / (n - 1)
		out[i] = p[idx]
	}
	return out
}

// ParseHex parses a 6-digit hex color with optional leading '#'.
// The digits are case-insensitive; alpha is always 255.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}

// Hex formats a color as "#RRGGBB" (alpha is not represented).
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func mustHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func hexPalette(values ...string) Palette {
	p := make(Palette, len(values))
	for i, v := range values {
		p[i] = mustHex(v)
	}
	return p
}

// Viridis colormap (matplotlib viridis)
var Viridis = Palette{
	{68, 1, 84, 255},
	{72, 35, 116, 255},
	{64, 67, 135, 255},
	{52, 94, 141, 255},
	{41, 120, 142, 255},
	{32, 144, 140, 255},
	{34, 167, 132, 255},
	{68, 190, 112, 255},
	{121, 209, 81, 255},
	{189, 222, 38, 255},
	{253, 231, 37, 255},
}

// Plasma colormap
var Plasma = Palette{
	{13, 8, 135, 255},
	{75, 3, 161, 255},
	{125, 3, 168, 255},
	{168, 34, 150, 255},
	{203, 70, 121, 255},
	{229, 107, 93, 255},
	{248, 148, 65, 255},
	{253, 195, 40, 255},
	{240, 249, 33, 255},
}

// Inferno colormap
var Inferno = Palette{
	{0, 0, 4, 255},
	{40, 11, 84, 255},
	{101, 21, 110, 255},
	{159, 42, 99, 255},
	{212, 72, 66, 255},
	{245, 125, 21, 255},
	{250, 193, 39, 255},
	{252, 255, 164, 255},
}

// Magma colormap
var Magma = Palette{
	{0, 0, 4, 255},
	{28, 16, 68, 255},
	{79, 18, 123, 255},
	{129, 37, 129, 255},
	{181, 54, 122, 255},
	{229, 80, 100, 255},
	{251, 135, 97, 255},
	{254, 194, 135, 255},
	{252, 253, 191, 255},
}

// ColorBrewer sequential ramps, dark to light, 9 classes each.
var brewerSequential = map[string]Palette{
	"Blues":   hexPalette("#08306B", "#08519C", "#2171B5", "#4292C6", "#6BAED6", "#9ECAE1", "#C6DBEF", "#DEEBF7", "#F7FBFF"),
	"Greens":  hexPalette("#00441B", "#006D2C", "#238B45", "#41AB5D", "#74C476", "#A1D99B", "#C7E9C0", "#E5F5E0", "#F7FCF5"),
	"Greys":   hexPalette("#000000", "#252525", "#525252", "#737373", "#969696", "#BDBDBD", "#D9D9D9", "#F0F0F0", "#FFFFFF"),
	"Oranges": hexPalette("#7F2704", "#A63603", "#D94801", "#F16913", "#FD8D3C", "#FDAE6B", "#FDD0A2", "#FEE6CE", "#FFF5EB"),
	"Purples": hexPalette("#3F007D", "#54278F", "#6A51A3", "#807DBA", "#9E9AC8", "#BCBDDC", "#DADAEB", "#EFEDF5", "#FCFBFD"),
	"Reds":    hexPalette("#67000D", "#A50F15", "#CB181D", "#EF3B2C", "#FB6A4A", "#FC9272", "#FCBBA1", "#FEE0D2", "#FFF5F0"),
	"BuGn":    hexPalette("#00441B", "#006D2C", "#238B45", "#41AE76", "#66C2A4", "#99D8C9", "#CCECE6", "#E5F5F9", "#F7FCFD"),
	"BuPu":    hexPalette("#4D004B", "#810F7C", "#88419D", "#8C6BB1", "#8C96C6", "#9EBCDA", "#BFD3E6", "#E0ECF4", "#F7FCFD"),
	"GnBu":    hexPalette("#084081", "#0868AC", "#2B8CBE", "#4EB3D3", "#7BCCC4", "#A8DDB5", "#CCEBC5", "#E0F3DB", "#F7FCF0"),
	"OrRd":    hexPalette("#7F0000", "#B30000", "#D7301F", "#EF6548", "#FC8D59", "#FDBB84", "#FDD49E", "#FEE8C8", "#FFF7EC"),
	"PuBu":    hexPalette("#023858", "#045A8D", "#0570B0", "#3690C0", "#74A9CF", "#A6BDDB", "#D0D1E6", "#ECE7F2", "#FFF7FB"),
	"PuRd":    hexPalette("#67001F", "#980043", "#CE1256", "#E7298A", "#DF65B0", "#C994C7", "#D4B9DA", "#E7E1EF", "#F7F4F9"),
	"RdPu":    hexPalette("#49006A", "#7A0177", "#AE017E", "#DD3497", "#F768A1", "#FA9FB5", "#FCC5C0", "#FDE0DD", "#FFF7F3"),
	"YlGn":    hexPalette("#004529", "#006837", "#238443", "#41AB5D", "#78C679", "#ADDD8E", "#D9F0A3", "#F7FCB9", "#FFFFE5"),
	"YlGnBu":  hexPalette("#081D58", "#253494", "#225EA8", "#1D91C0", "#41B6C4", "#7FCDBB", "#C7E9B4", "#EDF8B1", "#FFFFD9"),
	"YlOrBr":  hexPalette("#662506", "#993404", "#CC4C02", "#EC7014", "#FE9929", "#FEC44F", "#FEE391", "#FFF7BC", "#FFFFE5"),
	"YlOrRd":  hexPalette("#800026", "#BD0026", "#E31A1C", "#FC4E2A", "#FD8D3C", "#FEB24C", "#FED976", "#FFEDA0", "#FFFFCC"),
}

// ColorBrewer diverging ramps, 11 classes each.
var brewerDiverging = map[string]Palette{
	"BrBG":     hexPalette("#543005", "#8C510A", "#BF812D", "#DFC27D", "#F6E8C3", "#F5F5F5", "#C7EAE5", "#80CDC1", "#35978F", "#01665E", "#003C30"),
	"PiYG":     hexPalette("#8E0152", "#C51B7D", "#DE77AE", "#F1B6DA", "#FDE0EF", "#F7F7F7", "#E6F5D0", "#B8E186", "#7FBC41", "#4D9221", "#276419"),
	"PRGn":     hexPalette("#40004B", "#762A83", "#9970AB", "#C2A5CF", "#E7D4E8", "#F7F7F7", "#D9F0D3", "#A6DBA0", "#5AAE61", "#1B7837", "#00441B"),
	"PuOr":     hexPalette("#7F3B08", "#B35806", "#E08214", "#FDB863", "#FEE0B6", "#F7F7F7", "#D8DAEB", "#B2ABD2", "#8073AC", "#542788", "#2D004B"),
	"RdBu":     hexPalette("#67001F", "#B2182B", "#D6604D", "#F4A582", "#FDDBC7", "#F7F7F7", "#D1E5F0", "#92C5DE", "#4393C3", "#2166AC", "#053061"),
	"RdGy":     hexPalette("#67001F", "#B2182B", "#D6604D", "#F4A582", "#FDDBC7", "#FFFFFF", "#E0E0E0", "#BABABA", "#878787", "#4D4D4D", "#1A1A1A"),
	"RdYlBu":   hexPalette("#A50026", "#D73027", "#F46D43", "#FDAE61", "#FEE090", "#FFFFBF", "#E0F3F8", "#ABD9E9", "#74ADD1", "#4575B4", "#313695"),
	"RdYlGn":   hexPalette("#A50026", "#D73027", "#F46D43", "#FDAE61", "#FEE08B", "#FFFFBF", "#D9EF8B", "#A6D96A", "#66BD63", "#1A9850", "#006837"),
	"Spectral": hexPalette("#9E0142", "#D53E4F", "#F46D43", "#FDAE61", "#FEE08B", "#FFFFBF", "#E6F598", "#ABDDA4", "#66C2A5", "#3288BD", "#5E4FA2"),
}
