// Package gridfile reads and writes the toolkit's grid exchange format: a
// JSON header describing shape, fill value and geographic bounds, followed
// by a zstd-compressed row-major float64 payload and an optional packed
// mask. External readers (NetCDF, GeoTIFF) convert into this format; the
// renderer consumes the already-resolved arrays.
package gridfile

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/klauspost/compress/zstd"
)

// File layout: magic, 4-byte big-endian header length, JSON header, then
// the compressed payloads at the sizes the header declares.
var magic = []byte("RMGF")

var (
	encoder, _ = zstd.NewWriter(nil)
	decoder, _ = zstd.NewReader(nil)
)

// Bounds are the geographic extents of a grid, used for overlay anchoring.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// LeafletAnchors returns the [[south, west], [north, east]] corner pairs
// used to position an image overlay on a web map.
func (b Bounds) LeafletAnchors() [2][2]float64 {
	return [2][2]float64{{b.MinY, b.MinX}, {b.MaxY, b.MaxX}}
}

// Grid is a 2-D raster variable with optional NODATA value, mask and
// geographic bounds. Values are row-major.
type Grid struct {
	Width  int
	Height int
	Values []float64
	// Mask marks cells to exclude from rendering and statistics; true
	// means excluded. Nil when the file carries no mask.
	Mask   []bool
	Fill   *float64
	Bounds *Bounds
}

type header struct {
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Fill    *float64 `json:"fill,omitempty"`
	FillNaN bool     `json:"fill_nan,omitempty"`
	Bounds  *Bounds  `json:"bounds,omitempty"`
	// Compressed payload sizes in bytes.
	ValuesSize int `json:"values_size"`
	MaskSize   int `json:"mask_size,omitempty"`
}

// At returns the value at column x, row y.
func (g *Grid) At(x, y int) float64 {
	return g.Values[y*g.Width+x]
}

// Masked reports whether the cell at index i is excluded.
func (g *Grid) Masked(i int) bool {
	return g.Mask != nil && g.Mask[i]
}

// Extrema returns the minimum and maximum data values, skipping fill
// values, masked cells and NaN. ok is false when no valid cell exists.
func (g *Grid) Extrema() (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for i, v := range g.Values {
		if g.Masked(i) || math.IsNaN(v) {
			continue
		}
		if g.Fill != nil && (v == *g.Fill || (math.IsNaN(*g.Fill) && math.IsNaN(v))) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return min, max, true
}

func (g *Grid) validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("invalid grid shape %dx%d", g.Width, g.Height)
	}
	if len(g.Values) != g.Width*g.Height {
		return fmt.Errorf("grid has %d values, want %d", len(g.Values), g.Width*g.Height)
	}
	if g.Mask != nil && len(g.Mask) != len(g.Values) {
		return fmt.Errorf("mask has %d cells, want %d", len(g.Mask), len(g.Values))
	}
	return nil
}

// Write serializes a grid to path.
func Write(path string, g *Grid) error {
	if err := g.validate(); err != nil {
		return err
	}

	raw := make([]byte, 8*len(g.Values))
	for i, v := range g.Values {
		binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(v))
	}
	values := encoder.EncodeAll(raw, nil)

	var maskPayload []byte
	if g.Mask != nil {
		packed := make([]byte, len(g.Mask))
		for i, m := range g.Mask {
			if m {
				packed[i] = 1
			}
		}
		maskPayload = encoder.EncodeAll(packed, nil)
	}

	h := header{
		Width:      g.Width,
		Height:     g.Height,
		Bounds:     g.Bounds,
		ValuesSize: len(values),
		MaskSize:   len(maskPayload),
	}
	if g.Fill != nil {
		if math.IsNaN(*g.Fill) {
			h.FillNaN = true
		} else {
			h.Fill = g.Fill
		}
	}
	headerJSON, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encoding grid header: %w", err)
	}

	out := make([]byte, 0, len(magic)+4+len(headerJSON)+len(values)+len(maskPayload))
	out = append(out, magic...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(headerJSON)))
	out = append(out, headerJSON...)
	out = append(out, values...)
	out = append(out, maskPayload...)

	return os.WriteFile(path, out, 0o644)
}

// Read loads a grid from path.
func Read(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < len(magic)+4 || string(data[:len(magic)]) != string(magic) {
		return nil, fmt.Errorf("%s: not a grid file", path)
	}
	data = data[len(magic):]

	headerLen := int(binary.BigEndian.Uint32(data))
	data = data[4:]
	if headerLen <= 0 || headerLen > len(data) {
		return nil, fmt.Errorf("%s: truncated grid header", path)
	}

	var h header
	if err := json.Unmarshal(data[:headerLen], &h); err != nil {
		return nil, fmt.Errorf("%s: invalid grid header: %w", path, err)
	}
	data = data[headerLen:]

	if h.Width <= 0 || h.Height <= 0 {
		return nil, fmt.Errorf("%s: invalid grid shape %dx%d", path, h.Width, h.Height)
	}
	if h.ValuesSize <= 0 || h.ValuesSize+h.MaskSize > len(data) {
		return nil, fmt.Errorf("%s: truncated grid payload", path)
	}

	n := h.Width * h.Height
	raw, err := decoder.DecodeAll(data[:h.ValuesSize], nil)
	if err != nil {
		return nil, fmt.Errorf("%s: decompressing values: %w", path, err)
	}
	if len(raw) != 8*n {
		return nil, fmt.Errorf("%s: values payload is %d bytes, want %d", path, len(raw), 8*n)
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}

	g := &Grid{
		Width:  h.Width,
		Height: h.Height,
		Values: values,
		Fill:   h.Fill,
		Bounds: h.Bounds,
	}
	if h.FillNaN {
		nan := math.NaN()
		g.Fill = &nan
	}

	if h.MaskSize > 0 {
		packed, err := decoder.DecodeAll(data[h.ValuesSize:h.ValuesSize+h.MaskSize], nil)
		if err != nil {
			return nil, fmt.Errorf("%s: decompressing mask: %w", path, err)
		}
		if len(packed) != n {
			return nil, fmt.Errorf("%s: mask payload is %d cells, want %d", path, len(packed), n)
		}
		mask := make([]bool, n)
		for i, b := range packed {
			mask[i] = b != 0
		}
		g.Mask = mask
	}

	return g, nil
}
