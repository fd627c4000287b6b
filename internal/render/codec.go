package render

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"github.com/rastermap/rastermap/pkg/colormap"
)

// rendererDoc is the persisted renderer schema:
//
//	{
//	  "kind": "stretched" | "classified",
//	  "colorspace": "rgb" | "hsv",      // stretched only
//	  "fill": <number> | null,
//	  "stops": [ { "value": <number>, "color": "#RRGGBB" }, ... ]
//	}
type rendererDoc struct {
	Kind       string   `json:"kind"`
	Colorspace string   `json:"colorspace,omitempty"`
	Fill       *float64 `json:"fill"`
	// JSON has no NaN literal, so a NaN fill value (common NODATA
	// convention for float rasters) is flagged separately.
	FillNaN bool      `json:"fill_nan,omitempty"`
	Stops   []stopDoc `json:"stops"`
}

type stopDoc struct {
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Marshal serializes a renderer's configuration. Stop order, values and
// colors survive a round trip exactly.
func Marshal(r Renderer) ([]byte, error) {
	doc := rendererDoc{Kind: string(r.Kind())}
	if sr, ok := r.(*StretchedRenderer); ok {
		doc.Colorspace = string(sr.Colorspace())
	}
	if fill, ok := r.Fill(); ok {
		if math.IsNaN(fill) {
			doc.FillNaN = true
		} else {
			doc.Fill = &fill
		}
	}
	for _, stop := range r.Stops() {
		doc.Stops = append(doc.Stops, stopDoc{Value: stop.Value, Color: colormap.Hex(stop.Color)})
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Unmarshal reconstructs a renderer from a persisted document, enforcing
// the same invariants as direct construction. Validation failures identify
// the offending field.
func Unmarshal(data []byte) (Renderer, error) {
	var doc rendererDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CodecError{Err: err}
	}
	if doc.FillNaN {
		nan := math.NaN()
		doc.Fill = &nan
	}

	stops := make([]ColorStop, len(doc.Stops))
	for i, sd := range doc.Stops {
		c, err := colormap.ParseHex(sd.Color)
		if err != nil {
			return nil, &CodecError{Field: fmt.Sprintf("stops[%d].color", i), Err: err}
		}
		stops[i] = ColorStop{Value: sd.Value, Color: c}
	}

	switch Kind(doc.Kind) {
	case KindStretched:
		space := ColorspaceHSV // default when the field is absent
		if doc.Colorspace != "" {
			var err error
			space, err = ParseColorspace(doc.Colorspace)
			if err != nil {
				return nil, &CodecError{Field: "colorspace", Err: err}
			}
		}
		r, err := NewStretched(stops, space, doc.Fill)
		if err != nil {
			return nil, &CodecError{Field: "stops", Err: err}
		}
		return r, nil
	case KindClassified:
		if doc.Colorspace != "" {
			return nil, &CodecError{Field: "colorspace", Err: fmt.Errorf("colorspace is only valid for stretched renderers")}
		}
		r, err := NewClassified(stops, doc.Fill)
		if err != nil {
			return nil, &CodecError{Field: "stops", Err: err}
		}
		return r, nil
	default:
		return nil, &CodecError{Field: "kind", Err: fmt.Errorf("unknown renderer kind %q", doc.Kind)}
	}
}

// Fingerprint returns a short stable identifier for a renderer's
// configuration, suitable for cache keys.
func Fingerprint(r Renderer) string {
	data, err := Marshal(r)
	if err != nil {
		// Marshal of a validly constructed renderer cannot fail.
		panic(err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}
