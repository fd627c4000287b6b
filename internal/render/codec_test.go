package render

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestCodecRoundTripStretched(t *testing.T) {
	t.Parallel()

	fill := -9999.0
	r := mustStretched(t, "0:#0000FF,12.5:#00FF00,100:#FF0000", ColorspaceHSV, &fill)

	data, err := Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	sr, ok := back.(*StretchedRenderer)
	if !ok {
		t.Fatalf("expected *StretchedRenderer, got %T", back)
	}
	if sr.Colorspace() != ColorspaceHSV {
		t.Errorf("colorspace = %q, want hsv", sr.Colorspace())
	}
	if f, ok := sr.Fill(); !ok || f != -9999 {
		t.Errorf("fill = (%g, %v), want (-9999, true)", f, ok)
	}

	want := r.Stops()
	got := sr.Stops()
	if len(got) != len(want) {
		t.Fatalf("stop count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stop %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	// Serializing again reproduces the document byte for byte.
	again, err := Marshal(back)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Errorf("round trip changed the document:\n%s\nvs\n%s", data, again)
	}

	// And identical Apply outputs across the domain.
	for _, x := range []float64{-10, 0, 3.7, 12.5, 55.5, 100, 250, -9999} {
		if a, b := r.Apply(x), back.Apply(x); a != b {
			t.Errorf("Apply(%g): %#v != %#v after round trip", x, a, b)
		}
	}
}

func TestCodecRoundTripClassified(t *testing.T) {
	t.Parallel()

	r := mustClassified(t, nil)

	data, err := Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Kind() != KindClassified {
		t.Fatalf("kind = %q, want classified", back.Kind())
	}
	for _, x := range []float64{-5, 0, 9.999, 10, 20, 1000} {
		if a, b := r.Apply(x), back.Apply(x); a != b {
			t.Errorf("Apply(%g): %#v != %#v after round trip", x, a, b)
		}
	}
}

func TestCodecNaNFill(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	r := mustStretched(t, "0:#0000FF,100:#FF0000", ColorspaceRGB, &nan)

	data, err := Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	f, ok := back.Fill()
	if !ok || !math.IsNaN(f) {
		t.Fatalf("fill = (%g, %v), want NaN", f, ok)
	}
	if got := back.Apply(math.NaN()); got.A != 0 {
		t.Errorf("NaN should stay transparent after round trip, alpha %d", got.A)
	}
}

func TestUnmarshalDefaultsToHSV(t *testing.T) {
	t.Parallel()

	doc := `{"kind": "stretched", "fill": null, "stops": [
		{"value": 0, "color": "#000000"},
		{"value": 1, "color": "#FFFFFF"}
	]}`
	r, err := Unmarshal([]byte(doc))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if sr := r.(*StretchedRenderer); sr.Colorspace() != ColorspaceHSV {
		t.Errorf("colorspace = %q, want hsv default", sr.Colorspace())
	}
}

func TestUnmarshalInvalidDocuments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"syntax", `{"kind": `},
		{"unknown kind", `{"kind": "unique", "stops": [{"value": 0, "color": "#000000"}]}`},
		{"bad hex", `{"kind": "classified", "stops": [{"value": 0, "color": "#GG0000"}]}`},
		{"short hex", `{"kind": "classified", "stops": [{"value": 0, "color": "#FFF"}]}`},
		{"no stops", `{"kind": "classified", "stops": []}`},
		{"one stop stretched", `{"kind": "stretched", "stops": [{"value": 0, "color": "#000000"}]}`},
		{"bad colorspace", `{"kind": "stretched", "colorspace": "cmyk", "stops": [{"value": 0, "color": "#000000"}, {"value": 1, "color": "#FFFFFF"}]}`},
		{"colorspace on classified", `{"kind": "classified", "colorspace": "rgb", "stops": [{"value": 0, "color": "#000000"}]}`},
		{"duplicate stops", `{"kind": "classified", "stops": [{"value": 1, "color": "#000000"}, {"value": 1, "color": "#FFFFFF"}]}`},
	}
	for _, tt := range tests {
		_, err := Unmarshal([]byte(tt.doc))
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		var ce *CodecError
		if !errors.As(err, &ce) {
			t.Errorf("%s: expected *CodecError, got %T", tt.name, err)
		}
	}
}

func TestUnmarshalWrapsConstructionErrors(t *testing.T) {
	t.Parallel()

	doc := `{"kind": "stretched", "stops": [{"value": 0, "color": "#000000"}]}`
	_, err := Unmarshal([]byte(doc))
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected wrapped *ConfigError, got %v", err)
	}
	if ce.Kind != InsufficientStops {
		t.Errorf("kind = %v, want InsufficientStops", ce.Kind)
	}
}

func TestFingerprintStable(t *testing.T) {
	t.Parallel()

	a := mustStretched(t, "0:#0000FF,100:#FF0000", ColorspaceRGB, nil)
	b := mustStretched(t, "100:#FF0000,0:#0000FF", ColorspaceRGB, nil)
	c := mustStretched(t, "0:#0000FF,100:#FF0000", ColorspaceHSV, nil)

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("equivalent renderers should share a fingerprint")
	}
	if Fingerprint(a) == Fingerprint(c) {
		t.Error("different colorspaces should not share a fingerprint")
	}
}
