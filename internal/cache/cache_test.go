package cache

import (
	"image/color"
	"testing"
	"time"

	"github.com/rastermap/rastermap/internal/render"
)

func testConfig() Config {
	return Config{
		ImageCacheSizeMB:  8,
		ImageTTL:          time.Minute,
		RendererCacheSize: 16,
	}
}

func testRenderer(t *testing.T) render.Renderer {
	t.Helper()
	stops := []render.ColorStop{
		{Value: 0, Color: color.RGBA{B: 255, A: 255}},
		{Value: 100, Color: color.RGBA{R: 255, A: 255}},
	}
	r, err := render.NewStretched(stops, render.ColorspaceRGB, nil)
	if err != nil {
		t.Fatalf("NewStretched: %v", err)
	}
	return r
}

func TestImageCache(t *testing.T) {
	t.Parallel()

	m, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer m.Close()

	key := ImageKey("sst-2024", "abcdef0123456789", "png")

	if _, ok := m.GetImage(key); ok {
		t.Fatal("expected miss for unset key")
	}

	data := []byte{0x89, 'P', 'N', 'G'}
	if err := m.SetImage(key, data); err != nil {
		t.Fatalf("SetImage: %v", err)
	}

	got, ok := m.GetImage(key)
	if !ok {
		t.Fatal("expected hit after SetImage")
	}
	if string(got) != string(data) {
		t.Fatalf("got %v, want %v", got, data)
	}
}

func TestRendererCache(t *testing.T) {
	t.Parallel()

	m, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer m.Close()

	if _, ok := m.GetRenderer("viridis:0:30"); ok {
		t.Fatal("expected miss for unset key")
	}

	r := testRenderer(t)
	m.SetRenderer("viridis:0:30", r)

	got, ok := m.GetRenderer("viridis:0:30")
	if !ok {
		t.Fatal("expected hit after SetRenderer")
	}
	if got.Kind() != render.KindStretched {
		t.Fatalf("kind = %q, want %q", got.Kind(), render.KindStretched)
	}
}

func TestImageKeyDistinct(t *testing.T) {
	t.Parallel()

	a := ImageKey("grid-a", "fp1", "png")
	b := ImageKey("grid-a", "fp1", "jpg")
	c := ImageKey("grid-a", "fp2", "png")
	d := ImageKey("grid-b", "fp1", "png")

	keys := map[string]bool{a: true, b: true, c: true, d: true}
	if len(keys) != 4 {
		t.Fatalf("expected 4 distinct keys, got %d", len(keys))
	}
}

func TestLegendKeyDependsOnLayout(t *testing.T) {
	t.Parallel()

	base := render.LegendConfig{Height: 150, Precision: 2}
	a := LegendKey("fp1", base)
	b := LegendKey("fp1", render.LegendConfig{Height: 300, Precision: 2})
	c := LegendKey("fp1", render.LegendConfig{Height: 150, Precision: 2, Ticks: []float64{0, 50, 100}})
	d := LegendKey("fp2", base)

	keys := map[string]bool{a: true, b: true, c: true, d: true}
	if len(keys) != 4 {
		t.Fatalf("expected 4 distinct keys, got %d", len(keys))
	}
	if a != LegendKey("fp1", base) {
		t.Fatal("same layout should produce the same key")
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	m, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer m.Close()

	m.SetRenderer("k", testRenderer(t))

	stats := m.Stats()
	if stats["renderer_cache_len"] != 1 {
		t.Fatalf("renderer_cache_len = %v, want 1", stats["renderer_cache_len"])
	}
}
