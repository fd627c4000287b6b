package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	content := `
server:
  port: 9000
  cors_origins:
    - "https://maps.example.org"
data:
  grid_dir: "/data/grids"
  renderers:
    sst: "/data/renderers/sst.json"
    chlorophyll: "/data/renderers/chl.json"
cache:
  image_size_mb: 64
render:
  default_palette: "Blues_5"
`
	cfg := loadFromString(t, content)

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "https://maps.example.org" {
		t.Errorf("unexpected cors_origins: %v", cfg.Server.CORSOrigins)
	}
	if cfg.Data.GridDir != "/data/grids" {
		t.Errorf("unexpected grid_dir: %s", cfg.Data.GridDir)
	}
	if len(cfg.Data.Renderers) != 2 {
		t.Fatalf("expected 2 renderers, got %d", len(cfg.Data.Renderers))
	}
	if cfg.Data.Renderers["sst"] != "/data/renderers/sst.json" {
		t.Errorf("unexpected sst renderer path: %s", cfg.Data.Renderers["sst"])
	}
	if cfg.Cache.ImageSizeMB != 64 {
		t.Errorf("expected image cache 64 MB, got %d", cfg.Cache.ImageSizeMB)
	}
	if cfg.Render.DefaultPalette != "Blues_5" {
		t.Errorf("unexpected default palette: %s", cfg.Render.DefaultPalette)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	content := `
server:
  port: 0
data:
  grid_dir: "/data/grids"
`
	cfg := loadFromString(t, content)

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Cache.ImageSizeMB != 256 {
		t.Errorf("expected default cache size 256, got %d", cfg.Cache.ImageSizeMB)
	}
	if cfg.Cache.RendererEntries != 128 {
		t.Errorf("expected default renderer entries 128, got %d", cfg.Cache.RendererEntries)
	}
	if cfg.Render.DefaultPalette != "viridis" {
		t.Errorf("expected default palette viridis, got %q", cfg.Render.DefaultPalette)
	}
	if cfg.Render.LegendHeight != 150 {
		t.Errorf("expected default legend height 150, got %d", cfg.Render.LegendHeight)
	}
	if cfg.Render.LegendPrecision != 2 {
		t.Errorf("expected default legend precision 2, got %d", cfg.Render.LegendPrecision)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("expected defaults for missing file, got error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unterminated"), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func loadFromString(t *testing.T, content string) *Config {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
