// Package config handles configuration loading for the rastermap server.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Data   DataConfig   `yaml:"data"`
	Cache  CacheConfig  `yaml:"cache"`
	Render RenderConfig `yaml:"render"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// DataConfig contains data source settings.
type DataConfig struct {
	GridDir string `yaml:"grid_dir"`
	// Renderers maps a renderer name to a JSON renderer document on disk.
	Renderers map[string]string `yaml:"renderers"`
}

// CacheConfig contains caching settings.
type CacheConfig struct {
	ImageSizeMB     int `yaml:"image_size_mb"`
	ImageTTLMinutes int `yaml:"image_ttl_minutes"`
	RendererEntries int `yaml:"renderer_entries"`
}

// RenderConfig contains rendering settings.
type RenderConfig struct {
	DefaultPalette  string `yaml:"default_palette"`
	LegendHeight    int    `yaml:"legend_height"`
	LegendPrecision int    `yaml:"legend_precision"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return default config if file doesn't exist
		return DefaultConfig(), nil
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Apply defaults for missing values
	applyDefaults(&cfg)

	return &cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Data: DataConfig{
			GridDir: "./data/grids",
		},
		Cache: CacheConfig{
			ImageSizeMB:     256,
			ImageTTLMinutes: 10,
			RendererEntries: 128,
		},
		Render: RenderConfig{
			DefaultPalette:  "viridis",
			LegendHeight:    150,
			LegendPrecision: 2,
		},
	}
}

func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaults.Server.Port
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = defaults.Server.CORSOrigins
	}
	if cfg.Data.GridDir == "" {
		cfg.Data.GridDir = defaults.Data.GridDir
	}
	if cfg.Cache.ImageSizeMB == 0 {
		cfg.Cache.ImageSizeMB = defaults.Cache.ImageSizeMB
	}
	if cfg.Cache.ImageTTLMinutes == 0 {
		cfg.Cache.ImageTTLMinutes = defaults.Cache.ImageTTLMinutes
	}
	if cfg.Cache.RendererEntries == 0 {
		cfg.Cache.RendererEntries = defaults.Cache.RendererEntries
	}
	if cfg.Render.DefaultPalette == "" {
		cfg.Render.DefaultPalette = defaults.Render.DefaultPalette
	}
	if cfg.Render.LegendHeight == 0 {
		cfg.Render.LegendHeight = defaults.Render.LegendHeight
	}
	if cfg.Render.LegendPrecision == 0 {
		cfg.Render.LegendPrecision = defaults.Render.LegendPrecision
	}
}
