// Package cache provides caching for encoded images and fitted renderers.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rastermap/rastermap/internal/render"
)

// Config contains cache configuration.
type Config struct {
	ImageCacheSizeMB  int
	ImageTTL          time.Duration
	RendererCacheSize int
}

// Manager manages the encoded-image cache and the fitted-renderer cache.
// A renderer loaded once is reused across an unbounded sequence of grids,
// keeping color scales consistent across a time series without re-parsing
// the document per request.
type Manager struct {
	imageCache    *bigcache.BigCache
	rendererCache *lru.Cache[string, render.Renderer]
}

// NewManager creates a new cache manager.
func NewManager(cfg Config) (*Manager, error) {
	imageCacheConfig := bigcache.Config{
		Shards:             1024,
		LifeWindow:         cfg.ImageTTL,
		CleanWindow:        cfg.ImageTTL / 2,
		MaxEntriesInWindow: 100000,
		MaxEntrySize:       512 * 1024, // encoded full-size renders, not tiles
		HardMaxCacheSize:   cfg.ImageCacheSizeMB,
		Verbose:            false,
	}

	imageCache, err := bigcache.New(context.Background(), imageCacheConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create image cache: %w", err)
	}

	rendererCache, err := lru.New[string, render.Renderer](cfg.RendererCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer cache: %w", err)
	}

	return &Manager{
		imageCache:    imageCache,
		rendererCache: rendererCache,
	}, nil
}

// GetImage retrieves an encoded image from cache.
func (m *Manager) GetImage(key string) ([]byte, bool) {
	data, err := m.imageCache.Get(key)
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetImage stores an encoded image in cache.
func (m *Manager) SetImage(key string, data []byte) error {
	return m.imageCache.Set(key, data)
}

// GetRenderer retrieves a fitted renderer from cache.
func (m *Manager) GetRenderer(key string) (render.Renderer, bool) {
	return m.rendererCache.Get(key)
}

// SetRenderer stores a fitted renderer in cache.
func (m *Manager) SetRenderer(key string, r render.Renderer) {
	m.rendererCache.Add(key, r)
}

// ImageKey generates a cache key for a rendered grid image.
func ImageKey(gridID, rendererFingerprint, format string) string {
	return fmt.Sprintf("img:%s:%s:%s", gridID, rendererFingerprint, format)
}

// LegendKey generates a cache key for a legend image. Legend layout
// parameters are hashed to keep keys short.
func LegendKey(rendererFingerprint string, cfg render.LegendConfig) string {
	h := sha256.New()
	fmt.Fprintf(h, "%dx%d:%d:%v:%d:%v", cfg.Width, cfg.Height, cfg.Breaks, cfg.Ticks, cfg.Precision, cfg.Labels)
	return "legend:" + rendererFingerprint + ":" + hex.EncodeToString(h.Sum(nil))[:16]
}

// Stats returns cache statistics.
func (m *Manager) Stats() map[string]interface{} {
	return map[string]interface{}{
		"image_cache_len":    m.imageCache.Len(),
		"image_cache_cap":    m.imageCache.Capacity(),
		"renderer_cache_len": m.rendererCache.Len(),
	}
}

// Close closes the cache manager.
func (m *Manager) Close() error {
	return m.imageCache.Close()
}
