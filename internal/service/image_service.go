// Package service provides business logic for the rastermap server.
package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rastermap/rastermap/internal/cache"
	"github.com/rastermap/rastermap/internal/data/gridfile"
	"github.com/rastermap/rastermap/internal/imaging"
	"github.com/rastermap/rastermap/internal/render"
)

// GridExt is the file extension of grid files under the data directory.
const GridExt = ".rmg"

// ErrGridNotFound reports a grid ID with no file under the data directory.
var ErrGridNotFound = errors.New("grid not found")

// ErrRendererNotFound reports a renderer name missing from the configured set.
var ErrRendererNotFound = errors.New("renderer not found")

// ImageServiceConfig contains image service configuration.
type ImageServiceConfig struct {
	GridDir         string
	RendererPaths   map[string]string
	Cache           *cache.Manager
	DefaultPalette  string
	LegendHeight    int
	LegendPrecision int
}

// RenderOptions selects the renderer for a request. Renderer names a
// configured renderer document; otherwise a stretched renderer is fitted
// from Palette, Range and Colorspace (each falling back to a default).
type RenderOptions struct {
	Renderer   string
	Palette    string
	Range      string
	Colorspace string
}

// ImageService renders grids to encoded images and legends.
type ImageService struct {
	gridDir         string
	rendererPaths   map[string]string
	cache           *cache.Manager
	defaultPalette  string
	legendHeight    int
	legendPrecision int

	gridMu    sync.Mutex
	gridCache map[string]*gridfile.Grid
	gridErr   map[string]error
}

// NewImageService creates a new image service.
func NewImageService(cfg ImageServiceConfig) *ImageService {
	return &ImageService{
		gridDir:         cfg.GridDir,
		rendererPaths:   cfg.RendererPaths,
		cache:           cfg.Cache,
		defaultPalette:  cfg.DefaultPalette,
		legendHeight:    cfg.LegendHeight,
		legendPrecision: cfg.LegendPrecision,
		gridCache:       make(map[string]*gridfile.Grid),
		gridErr:         make(map[string]error),
	}
}

// ListGrids returns the IDs of all grids under the data directory.
func (s *ImageService) ListGrids() ([]string, error) {
	entries, err := os.ReadDir(s.gridDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid directory: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), GridExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), GridExt))
	}
	sort.Strings(ids)
	return ids, nil
}

// ListRenderers returns the names of the configured renderer documents.
func (s *ImageService) ListRenderers() []string {
	names := make([]string, 0, len(s.rendererPaths))
	for name := range s.rendererPaths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *ImageService) gridPath(id string) (string, error) {
	// Grid IDs are plain file stems; anything that could escape the data
	// directory is treated as unknown.
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("%w: %q", ErrGridNotFound, id)
	}
	return filepath.Join(s.gridDir, id+GridExt), nil
}

// loadGrid lazily loads and caches a grid by ID.
func (s *ImageService) loadGrid(id string) (*gridfile.Grid, error) {
	s.gridMu.Lock()
	defer s.gridMu.Unlock()

	if g, ok := s.gridCache[id]; ok {
		return g, nil
	}
	if err, ok := s.gridErr[id]; ok {
		return nil, err
	}

	path, err := s.gridPath(id)
	if err != nil {
		return nil, err
	}

	g, err := gridfile.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = fmt.Errorf("%w: %q", ErrGridNotFound, id)
		}
		s.gridErr[id] = err
		return nil, err
	}

	s.gridCache[id] = g
	return g, nil
}

// Anchors returns the Leaflet-style overlay anchors for a grid.
func (s *ImageService) Anchors(id string) ([2][2]float64, error) {
	g, err := s.loadGrid(id)
	if err != nil {
		return [2][2]float64{}, err
	}
	if g.Bounds == nil {
		return [2][2]float64{}, fmt.Errorf("grid %q carries no geographic bounds", id)
	}
	return g.Bounds.LeafletAnchors(), nil
}

// RendererFor resolves the renderer a request asks for: a configured
// renderer document by name, or a stretched renderer fitted from a palette
// and stretch range against the grid's data. Fitted renderers are cached so
// a sequence of grids rendered with the same options shares one instance.
func (s *ImageService) RendererFor(id string, g *gridfile.Grid, opts RenderOptions) (render.Renderer, error) {
	if opts.Renderer != "" {
		return s.loadRendererDoc(opts.Renderer)
	}

	palette := opts.Palette
	if palette == "" {
		palette = s.defaultPalette
	}
	rangeLiteral := opts.Range
	if rangeLiteral == "" {
		rangeLiteral = "min,max"
	}
	spaceLiteral := opts.Colorspace
	if spaceLiteral == "" {
		spaceLiteral = string(render.ColorspaceHSV)
	}

	key := fmt.Sprintf("fit:%s:%s:%s:%s", id, palette, rangeLiteral, spaceLiteral)
	if r, ok := s.cache.GetRenderer(key); ok {
		return r, nil
	}

	r, err := s.fitStretched(g, palette, rangeLiteral, spaceLiteral)
	if err != nil {
		return nil, err
	}
	s.cache.SetRenderer(key, r)
	return r, nil
}

func (s *ImageService) fitStretched(g *gridfile.Grid, palette, rangeLiteral, spaceLiteral string) (render.Renderer, error) {
	space, err := render.ParseColorspace(spaceLiteral)
	if err != nil {
		return nil, err
	}

	sr, err := render.ParseStretchRange(rangeLiteral)
	if err != nil {
		return nil, err
	}

	var dataMin, dataMax float64
	if sr.NeedsData() {
		var ok bool
		dataMin, dataMax, ok = g.Extrema()
		if !ok {
			return nil, fmt.Errorf("grid has no unmasked values to derive a stretch range from")
		}
	}
	lo, hi := sr.Resolve(dataMin, dataMax)

	// A descending range ("max,min") inverts the ramp.
	inverted := false
	if lo > hi {
		lo, hi = hi, lo
		inverted = true
	}

	stops, err := render.PaletteStops(palette, lo, hi)
	if err != nil {
		return nil, err
	}
	if inverted {
		for i, j := 0, len(stops)-1; i < j; i, j = i+1, j-1 {
			stops[i].Color, stops[j].Color = stops[j].Color, stops[i].Color
		}
	}

	return render.NewStretched(stops, space, g.Fill)
}

// loadRendererDoc loads a configured renderer document, caching the fitted
// renderer by name.
func (s *ImageService) loadRendererDoc(name string) (render.Renderer, error) {
	key := "doc:" + name
	if r, ok := s.cache.GetRenderer(key); ok {
		return r, nil
	}

	path, ok := s.rendererPaths[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read renderer %q: %w", name, err)
	}

	r, err := render.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("renderer %q: %w", name, err)
	}

	s.cache.SetRenderer(key, r)
	return r, nil
}

// GetImage renders a grid to an encoded image.
func (s *ImageService) GetImage(id, format string, opts RenderOptions) ([]byte, string, error) {
	if !imaging.Supported(format) {
		return nil, "", fmt.Errorf("unsupported image format: %q", format)
	}
	contentType := imaging.ContentType(format)

	g, err := s.loadGrid(id)
	if err != nil {
		return nil, "", err
	}

	r, err := s.RendererFor(id, g, opts)
	if err != nil {
		return nil, "", err
	}

	cacheKey := cache.ImageKey(id, render.Fingerprint(r), format)
	if data, ok := s.cache.GetImage(cacheKey); ok {
		return data, contentType, nil
	}

	img, err := render.RenderImage(r, g.Values, g.Width, g.Height, g.Mask)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render grid: %w", err)
	}

	data, err := imaging.Encode(img, format)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}

	s.cache.SetImage(cacheKey, data)
	return data, contentType, nil
}

// GetLegend renders a PNG legend for the renderer a request selects.
func (s *ImageService) GetLegend(id string, opts RenderOptions, cfg render.LegendConfig) ([]byte, error) {
	if cfg.Height == 0 {
		cfg.Height = s.legendHeight
	}
	if cfg.Precision == 0 {
		cfg.Precision = s.legendPrecision
	}

	g, err := s.loadGrid(id)
	if err != nil {
		return nil, err
	}

	r, err := s.RendererFor(id, g, opts)
	if err != nil {
		return nil, err
	}

	cacheKey := cache.LegendKey(render.Fingerprint(r), cfg)
	if data, ok := s.cache.GetImage(cacheKey); ok {
		return data, nil
	}

	img, err := render.Legend(r, cfg)
	if err != nil {
		return nil, err
	}

	data, err := imaging.Encode(img, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to encode legend: %w", err)
	}

	s.cache.SetImage(cacheKey, data)
	return data, nil
}

// CacheStats returns cache statistics.
func (s *ImageService) CacheStats() map[string]interface{} {
	return s.cache.Stats()
}
