// Package api provides HTTP handlers for the rastermap server.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rastermap/rastermap/internal/imaging"
	"github.com/rastermap/rastermap/internal/render"
	"github.com/rastermap/rastermap/internal/service"
	"github.com/rastermap/rastermap/pkg/colormap"
)

// RouterConfig contains router configuration.
type RouterConfig struct {
	Service     *service.ImageService
	CORSOrigins []string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/grids", gridsHandler(cfg.Service))
		r.Get("/renderers", renderersHandler(cfg.Service))
		r.Get("/palettes", palettesHandler)
		r.Get("/formats", formatsHandler)
		r.Get("/stats", statsHandler(cfg.Service))
	})

	r.Route("/grids/{id}", func(r chi.Router) {
		r.Get("/image.{format}", imageHandler(cfg.Service))
		r.Get("/legend.png", legendHandler(cfg.Service))
		r.Get("/anchors", anchorsHandler(cfg.Service))
	})

	return r
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeError maps service and renderer-construction errors to HTTP statuses:
// unknown grids and renderers are 404, bad renderer configuration is 400.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var configErr *render.ConfigError
	var codecErr *render.CodecError
	switch {
	case errors.Is(err, service.ErrGridNotFound), errors.Is(err, service.ErrRendererNotFound):
		status = http.StatusNotFound
	case errors.As(err, &configErr), errors.As(err, &codecErr):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}

func parseRenderOptions(query url.Values) service.RenderOptions {
	return service.RenderOptions{
		Renderer:   strings.TrimSpace(query.Get("renderer")),
		Palette:    strings.TrimSpace(query.Get("palette")),
		Range:      strings.TrimSpace(query.Get("range")),
		Colorspace: strings.TrimSpace(query.Get("colorspace")),
	}
}

func gridsHandler(svc *service.ImageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := svc.ListGrids()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{
			"grids": ids,
			"total": len(ids),
		})
	}
}

func renderersHandler(svc *service.ImageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names := svc.ListRenderers()
		writeJSON(w, map[string]interface{}{
			"renderers": names,
			"total":     len(names),
		})
	}
}

func palettesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"palettes": colormap.Names(),
	})
}

func formatsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"formats": imaging.Formats(),
	})
}

func statsHandler(svc *service.ImageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.CacheStats())
	}
}

func imageHandler(svc *service.ImageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		format := chi.URLParam(r, "format")
		opts := parseRenderOptions(r.URL.Query())

		data, contentType, err := svc.GetImage(id, format, opts)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Write(data)
	}
}

func legendHandler(svc *service.ImageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		opts := parseRenderOptions(r.URL.Query())

		cfg, err := parseLegendConfig(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		data, err := svc.GetLegend(id, opts, cfg)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Write(data)
	}
}

func anchorsHandler(svc *service.ImageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		anchors, err := svc.Anchors(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{
			"id":      id,
			"anchors": anchors,
		})
	}
}

func parseLegendConfig(query url.Values) (render.LegendConfig, error) {
	var cfg render.LegendConfig
	var err error

	if cfg.Height, err = parseIntParam(query, "height"); err != nil {
		return cfg, err
	}
	if cfg.Width, err = parseIntParam(query, "width"); err != nil {
		return cfg, err
	}
	if cfg.Breaks, err = parseIntParam(query, "breaks"); err != nil {
		return cfg, err
	}
	if cfg.Precision, err = parseIntParam(query, "precision"); err != nil {
		return cfg, err
	}

	if raw := strings.TrimSpace(query.Get("ticks")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return cfg, errors.New("invalid ticks value: " + part)
			}
			cfg.Ticks = append(cfg.Ticks, v)
		}
	}
	if raw := strings.TrimSpace(query.Get("labels")); raw != "" {
		cfg.Labels = strings.Split(raw, ",")
	}

	return cfg, nil
}

func parseIntParam(query url.Values, name string) (int, error) {
	raw := strings.TrimSpace(query.Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return v, nil
}
