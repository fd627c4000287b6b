// Package main is the entry point for the rastermap server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rastermap/rastermap/internal/api"
	"github.com/rastermap/rastermap/internal/cache"
	"github.com/rastermap/rastermap/internal/config"
	"github.com/rastermap/rastermap/internal/service"
)

func main() {
	configPath := flag.String("config", "config/server.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting rastermap server on port %d", cfg.Server.Port)

	cacheManager, err := cache.NewManager(cache.Config{
		ImageCacheSizeMB:  cfg.Cache.ImageSizeMB,
		ImageTTL:          time.Duration(cfg.Cache.ImageTTLMinutes) * time.Minute,
		RendererCacheSize: cfg.Cache.RendererEntries,
	})
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	defer cacheManager.Close()

	imageService := service.NewImageService(service.ImageServiceConfig{
		GridDir:         cfg.Data.GridDir,
		RendererPaths:   cfg.Data.Renderers,
		Cache:           cacheManager,
		DefaultPalette:  cfg.Render.DefaultPalette,
		LegendHeight:    cfg.Render.LegendHeight,
		LegendPrecision: cfg.Render.LegendPrecision,
	})

	log.Printf("Grid directory: %s", cfg.Data.GridDir)
	if ids, err := imageService.ListGrids(); err != nil {
		log.Printf("Warning: failed to list grids: %v", err)
	} else {
		log.Printf("Found %d grid(s)", len(ids))
	}
	log.Printf("Configured %d renderer document(s), default palette: %s",
		len(cfg.Data.Renderers), cfg.Render.DefaultPalette)

	router := api.NewRouter(api.RouterConfig{
		Service:     imageService,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on http://localhost:%d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
