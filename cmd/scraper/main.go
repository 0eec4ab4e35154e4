package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/mealcompass/backend/internal/cache"
	"github.com/mealcompass/backend/internal/config"
	"github.com/mealcompass/backend/internal/enrich"
	"github.com/mealcompass/backend/internal/handler"
	middlewarepkg "github.com/mealcompass/backend/internal/middleware"
	"github.com/mealcompass/backend/internal/router"
	"github.com/mealcompass/backend/internal/scraper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	store, err := newStore(cfg)
	if err != nil {
		log.Fatalf("failed to initialize cache store: %v", err)
	}
	enrichmentCache := cache.New(store, cfg.CacheTTL)

	browser := scraper.NewBrowser(cfg.PageTimeout)
	defer browser.Close()

	openrice := scraper.NewOpenRice(browser, scraper.Options{
		BaseURL:   cfg.OpenriceBaseURL,
		MaxImages: cfg.MaxImages,
		DelayMin:  500 * time.Millisecond,
		DelayMax:  1500 * time.Millisecond,
	})

	orchestrator := enrich.New(enrichmentCache, openrice, cfg.ScrapeWorkers)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.RegisterScraper(e, cfg, router.ScraperHandlers{
		Enrich: handler.NewEnrichHandler(orchestrator, cfg.MaxBatchSize),
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.ScraperPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

func newStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.CacheBackend {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return cache.NewRedisStore(ctx, cfg.RedisAddr, cfg.CacheTTL)
	default:
		return cache.NewFileStore(cfg.CacheDir)
	}
}
