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

	"github.com/mealcompass/backend/internal/config"
	"github.com/mealcompass/backend/internal/handler"
	middlewarepkg "github.com/mealcompass/backend/internal/middleware"
	"github.com/mealcompass/backend/internal/places"
	"github.com/mealcompass/backend/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	placesClient := places.NewClient(&http.Client{Timeout: 15 * time.Second}, cfg.GeoapifyBaseURL, cfg.GeoapifyAPIKey, places.Options{
		DefaultRadius: cfg.DefaultRadius,
		DefaultLimit:  cfg.DefaultLimit,
		MaxLimit:      cfg.MaxLimit,
		PhoneRegion:   cfg.PhoneRegion,
	})

	// nil client lets the proxy pick an ID-token client on Cloud Run.
	enrichProxy := handler.NewEnrichProxyHandler(nil, cfg.ScraperBaseURL)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.RegisterAPI(e, cfg, router.APIHandlers{
		Search: handler.NewSearchHandler(placesClient),
		Enrich: enrichProxy,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
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
