package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mealcompass/backend/internal/config"
	"github.com/mealcompass/backend/internal/handler"
	middlewarepkg "github.com/mealcompass/backend/internal/middleware"
)

// APIHandlers aggregates the gateway's HTTP handlers.
type APIHandlers struct {
	Search *handler.SearchHandler
	Enrich *handler.EnrichProxyHandler
}

// ScraperHandlers aggregates the scraping backend's HTTP handlers.
type ScraperHandlers struct {
	Enrich *handler.EnrichHandler
}

// RegisterAPI wires all HTTP routes for the gateway service.
func RegisterAPI(e *echo.Echo, cfg *config.Config, handlers APIHandlers) {
	registerHealth(e)

	e.POST("/restaurants/search", handlers.Search.Search)
	e.GET("/geocode/reverse", handlers.Search.ReverseGeocode)

	limited := middlewarepkg.EnrichRateLimiter(cfg.RateLimitEnrich, "/restaurants/enrich")
	e.GET("/restaurants/enrich/:name", handlers.Enrich.Lookup, limited)
	e.POST("/restaurants/enrich/batch", handlers.Enrich.Batch, limited)

	e.GET("/cache/stats", handlers.Enrich.CacheStats)
	e.DELETE("/cache/clear", handlers.Enrich.CacheClear)
}

// RegisterScraper wires all HTTP routes for the scraping backend.
func RegisterScraper(e *echo.Echo, cfg *config.Config, handlers ScraperHandlers) {
	registerHealth(e)

	limited := middlewarepkg.EnrichRateLimiter(cfg.RateLimitEnrich, "/api/enrich")
	e.GET("/api/enrich/search/:name", handlers.Enrich.Search, limited)
	e.POST("/api/enrich/batch", handlers.Enrich.Batch, limited)

	e.GET("/api/cache/stats", handlers.Enrich.CacheStats)
	e.DELETE("/api/cache/clear", handlers.Enrich.CacheClear)
}

func registerHealth(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, map[string]any{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
