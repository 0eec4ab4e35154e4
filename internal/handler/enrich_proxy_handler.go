package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mealcompass/backend/internal/dto"
	middleware "github.com/mealcompass/backend/internal/middleware"
)

// EnrichProxyHandler forwards enrichment and cache-admin requests from the
// gateway to the scraping backend.
type EnrichProxyHandler struct {
	scraper EnrichPoster
}

// NewEnrichProxyHandler constructs the proxy backed by an HTTP client.
// If `client == nil`, it automatically creates an ID-token client for
// Cloud Run → Cloud Run calls.
func NewEnrichProxyHandler(client *http.Client, scraperBaseURL string) *EnrichProxyHandler {
	return &EnrichProxyHandler{scraper: NewEnrichClient(client, scraperBaseURL)}
}

// NewEnrichProxyHandlerWithClient allows injecting a custom scraper client (useful for tests).
func NewEnrichProxyHandlerWithClient(scraper EnrichPoster) *EnrichProxyHandler {
	return &EnrichProxyHandler{scraper: scraper}
}

// Lookup handles GET /restaurants/enrich/:name.
func (h *EnrichProxyHandler) Lookup(c echo.Context) error {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		return Error(c, http.StatusBadRequest, "restaurant name is required")
	}

	path := "/api/enrich/search/" + url.PathEscape(name)
	if c.QueryParam("details") == "false" {
		path += "?details=false"
	}

	data, err := h.scraper.GetJSON(c.Request().Context(), path, middleware.RequestIDFromContext(c))
	if err != nil {
		return Error(c, http.StatusBadGateway, err.Error())
	}
	return Success(c, http.StatusOK, data)
}

// Batch handles POST /restaurants/enrich/batch.
func (h *EnrichProxyHandler) Batch(c echo.Context) error {
	var req dto.BatchEnrichRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	names := make([]string, 0, len(req.Restaurants))
	for _, name := range req.Restaurants {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	if len(names) == 0 {
		return Error(c, http.StatusBadRequest, "restaurants must contain at least one name")
	}
	req.Restaurants = names

	data, err := h.scraper.PostJSON(c.Request().Context(), "/api/enrich/batch", req, middleware.RequestIDFromContext(c))
	if err != nil {
		return Error(c, http.StatusBadGateway, err.Error())
	}
	return Success(c, http.StatusOK, data)
}

// CacheStats handles GET /cache/stats.
func (h *EnrichProxyHandler) CacheStats(c echo.Context) error {
	data, err := h.scraper.GetJSON(c.Request().Context(), "/api/cache/stats", middleware.RequestIDFromContext(c))
	if err != nil {
		return Error(c, http.StatusBadGateway, err.Error())
	}
	return Success(c, http.StatusOK, data)
}

// CacheClear handles DELETE /cache/clear.
func (h *EnrichProxyHandler) CacheClear(c echo.Context) error {
	data, err := h.scraper.DeleteJSON(c.Request().Context(), "/api/cache/clear", middleware.RequestIDFromContext(c))
	if err != nil {
		return Error(c, http.StatusBadGateway, err.Error())
	}
	return Success(c, http.StatusOK, data)
}
