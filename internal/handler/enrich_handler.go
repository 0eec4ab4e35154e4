package handler

import (
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mealcompass/backend/internal/dto"
	"github.com/mealcompass/backend/internal/enrich"
	"github.com/mealcompass/backend/internal/entity"
)

// EnrichHandler serves the scraping backend's enrichment API.
type EnrichHandler struct {
	orch     *enrich.Orchestrator
	maxBatch int
}

func NewEnrichHandler(orch *enrich.Orchestrator, maxBatch int) *EnrichHandler {
	if maxBatch <= 0 {
		maxBatch = 10
	}
	return &EnrichHandler{orch: orch, maxBatch: maxBatch}
}

// enrichPayload is one lookup result with its provenance fields.
type enrichPayload struct {
	entity.Enrichment
	CacheHit          bool    `json:"cache_hit"`
	ScrapeTimeSeconds float64 `json:"scrape_time_seconds"`
}

func payloadFrom(res enrich.Result) enrichPayload {
	return enrichPayload{
		Enrichment:        res.Record,
		CacheHit:          res.CacheHit,
		ScrapeTimeSeconds: roundSeconds(res.Elapsed),
	}
}

// Search handles GET /api/enrich/search/:name. `?details=false` skips the
// detail and photo navigations.
func (h *EnrichHandler) Search(c echo.Context) error {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		return Error(c, http.StatusBadRequest, "restaurant name is required")
	}
	details := c.QueryParam("details") != "false"

	res := h.orch.Lookup(c.Request().Context(), name, details)
	return Success(c, http.StatusOK, payloadFrom(res))
}

// Batch handles POST /api/enrich/batch.
func (h *EnrichHandler) Batch(c echo.Context) error {
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
	if len(names) > h.maxBatch {
		return Error(c, http.StatusBadRequest, fmt.Sprintf("batch size %d exceeds the maximum of %d", len(names), h.maxBatch))
	}

	details := true
	if req.GetDetails != nil {
		details = *req.GetDetails
	}

	start := time.Now()
	results := h.orch.LookupBatch(c.Request().Context(), names, details)

	payloads := make([]enrichPayload, len(results))
	for i, res := range results {
		payloads[i] = payloadFrom(res)
	}
	return Success(c, http.StatusOK, map[string]any{
		"results":            payloads,
		"processed":          len(payloads),
		"total_time_seconds": roundSeconds(time.Since(start)),
	})
}

// CacheStats handles GET /api/cache/stats.
func (h *EnrichHandler) CacheStats(c echo.Context) error {
	entries, err := h.orch.Cache().Stats(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, err.Error())
	}
	return Success(c, http.StatusOK, map[string]any{
		"entries":         entries,
		"retention_hours": h.orch.Cache().Retention().Hours(),
	})
}

// CacheClear handles DELETE /api/cache/clear.
func (h *EnrichHandler) CacheClear(c echo.Context) error {
	if err := h.orch.Cache().Clear(c.Request().Context()); err != nil {
		return Error(c, http.StatusInternalServerError, err.Error())
	}
	return Success(c, http.StatusOK, map[string]any{"cleared": true})
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
