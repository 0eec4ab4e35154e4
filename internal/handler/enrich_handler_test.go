package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mealcompass/backend/internal/cache"
	"github.com/mealcompass/backend/internal/enrich"
	"github.com/mealcompass/backend/internal/entity"
)

// fakeScraper matches every query except those listed in miss.
type fakeScraper struct {
	calls int64
	miss  map[string]bool
}

func (s *fakeScraper) Scrape(_ context.Context, query string, _ bool) entity.Enrichment {
	atomic.AddInt64(&s.calls, 1)
	if s.miss[query] {
		return entity.Unmatched(query)
	}
	name := query
	return entity.Enrichment{
		Query:      query,
		Matched:    true,
		Confidence: 1.0,
		Name:       &name,
		ScrapedAt:  time.Now().UTC(),
	}
}

func newTestEnrichHandler(t *testing.T, s enrich.Scraper) *EnrichHandler {
	t.Helper()
	store, err := cache.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return NewEnrichHandler(enrich.New(cache.New(store, 7*24*time.Hour), s, 2), 10)
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
		Error   string         `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !payload.Success {
		t.Fatalf("unexpected error envelope: %q", payload.Error)
	}
	return payload.Data
}

func TestEnrichHandler_Search(t *testing.T) {
	e := echo.New()
	scraper := &fakeScraper{}
	h := newTestEnrichHandler(t, scraper)

	lookup := func() (*httptest.ResponseRecorder, map[string]any) {
		req := httptest.NewRequest(http.MethodGet, "/api/enrich/search/Tim%20Ho%20Wan", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/enrich/search/:name")
		c.SetParamNames("name")
		c.SetParamValues("Tim Ho Wan")
		if err := h.Search(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return rec, decodeData(t, rec)
	}

	rec, data := lookup()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if data["matched"] != true || data["cache_hit"] != false {
		t.Fatalf("unexpected first lookup data: %+v", data)
	}

	_, data = lookup()
	if data["cache_hit"] != true {
		t.Fatalf("second lookup should be a cache hit: %+v", data)
	}
	if got := atomic.LoadInt64(&scraper.calls); got != 1 {
		t.Errorf("scrapes = %d, want 1", got)
	}
}

func TestEnrichHandler_SearchMissingName(t *testing.T) {
	e := echo.New()
	h := newTestEnrichHandler(t, &fakeScraper{})

	req := httptest.NewRequest(http.MethodGet, "/api/enrich/search/%20", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/enrich/search/:name")
	c.SetParamNames("name")
	c.SetParamValues(" ")

	_ = h.Search(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEnrichHandler_Batch(t *testing.T) {
	e := echo.New()
	h := newTestEnrichHandler(t, &fakeScraper{miss: map[string]bool{"Ghost Kitchen": true}})

	body := `{"restaurants":["Tim Ho Wan","Ghost Kitchen"],"get_details":false}`
	req := httptest.NewRequest(http.MethodPost, "/api/enrich/batch", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Batch(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	data := decodeData(t, rec)
	if data["processed"] != float64(2) {
		t.Errorf("processed = %v, want 2", data["processed"])
	}
	results, ok := data["results"].([]any)
	if !ok || len(results) != 2 {
		t.Fatalf("unexpected results %v", data["results"])
	}
	first := results[0].(map[string]any)
	second := results[1].(map[string]any)
	if first["query"] != "Tim Ho Wan" || first["matched"] != true {
		t.Errorf("unexpected first result %v", first)
	}
	if second["query"] != "Ghost Kitchen" || second["matched"] != false {
		t.Errorf("unexpected second result %v", second)
	}
}

func TestEnrichHandler_BatchOverCap(t *testing.T) {
	e := echo.New()
	h := newTestEnrichHandler(t, &fakeScraper{})

	names := make([]string, 11)
	for i := range names {
		names[i] = "Restaurant " + strings.Repeat("A", i+1)
	}
	body, _ := json.Marshal(map[string]any{"restaurants": names})
	req := httptest.NewRequest(http.MethodPost, "/api/enrich/batch", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = h.Batch(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized batch, got %d", rec.Code)
	}
}

func TestEnrichHandler_CacheAdmin(t *testing.T) {
	e := echo.New()
	h := newTestEnrichHandler(t, &fakeScraper{})

	// Seed one entry through a lookup.
	req := httptest.NewRequest(http.MethodGet, "/api/enrich/search/Kam%20Wah%20Cafe", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/enrich/search/:name")
	c.SetParamNames("name")
	c.SetParamValues("Kam Wah Cafe")
	if err := h.Search(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/cache/stats", nil)
	rec = httptest.NewRecorder()
	if err := h.CacheStats(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := decodeData(t, rec)
	if data["entries"] != float64(1) {
		t.Errorf("entries = %v, want 1", data["entries"])
	}
	if data["retention_hours"] != float64(168) {
		t.Errorf("retention_hours = %v, want 168", data["retention_hours"])
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/cache/clear", nil)
	rec = httptest.NewRecorder()
	if err := h.CacheClear(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data := decodeData(t, rec); data["cleared"] != true {
		t.Errorf("unexpected clear response %v", data)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/cache/stats", nil)
	rec = httptest.NewRecorder()
	if err := h.CacheStats(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data := decodeData(t, rec); data["entries"] != float64(0) {
		t.Errorf("entries after clear = %v, want 0", data["entries"])
	}
}
