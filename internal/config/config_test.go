package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "8181")
	t.Setenv("GEOAPIFY_API_KEY", "key-123")
	t.Setenv("SCRAPER_BASE_URL", "http://scraper:9100")
	t.Setenv("CACHE_BACKEND", "file")
	t.Setenv("CACHE_TTL", "72h")
	t.Setenv("SCRAPE_WORKERS", "4")
	t.Setenv("RATE_LIMIT_ENRICH", "10/min")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8181" || cfg.GeoapifyAPIKey != "key-123" || cfg.ScraperBaseURL != "http://scraper:9100" {
		t.Fatalf("unexpected config values: %+v", cfg)
	}
	if cfg.CacheTTL != 72*time.Hour {
		t.Fatalf("expected cache ttl 72h, got %s", cfg.CacheTTL)
	}
	if cfg.ScrapeWorkers != 4 {
		t.Fatalf("expected 4 scrape workers, got %d", cfg.ScrapeWorkers)
	}
	if cfg.RateLimitEnrich.Requests != 10 || cfg.RateLimitEnrich.Interval != time.Minute {
		t.Fatalf("unexpected rate limit config: %+v", cfg.RateLimitEnrich)
	}

	// invalid rate limit should error
	os.Unsetenv("RATE_LIMIT_ENRICH")
	t.Setenv("RATE_LIMIT_ENRICH", "xyz")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid rate limit")
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"CACHE_TTL", "DEFAULT_RADIUS_METERS", "MAX_RESULT_LIMIT", "PAGE_TIMEOUT", "CACHE_BACKEND", "MAX_BATCH_SIZE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CacheTTL != 168*time.Hour {
		t.Fatalf("expected default retention of 7 days, got %s", cfg.CacheTTL)
	}
	if cfg.DefaultRadius != 2000 || cfg.MaxLimit != 50 || cfg.MaxBatchSize != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.PageTimeout != 15*time.Second {
		t.Fatalf("expected default page timeout 15s, got %s", cfg.PageTimeout)
	}
	if cfg.CacheBackend != "file" {
		t.Fatalf("expected file cache backend, got %s", cfg.CacheBackend)
	}
}

func TestLoad_InvalidCacheBackend(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memcached")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsupported cache backend")
	}
}

func TestParseRateLimit(t *testing.T) {
	cfg, err := parseRateLimit("5/sec")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Requests != 5 || cfg.Interval != time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	cases := []string{"", "5", "/min", "abc/min", "5/fortnight", "-1/min"}
	for _, input := range cases {
		if _, err := parseRateLimit(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}
