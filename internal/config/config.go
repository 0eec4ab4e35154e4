package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values for both the
// gateway and the scraper service.
type Config struct {
	Port        string
	ScraperPort string

	// Places provider.
	GeoapifyAPIKey  string
	GeoapifyBaseURL string
	DefaultRadius   int
	DefaultLimit    int
	MaxLimit        int
	PhoneRegion     string

	// Gateway -> scraper service hop.
	ScraperBaseURL string

	// Enrichment cache.
	CacheBackend string // "file" or "redis"
	CacheDir     string
	RedisAddr    string
	CacheTTL     time.Duration

	// Browser scraper.
	OpenriceBaseURL string
	PageTimeout     time.Duration
	ScrapeWorkers   int
	MaxImages       int
	MaxBatchSize    int

	RateLimitEnrich RateLimitConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		ScraperPort:     getEnv("SCRAPER_PORT", "9000"),
		GeoapifyAPIKey:  os.Getenv("GEOAPIFY_API_KEY"),
		GeoapifyBaseURL: getEnv("GEOAPIFY_BASE_URL", "https://api.geoapify.com"),
		DefaultRadius:   parseInt(getEnv("DEFAULT_RADIUS_METERS", "2000"), 2000),
		DefaultLimit:    parseInt(getEnv("DEFAULT_RESULT_LIMIT", "30"), 30),
		MaxLimit:        parseInt(getEnv("MAX_RESULT_LIMIT", "50"), 50),
		PhoneRegion:     getEnv("PHONE_REGION", "HK"),
		ScraperBaseURL:  getEnv("SCRAPER_BASE_URL", "http://scraper:9000"),
		CacheBackend:    strings.ToLower(getEnv("CACHE_BACKEND", "file")),
		CacheDir:        getEnv("CACHE_DIR", "./cache/openrice"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:        parseDuration(getEnv("CACHE_TTL", "168h"), 168*time.Hour),
		OpenriceBaseURL: getEnv("OPENRICE_BASE_URL", "https://www.openrice.com"),
		PageTimeout:     parseDuration(getEnv("PAGE_TIMEOUT", "15s"), 15*time.Second),
		ScrapeWorkers:   parseInt(getEnv("SCRAPE_WORKERS", "2"), 2),
		MaxImages:       parseInt(getEnv("MAX_IMAGES", "3"), 3),
		MaxBatchSize:    parseInt(getEnv("MAX_BATCH_SIZE", "10"), 10),
	}

	if cfg.CacheBackend != "file" && cfg.CacheBackend != "redis" {
		return nil, fmt.Errorf("unsupported CACHE_BACKEND value: %q", cfg.CacheBackend)
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_ENRICH", "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_ENRICH value: %w", err)
	}
	cfg.RateLimitEnrich = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(input string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
