package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters shared by the gateway and the scraper service.
var (
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enrichment_cache_hits_total",
		Help: "Enrichment lookups served from the cache.",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enrichment_cache_misses_total",
		Help: "Enrichment lookups that required a scrape.",
	})
	Scrapes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scrapes_total",
		Help: "Browser scrape invocations.",
	})
	ScrapeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scrape_failures_total",
		Help: "Scrapes that ended without a matched restaurant.",
	})
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "places_provider_requests_total",
		Help: "Outbound requests to the places provider by status.",
	}, []string{"status"})
)
