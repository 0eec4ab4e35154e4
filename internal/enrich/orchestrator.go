package enrich

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mealcompass/backend/internal/cache"
	"github.com/mealcompass/backend/internal/entity"
	"github.com/mealcompass/backend/internal/metrics"
)

// Scraper produces an enrichment record for a restaurant name. Implementations
// never fail hard; a record with Matched=false stands in for every failure.
type Scraper interface {
	Scrape(ctx context.Context, query string, details bool) entity.Enrichment
}

// Result pairs a record with how it was obtained.
type Result struct {
	Record   entity.Enrichment
	CacheHit bool
	Elapsed  time.Duration
}

// Orchestrator is the cache-first front of the scraping pipeline. Concurrent
// lookups for the same normalized name are coalesced into a single scrape,
// and only matched records enter the cache so a transient failure stays
// retryable.
type Orchestrator struct {
	cache   *cache.Cache
	scraper Scraper
	group   singleflight.Group
	workers int
}

func New(c *cache.Cache, s Scraper, workers int) *Orchestrator {
	if workers <= 0 {
		workers = 2
	}
	return &Orchestrator{cache: c, scraper: s, workers: workers}
}

// Lookup returns the enrichment record for one restaurant name.
func (o *Orchestrator) Lookup(ctx context.Context, name string, details bool) Result {
	if record, ok := o.cache.Get(ctx, name); ok {
		metrics.CacheHits.Inc()
		return Result{Record: record, CacheHit: true}
	}
	metrics.CacheMisses.Inc()

	start := time.Now()
	v, _, shared := o.group.Do(cache.Key(name), func() (interface{}, error) {
		// A coalesced waiter may arrive just after the leader finished and
		// populated the cache; re-check before scraping again.
		if record, ok := o.cache.Get(ctx, name); ok {
			return Result{Record: record, CacheHit: true}, nil
		}

		// The scrape outlives the requesting client: once started, finish
		// and cache it so the next request gets a hit.
		record := o.scraper.Scrape(context.WithoutCancel(ctx), name, details)
		if record.Matched {
			if err := o.cache.Put(context.WithoutCancel(ctx), name, record); err != nil {
				log.Printf("enrich cache write failed name=%q err=%v", name, err)
			}
		}
		return Result{Record: record}, nil
	})

	result := v.(Result)
	if !result.CacheHit {
		result.Elapsed = time.Since(start)
	}
	if shared {
		log.Printf("enrich coalesced name=%q", name)
	}
	return result
}

// LookupBatch enriches every name with bounded concurrency, preserving input
// order. One name failing to match never affects its neighbours.
func (o *Orchestrator) LookupBatch(ctx context.Context, names []string, details bool) []Result {
	results := make([]Result, len(names))
	sem := make(chan struct{}, o.workers)
	done := make(chan int, len(names))

	for i, name := range names {
		go func(i int, name string) {
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = o.Lookup(ctx, name, details)
			done <- i
		}(i, name)
	}
	for range names {
		<-done
	}
	return results
}

// Cache exposes the underlying cache for the stats and clear endpoints.
func (o *Orchestrator) Cache() *cache.Cache {
	return o.cache
}
