package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mealcompass/backend/internal/entity"
)

// ErrNotFound marks a key with no stored entry.
var ErrNotFound = errors.New("cache: entry not found")

// Store is the byte-addressable backing medium for cached enrichments.
// Implementations must tolerate concurrent writers to distinct keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// envelope is the serialized cache entry layout.
type envelope struct {
	CachedAt time.Time         `json:"cached_at"`
	Query    string            `json:"query"`
	Data     entity.Enrichment `json:"data"`
}

// Cache applies the logical retention window on top of a Store. Entries older
// than the window are treated as absent even when the storage entry still
// physically exists. Storage errors fail open as misses so a broken cache
// degrades to re-scraping rather than taking the feature down.
type Cache struct {
	store     Store
	retention time.Duration
	now       func() time.Time
}

// New builds a cache with the given retention window (seven days when zero).
func New(store Store, retention time.Duration) *Cache {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	return &Cache{store: store, retention: retention, now: time.Now}
}

// Key normalizes a restaurant name into the cache key: exactly one record is
// retained per normalized name.
func Key(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	sum := md5.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached enrichment for the name, or ok=false when absent or
// expired.
func (c *Cache) Get(ctx context.Context, name string) (entity.Enrichment, bool) {
	raw, err := c.store.Get(ctx, Key(name))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("cache read failed for %q, treating as miss: %v", name, err)
		}
		return entity.Enrichment{}, false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("cache entry for %q is corrupt, treating as miss: %v", name, err)
		return entity.Enrichment{}, false
	}

	if c.now().Sub(env.CachedAt) > c.retention {
		return entity.Enrichment{}, false
	}
	return env.Data, true
}

// Put upserts the enrichment under the normalized name. Last write wins.
func (c *Cache) Put(ctx context.Context, name string, record entity.Enrichment) error {
	raw, err := json.Marshal(envelope{
		CachedAt: c.now().UTC(),
		Query:    strings.ToLower(strings.TrimSpace(name)),
		Data:     record,
	})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := c.store.Set(ctx, Key(name), raw); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Stats reports the number of physically stored entries.
func (c *Cache) Stats(ctx context.Context) (int, error) {
	return c.store.Count(ctx)
}

// Clear drops all entries.
func (c *Cache) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// Retention exposes the configured window for health reporting.
func (c *Cache) Retention() time.Duration {
	return c.retention
}
