package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mealcompass/backend/internal/entity"
)

func matchedRecord(query, name string) entity.Enrichment {
	return entity.Enrichment{
		Query:      query,
		Matched:    true,
		Confidence: 0.9,
		Name:       &name,
		ScrapedAt:  time.Now().UTC(),
	}
}

func newFileCache(t *testing.T, retention time.Duration) *Cache {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return New(store, retention)
}

func TestCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t, 7*24*time.Hour)

	record := matchedRecord("KFC", "KFC (Tsim Sha Tsui)")
	if err := c.Put(ctx, "KFC", record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Key normalization: reads by any casing/spacing of the same name hit.
	got, ok := c.Get(ctx, "  kfc ")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if !got.Matched || got.Name == nil || *got.Name != "KFC (Tsim Sha Tsui)" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t, 7*24*time.Hour)

	if err := c.Put(ctx, "kfc", matchedRecord("kfc", "KFC")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := c.Get(ctx, "kfc"); !ok {
		t.Fatalf("expected hit within retention window")
	}

	// Entry older than the window is logically invisible even though the
	// file still exists.
	c.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	if _, ok := c.Get(ctx, "kfc"); ok {
		t.Fatalf("expected expired entry treated as absent")
	}

	count, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected the physical entry to remain, got %d", count)
	}
}

func TestCache_OverwriteLastWriteWins(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t, time.Hour)

	if err := c.Put(ctx, "kfc", matchedRecord("kfc", "First")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Put(ctx, "KFC", matchedRecord("kfc", "Second")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := c.Get(ctx, "kfc")
	if !ok || *got.Name != "Second" {
		t.Fatalf("expected last write to win, got %+v", got)
	}

	count, _ := c.Stats(ctx)
	if count != 1 {
		t.Fatalf("expected a single entry per normalized name, got %d", count)
	}
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := New(store, time.Hour)

	if err := os.WriteFile(filepath.Join(dir, Key("kfc")+".json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := c.Get(ctx, "kfc"); ok {
		t.Fatalf("expected corrupt entry treated as miss")
	}
}

func TestCache_StoreErrorFailsOpen(t *testing.T) {
	c := New(failingStore{}, time.Hour)
	if _, ok := c.Get(context.Background(), "kfc"); ok {
		t.Fatalf("expected storage failure treated as miss")
	}
}

func TestCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t, time.Hour)

	for _, name := range []string{"a", "b", "c"} {
		if err := c.Put(ctx, name, matchedRecord(name, name)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	count, _ := c.Stats(ctx)
	if count != 3 {
		t.Fatalf("expected 3 entries, got %d", count)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count, _ = c.Stats(ctx)
	if count != 0 {
		t.Fatalf("expected empty cache after clear, got %d", count)
	}
}

func TestFileStore_ConcurrentDistinctKeys(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t, time.Hour)

	names := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				if err := c.Put(ctx, name, matchedRecord(name, name)); err != nil {
					t.Errorf("put %s: %v", name, err)
					return
				}
			}
		}(name)
	}
	wg.Wait()

	for _, name := range names {
		got, ok := c.Get(ctx, name)
		if !ok || *got.Name != name {
			t.Fatalf("expected intact record for %s, got %+v ok=%v", name, got, ok)
		}
	}
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}
func (failingStore) Set(context.Context, string, []byte) error { return errors.New("disk on fire") }
func (failingStore) Clear(context.Context) error               { return errors.New("disk on fire") }
func (failingStore) Count(context.Context) (int, error)        { return 0, errors.New("disk on fire") }
