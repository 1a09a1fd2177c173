package metadata

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/listenupapp/movielens/internal/metrics"
)

// Enricher produces a record for an external key. It never fails: any problem
// yields the empty record.
type Enricher interface {
	Enrich(ctx context.Context, key string) Record
}

// Cache maps external keys to metadata records. A key is enriched at most
// once; the record it produced, empty or not, is kept and persisted.
// Concurrent requests for the same missing key share one enrichment, and
// reads of other keys do not wait for it.
type Cache struct {
	mu       sync.RWMutex
	records  map[string]Record
	flights  singleflight.Group
	store    Store
	enricher Enricher
	logger   *slog.Logger
}

// NewCache loads the persisted records from store. A load failure starts an
// empty cache and is logged.
func NewCache(ctx context.Context, store Store, enricher Enricher, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	records, err := store.Load(ctx)
	if err != nil {
		logger.Warn("failed to load metadata cache, starting empty", "error", err)
		records = nil
	}
	if records == nil {
		records = make(map[string]Record)
	}

	metrics.CacheEntries.Set(float64(len(records)))
	logger.Debug("metadata cache loaded", "entries", len(records))

	return &Cache{
		records:  records,
		store:    store,
		enricher: enricher,
		logger:   logger,
	}
}

// GetOrFetch returns the cached record for key, enriching and persisting it
// on the first request. The enrichment ignores cancellation of ctx so that a
// departed caller never leaves an unattempted empty record behind; the
// enricher's own timeout bounds it. Persistence failures are logged and the
// record is still returned.
func (c *Cache) GetOrFetch(ctx context.Context, key string) Record {
	if rec, ok := c.Lookup(key); ok {
		metrics.RecordCacheLookup(true)
		c.logger.Debug("metadata cache hit", "key", key)
		return rec
	}

	v, _, _ := c.flights.Do(key, func() (any, error) {
		// A flight for key may have finished between the lookup and Do.
		if rec, ok := c.Lookup(key); ok {
			metrics.RecordCacheLookup(true)
			return rec, nil
		}
		metrics.RecordCacheLookup(false)

		c.logger.Debug("enriching metadata", "key", key)
		detached := context.WithoutCancel(ctx)
		rec := c.enricher.Enrich(detached, key)

		c.put(detached, key, rec)
		return rec, nil
	})
	return v.(Record)
}

// Lookup returns the cached record for key without enriching.
func (c *Cache) Lookup(key string) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[key]
	return rec, ok
}

func (c *Cache) put(ctx context.Context, key string, rec Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records[key] = rec
	metrics.CacheEntries.Set(float64(len(c.records)))

	// Persist after every change
	if err := c.store.Save(ctx, key, rec, c.records); err != nil {
		metrics.CachePersistErrors.Inc()
		c.logger.Warn("failed to persist metadata cache",
			"error", err,
			"key", key,
		)
		// Don't fail the request
	}
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Snapshot returns a copy of every cached record.
func (c *Cache) Snapshot() map[string]Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.records)
}

// Close closes the backing store.
func (c *Cache) Close() error {
	return c.store.Close()
}
