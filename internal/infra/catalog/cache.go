package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"appcatmcp/internal/domain"
	"appcatmcp/internal/infra/telemetry"
)

// Fetcher is the outbound side of the cache. Client implements it; tests
// substitute fakes.
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.CatalogEntry, error)
}

// Cache is a single-slot memoized view of the remote catalog. A successful
// fetch populates the slot for the life of the process; a failed fetch leaves
// it empty so the next caller retries. Concurrent first calls collapse into
// one outbound request.
type Cache struct {
	fetcher Fetcher
	logger  *zap.Logger
	metrics *telemetry.Metrics

	group   singleflight.Group
	mu      sync.RWMutex
	entries []domain.CatalogEntry
	loaded  bool
}

func NewCache(fetcher Fetcher, logger *zap.Logger, metrics *telemetry.Metrics) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		fetcher: fetcher,
		logger:  logger.Named("catalog_cache"),
		metrics: metrics,
	}
}

func (c *Cache) Get(ctx context.Context) ([]domain.CatalogEntry, error) {
	c.mu.RLock()
	if c.loaded {
		entries := c.entries
		c.mu.RUnlock()
		return entries, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.group.Do("catalog", func() (any, error) {
		// A caller that queued behind a successful fetch sees the slot
		// populated without a second request.
		c.mu.RLock()
		if c.loaded {
			entries := c.entries
			c.mu.RUnlock()
			return entries, nil
		}
		c.mu.RUnlock()

		entries, err := c.fetcher.Fetch(ctx)
		c.metrics.ObserveCatalogFetch(err)
		if err != nil {
			c.logger.Warn("catalog fetch failed", zap.Error(err))
			return nil, err
		}

		c.mu.Lock()
		c.entries = entries
		c.loaded = true
		c.mu.Unlock()

		c.logger.Info("catalog populated", zap.Int("entries", len(entries)))
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.CatalogEntry), nil
}
