package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
)

// PayloadStore is a shared key/value store for raw payloads.
type PayloadStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// CachedSource wraps a DatasetSource with a shared payload store so replicas
// can reuse a payload fetched by another within the TTL. Store failures
// fall through to the inner source.
type CachedSource struct {
	inner   domain.DatasetSource
	store   PayloadStore
	key     string
	ttl     time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around a source keyed by url.
func NewCachedSource(inner domain.DatasetSource, store PayloadStore, url string, ttl time.Duration, logger *slog.Logger, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		store:   store,
		key:     CacheKey(url),
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

// CacheKey derives the store key for a dataset URL.
func CacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "heatmap:dataset:" + hex.EncodeToString(sum[:])[:16]
}

func (c *CachedSource) Fetch(ctx context.Context) ([]byte, error) {
	payload, ok, err := c.store.Get(ctx, c.key)
	switch {
	case err != nil:
		c.metrics.DatasetCache.WithLabelValues("error").Inc()
		c.logger.Warn("payload cache lookup failed", "key", c.key, "error", err)
	case ok:
		c.metrics.DatasetCache.WithLabelValues("hit").Inc()
		c.logger.Info("dataset served from cache", "key", c.key, "bytes", len(payload))
		return payload, nil
	default:
		c.metrics.DatasetCache.WithLabelValues("miss").Inc()
	}

	payload, err = c.inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	// Only well-formed payloads are shared; a bad document is refetched next time.
	if _, perr := domain.ParseDataset(payload); perr != nil {
		return payload, nil
	}
	if err := c.store.Set(ctx, c.key, payload, c.ttl); err != nil {
		c.logger.Warn("payload cache store failed", "key", c.key, "error", err)
	}
	return payload, nil
}
