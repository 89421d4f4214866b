package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SampritiSC2/react-proshop/internal/domain"
)

const topProductsKey = "storefront:products:top"

// ProductCache caches the top-rated products list in Redis. A nil
// *ProductCache is a valid no-op cache, so callers never need to branch on
// whether caching is enabled.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewProductCache creates a product cache with the given TTL.
func NewProductCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ProductCache {
	return &ProductCache{client: client, ttl: ttl, logger: logger}
}

// GetTopRated returns the cached top products list, or (nil, false) on a
// miss. Cache errors are logged and treated as misses.
func (c *ProductCache) GetTopRated(ctx context.Context) ([]domain.Product, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, topProductsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "top products cache read failed",
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		c.logger.WarnContext(ctx, "top products cache decode failed",
			slog.String("error", err.Error()),
		)
		return nil, false
	}

	return products, true
}

// SetTopRated stores the top products list. Failures are logged, never
// returned: the cache is best-effort.
func (c *ProductCache) SetTopRated(ctx context.Context, products []domain.Product) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(products)
	if err != nil {
		c.logger.WarnContext(ctx, "top products cache encode failed",
			slog.String("error", err.Error()),
		)
		return
	}

	if err := c.client.Set(ctx, topProductsKey, raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "top products cache write failed",
			slog.String("error", err.Error()),
		)
	}
}

// InvalidateTopRated drops the cached list. Called after any product or
// review write that can change ratings.
func (c *ProductCache) InvalidateTopRated(ctx context.Context) {
	if c == nil {
		return
	}

	if err := c.client.Del(ctx, topProductsKey).Err(); err != nil {
		c.logger.WarnContext(ctx, "top products cache invalidation failed",
			slog.String("error", err.Error()),
		)
	}
}
