package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/catalog-service/internal/domain"
)

const detailKeyPrefix = "catalog:product-detail:"

// ProductDetailCache caches assembled product details in Redis. Cache misses
// and marshal failures surface as errors; the caller treats the cache as
// best effort.
type ProductDetailCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductDetailCache creates a new Redis-backed product detail cache.
func NewProductDetailCache(client *redis.Client, ttl time.Duration) *ProductDetailCache {
	return &ProductDetailCache{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a cached product detail by product ID. A miss returns
// (nil, nil).
func (c *ProductDetailCache) Get(ctx context.Context, productID string) (*domain.ProductDetail, error) {
	key := detailKeyPrefix + productID

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get product detail: %w", err)
	}

	var detail domain.ProductDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, fmt.Errorf("unmarshal product detail: %w", err)
	}

	return &detail, nil
}

// Set stores a product detail with the configured TTL.
func (c *ProductDetailCache) Set(ctx context.Context, detail *domain.ProductDetail) error {
	key := detailKeyPrefix + detail.ID

	data, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("marshal product detail: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set product detail: %w", err)
	}

	return nil
}

// Invalidate removes the cached detail for a product, typically after any
// write to the product or its lines.
func (c *ProductDetailCache) Invalidate(ctx context.Context, productID string) error {
	key := detailKeyPrefix + productID

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del product detail: %w", err)
	}

	return nil
}
