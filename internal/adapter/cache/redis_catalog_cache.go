package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/brianragasi/Highland-sub003/internal/entity"
	"github.com/brianragasi/Highland-sub003/internal/usecase"
	"github.com/redis/go-redis/v9"
)

const catalogKey = "pos:catalog"

// RedisCatalogCache stores the catalog snapshot shared by every terminal
// behind this instance. One key, whole list; the catalog is small.
type RedisCatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCatalogCache(rdb *redis.Client, ttl time.Duration) *RedisCatalogCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisCatalogCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCatalogCache) Get(ctx context.Context) ([]entity.CatalogItem, error) {
	data, err := c.rdb.Get(ctx, catalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, usecase.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var items []entity.CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	return items, nil
}

func (c *RedisCatalogCache) Set(ctx context.Context, items []entity.CatalogItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := c.rdb.Set(ctx, catalogKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// SetQuantity patches one item's stock inside the cached snapshot. A miss
// is fine: the next List will fetch fresh data anyway.
func (c *RedisCatalogCache) SetQuantity(ctx context.Context, productID string, quantityOnHand int) error {
	items, err := c.Get(ctx)
	if errors.Is(err, usecase.ErrCacheMiss) {
		return nil
	}
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ProductID == productID {
			items[i].QuantityOnHand = quantityOnHand
			return c.Set(ctx, items)
		}
	}
	// unknown product: the snapshot is stale, drop it
	return c.Invalidate(ctx)
}

func (c *RedisCatalogCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, catalogKey).Err()
}

var _ usecase.CatalogCache = (*RedisCatalogCache)(nil)
