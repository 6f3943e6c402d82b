package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/brianragasi/Highland-sub003/internal/entity"
	"github.com/brianragasi/Highland-sub003/internal/logging"
	"github.com/brianragasi/Highland-sub003/internal/usecase"
	"golang.org/x/sync/singleflight"
)

// Lister is the upstream side of the provider, usually *Client.
type Lister interface {
	List(ctx context.Context) ([]entity.CatalogItem, error)
}

// CachedProvider is the cache-aside front for the catalog service. All
// terminals read through it; singleflight collapses concurrent misses into
// one upstream fetch.
type CachedProvider struct {
	upstream Lister
	cache    usecase.CatalogCache
	sfg      singleflight.Group
}

func NewCachedProvider(upstream Lister, cache usecase.CatalogCache) *CachedProvider {
	return &CachedProvider{upstream: upstream, cache: cache}
}

func (p *CachedProvider) List(ctx context.Context) ([]entity.CatalogItem, error) {
	v, err, _ := p.sfg.Do("catalog", func() (interface{}, error) {
		items, err := p.cache.Get(ctx)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, usecase.ErrCacheMiss) {
			// cache trouble is not fatal, fall through to upstream
			logging.FromCtx(ctx).Warn("catalog cache get failed", "err", err)
		}

		items, err = p.upstream.List(ctx)
		if err != nil {
			return nil, err
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := p.cache.Set(ctx, items); err != nil {
				logging.Base().Warn("catalog cache set failed", "err", err)
			}
		}()

		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]entity.CatalogItem), nil
}

// Get returns (nil, nil) for a product the catalog does not know.
func (p *CachedProvider) Get(ctx context.Context, productID string) (*entity.CatalogItem, error) {
	items, err := p.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ProductID == productID {
			return &items[i], nil
		}
	}
	return nil, nil
}

var _ usecase.CatalogProvider = (*CachedProvider)(nil)
