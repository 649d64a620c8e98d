package annotate

import (
	"context"
	"fmt"

	"menu-scraper/tree"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached wraps r with an LRU of up to size successful results keyed by the
// located value. Failures are not cached so a later node may retry them.
func Cached(r Resolver, size int) (Resolver, error) {
	cache, err := lru.New[string, Result](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver cache: %w", err)
	}
	return &cachedResolver{next: r, cache: cache}, nil
}

type cachedResolver struct {
	next  Resolver
	cache *lru.Cache[string, Result]
}

func (c *cachedResolver) Resolve(ctx context.Context, value string) (Result, error) {
	if res, ok := c.cache.Get(value); ok {
		return cloneResult(res), nil
	}

	res, err := c.next.Resolve(ctx, value)
	if err != nil {
		return res, err
	}
	c.cache.Add(value, cloneResult(res))
	return res, nil
}

// cloneResult keeps cached nodes from being shared between tree locations.
func cloneResult(r Result) Result {
	r.Value = tree.Clone(r.Value)
	r.Locator = tree.Clone(r.Locator)
	return r
}
