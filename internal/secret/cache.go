package secret

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedProvider decorates a Provider with an in-memory TTL cache.
type CachedProvider struct {
	inner Provider
	cache *cache.Cache
}

// NewCachedProvider wraps inner. Values expire after ttl.
func NewCachedProvider(inner Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		cache: cache.New(ttl, ttl*2),
	}
}

// Get implements Provider. Failed lookups are not cached.
func (p *CachedProvider) Get(ctx context.Context, path string) (string, error) {
	if val, found := p.cache.Get(path); found {
		if s, ok := val.(string); ok {
			return s, nil
		}
	}

	val, err := p.inner.Get(ctx, path)
	if err != nil {
		return "", err
	}
	p.cache.SetDefault(path, val)
	return val, nil
}

// Invalidate drops a cached value.
func (p *CachedProvider) Invalidate(path string) {
	p.cache.Delete(path)
}

// Close flushes the cache and closes the inner provider.
func (p *CachedProvider) Close() error {
	p.cache.Flush()
	return p.inner.Close()
}
