// Package memory implements an in-process star catalog with optional expiry.
package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/stellarforge/stellarforge-go/internal/catalog"
	"github.com/stellarforge/stellarforge-go/pkg/types"
)

// Store keeps stars in memory. Stars are immutable, so entries are shared
// without copying.
type Store struct {
	cache *cache.Cache
}

var _ catalog.Store = (*Store)(nil)

// New creates a memory store. A ttl of zero keeps entries forever.
func New(ttl time.Duration) *Store {
	expiration := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = ttl * 2
	}
	return &Store{cache: cache.New(expiration, cleanup)}
}

// Put implements catalog.Store.
func (s *Store) Put(_ context.Context, star *types.Star) error {
	if err := catalog.Validate(star); err != nil {
		return err
	}
	s.cache.Set(star.ID(), star, cache.DefaultExpiration)
	return nil
}

// Get implements catalog.Store.
func (s *Store) Get(_ context.Context, id string) (*types.Star, error) {
	if val, found := s.cache.Get(id); found {
		if star, ok := val.(*types.Star); ok {
			return star, nil
		}
	}
	return nil, catalog.ErrNotFound
}

// Len returns the number of stored stars, including expired entries not yet evicted.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}

// Close implements catalog.Store.
func (s *Store) Close() error {
	s.cache.Flush()
	return nil
}
