// Package catalog stores registered stars so the mock server can serve them
// back by identifier.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/stellarforge/stellarforge-go/pkg/types"
)

// ErrNotFound is returned when no star has the requested identifier.
var ErrNotFound = errors.New("star not found")

// Backend names accepted by configuration.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Store persists registered stars.
type Store interface {
	// Put records a star under its identifier, replacing any previous entry.
	Put(ctx context.Context, star *types.Star) error

	// Get returns the star with the given identifier or ErrNotFound.
	Get(ctx context.Context, id string) (*types.Star, error)

	// Close releases resources held by the store.
	Close() error
}

// Validate rejects stars that cannot be keyed.
func Validate(star *types.Star) error {
	if star == nil {
		return fmt.Errorf("star is nil")
	}
	if star.ID() == "" {
		return fmt.Errorf("star id is required")
	}
	return nil
}
