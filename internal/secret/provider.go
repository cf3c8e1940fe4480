// Package secret resolves credential references such as "env://VAR" or
// "vault://path#key" into their values.
package secret

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when a provider has no value for a path.
var ErrNotFound = errors.New("secret not found")

// Provider retrieves secrets from one backing store.
type Provider interface {
	// Get returns the secret at path. The path excludes the scheme prefix.
	Get(ctx context.Context, path string) (string, error)

	// Close releases any resources held by the provider.
	Close() error
}

// ParseRef splits a reference into scheme and path. A reference without a
// scheme is a literal and ok is false.
func ParseRef(ref string) (scheme, path string, ok bool) {
	scheme, path, ok = strings.Cut(ref, "://")
	if !ok || scheme == "" {
		return "", ref, false
	}
	return scheme, path, true
}
