// Package env resolves secrets from environment variables.
package env

import (
	"context"
	"fmt"
	"os"

	"github.com/stellarforge/stellarforge-go/internal/secret"
)

// Provider reads environment variables, optionally under a fixed prefix.
type Provider struct {
	prefix string
	lookup func(string) (string, bool)
}

var _ secret.Provider = (*Provider)(nil)

// New creates a provider. With prefix "STELLARFORGE_", "env://API_KEY" reads
// STELLARFORGE_API_KEY.
func New(prefix string) *Provider {
	return &Provider{prefix: prefix, lookup: os.LookupEnv}
}

// Get implements secret.Provider. Unset and empty variables are both errors.
func (p *Provider) Get(_ context.Context, path string) (string, error) {
	name := p.prefix + path
	val, ok := p.lookup(name)
	if !ok || val == "" {
		return "", fmt.Errorf("environment variable %q: %w", name, secret.ErrNotFound)
	}
	return val, nil
}

// Close is a no-op.
func (p *Provider) Close() error {
	return nil
}
