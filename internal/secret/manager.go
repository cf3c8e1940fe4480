package secret

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Manager routes references to providers by scheme.
type Manager struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{providers: make(map[string]Provider)}
}

// Register installs provider for scheme, replacing any previous one.
func (m *Manager) Register(scheme string, provider Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[scheme] = provider
}

// Schemes lists registered schemes in sorted order.
func (m *Manager) Schemes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.providers))
	for s := range m.providers {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Resolve returns the value a reference points to. Literals are returned
// unchanged.
func (m *Manager) Resolve(ctx context.Context, ref string) (string, error) {
	scheme, path, ok := ParseRef(ref)
	if !ok {
		return ref, nil
	}

	m.mu.RLock()
	provider, found := m.providers[scheme]
	m.mu.RUnlock()
	if !found {
		return "", fmt.Errorf("no secret provider registered for scheme %q", scheme)
	}

	val, err := provider.Get(ctx, path)
	if err != nil {
		return "", fmt.Errorf("resolve %s secret: %w", scheme, err)
	}
	return val, nil
}

// Close closes every registered provider.
func (m *Manager) Close() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var errs []error
	for scheme, p := range m.providers {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", scheme, err))
		}
	}
	return errors.Join(errs...)
}
