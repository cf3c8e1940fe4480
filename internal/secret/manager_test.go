package secret

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapProvider struct {
	values map[string]string
	calls  atomic.Int32
	closed bool
	err    error
}

func (p *mapProvider) Get(_ context.Context, path string) (string, error) {
	p.calls.Add(1)
	if v, ok := p.values[path]; ok {
		return v, nil
	}
	return "", ErrNotFound
}

func (p *mapProvider) Close() error {
	p.closed = true
	return p.err
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		ref        string
		wantScheme string
		wantPath   string
		wantOK     bool
	}{
		{"env://API_KEY", "env", "API_KEY", true},
		{"vault://secret/data/sf#api_key", "vault", "secret/data/sf#api_key", true},
		{"VALID-STAGING-KEY", "", "VALID-STAGING-KEY", false},
		{"://nothing", "", "://nothing", false},
	}
	for _, tt := range tests {
		scheme, path, ok := ParseRef(tt.ref)
		assert.Equal(t, tt.wantScheme, scheme, tt.ref)
		assert.Equal(t, tt.wantPath, path, tt.ref)
		assert.Equal(t, tt.wantOK, ok, tt.ref)
	}
}

func TestManager_Resolve(t *testing.T) {
	m := NewManager()
	m.Register("mem", &mapProvider{values: map[string]string{"key": "s3cret"}})
	ctx := context.Background()

	val, err := m.Resolve(ctx, "mem://key")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", val)

	val, err = m.Resolve(ctx, "literal-key")
	require.NoError(t, err)
	assert.Equal(t, "literal-key", val)

	_, err = m.Resolve(ctx, "mem://missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Resolve(ctx, "nope://x")
	assert.ErrorContains(t, err, "nope")

	assert.Equal(t, []string{"mem"}, m.Schemes())
}

func TestManager_CloseJoinsErrors(t *testing.T) {
	closeErr := errors.New("boom")
	ok := &mapProvider{}
	bad := &mapProvider{err: closeErr}

	m := NewManager()
	m.Register("ok", ok)
	m.Register("bad", bad)

	err := m.Close()
	assert.ErrorIs(t, err, closeErr)
	assert.True(t, ok.closed)
	assert.True(t, bad.closed)
}

func TestCachedProvider(t *testing.T) {
	inner := &mapProvider{values: map[string]string{"a": "1"}}
	p := NewCachedProvider(inner, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		v, err := p.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "1", v)
	}
	assert.Equal(t, int32(1), inner.calls.Load())

	p.Invalidate("a")
	_, err := p.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())

	// Misses are not cached.
	_, err = p.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _ = p.Get(ctx, "b")
	assert.Equal(t, int32(4), inner.calls.Load())

	require.NoError(t, p.Close())
	assert.True(t, inner.closed)
}
