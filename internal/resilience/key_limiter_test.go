package resilience

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, cfg KeyLimiterConfig) *KeyLimiter {
	t.Helper()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	kl := NewKeyLimiter(cfg)
	t.Cleanup(kl.Stop)
	return kl
}

type stubLimiter struct {
	results []LimitResult
	err     error
	calls   []Descriptor
}

func (s *stubLimiter) CheckAllow(_ context.Context, d []Descriptor) ([]LimitResult, error) {
	s.calls = append(s.calls, d...)
	return s.results, s.err
}

func TestKeyLimiter_BurstThenDeny(t *testing.T) {
	kl := newTestLimiter(t, KeyLimiterConfig{RPM: 1, Burst: 3})

	for i := 0; i < 3; i++ {
		assert.True(t, kl.Allow("key-a"), "request %d", i)
	}
	assert.False(t, kl.Allow("key-a"))

	// Other keys have their own bucket.
	assert.True(t, kl.Allow("key-b"))
	assert.Equal(t, 2, kl.Len())
}

func TestKeyLimiter_CheckLocal(t *testing.T) {
	kl := newTestLimiter(t, KeyLimiterConfig{RPM: 1, Burst: 1})

	ok, err := kl.Check(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = kl.Check(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeyLimiter_CheckDistributed(t *testing.T) {
	kl := newTestLimiter(t, KeyLimiterConfig{RPM: 30})
	stub := &stubLimiter{results: []LimitResult{{Allowed: false, Current: 31}}}
	kl.SetDistributedLimiter(stub)

	ok, err := kl.Check(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.Len(t, stub.calls, 1)
	assert.Equal(t, "k", stub.calls[0].Key)
	assert.Equal(t, int64(30), stub.calls[0].Limit)
	assert.Equal(t, time.Minute, stub.calls[0].Window)
}

func TestKeyLimiter_BackendFailure(t *testing.T) {
	backendErr := errors.New("redis down")

	open := newTestLimiter(t, KeyLimiterConfig{FailOpen: true})
	open.SetDistributedLimiter(&stubLimiter{err: backendErr})
	ok, err := open.Check(context.Background(), "k")
	assert.ErrorIs(t, err, backendErr)
	assert.True(t, ok)

	closed := newTestLimiter(t, KeyLimiterConfig{FailOpen: false})
	closed.SetDistributedLimiter(&stubLimiter{})
	ok, err = closed.Check(context.Background(), "k")
	assert.Error(t, err, "empty results count as a failure")
	assert.False(t, ok)
}

func TestKeyLimiter_Cleanup(t *testing.T) {
	kl := newTestLimiter(t, KeyLimiterConfig{CleanupTTL: time.Minute})
	kl.Allow("stale")
	require.Equal(t, 1, kl.Len())

	kl.cleanup(time.Now().Add(30 * time.Second))
	assert.Equal(t, 1, kl.Len())

	kl.cleanup(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, kl.Len())
}

func TestKeyLimiter_StopIsIdempotent(t *testing.T) {
	kl := NewKeyLimiter(KeyLimiterConfig{})
	kl.Stop()
	kl.Stop()
}
