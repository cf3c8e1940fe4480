// Package resilience limits how fast each API key may register stars.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/stellarforge/stellarforge-go/internal/metrics"
)

// ErrRateLimited is returned when a key has exhausted its allowance.
var ErrRateLimited = errors.New("rate limit exceeded")

// KeyLimiterConfig configures a KeyLimiter.
type KeyLimiterConfig struct {
	RPM        int           // requests per minute per key
	Burst      int           // local bucket capacity
	CleanupTTL time.Duration // idle limiters are dropped after this long
	FailOpen   bool          // allow requests when the distributed backend fails
	Logger     *slog.Logger
}

// KeyLimiter rate limits requests per API key. It uses a shared
// DistributedLimiter when one is set and a local token bucket otherwise.
type KeyLimiter struct {
	mu          sync.RWMutex
	limiters    map[string]*rate.Limiter
	lastAccess  map[string]time.Time
	rpm         int
	burst       int
	cleanupTTL  time.Duration
	failOpen    bool
	logger      *slog.Logger
	distributed DistributedLimiter

	stopOnce sync.Once
	stop     chan struct{}
}

// NewKeyLimiter creates a limiter and starts its cleanup loop. Call Stop to
// end the loop.
func NewKeyLimiter(cfg KeyLimiterConfig) *KeyLimiter {
	if cfg.RPM <= 0 {
		cfg.RPM = 60
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.CleanupTTL <= 0 {
		cfg.CleanupTTL = 10 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	kl := &KeyLimiter{
		limiters:   make(map[string]*rate.Limiter),
		lastAccess: make(map[string]time.Time),
		rpm:        cfg.RPM,
		burst:      cfg.Burst,
		cleanupTTL: cfg.CleanupTTL,
		failOpen:   cfg.FailOpen,
		logger:     cfg.Logger,
		stop:       make(chan struct{}),
	}
	go kl.cleanupLoop()
	return kl
}

// SetDistributedLimiter switches the limiter to a shared backend.
func (kl *KeyLimiter) SetDistributedLimiter(l DistributedLimiter) {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	kl.distributed = l
}

// Check reports whether key may make another request. The returned error is
// non-nil only when the distributed backend failed; the boolean then reflects
// the fail-open setting.
func (kl *KeyLimiter) Check(ctx context.Context, key string) (bool, error) {
	kl.mu.RLock()
	distributed := kl.distributed
	kl.mu.RUnlock()

	if distributed == nil {
		return kl.Allow(key), nil
	}

	results, err := distributed.CheckAllow(ctx, []Descriptor{{
		Key:    key,
		Scope:  "register",
		Limit:  int64(kl.rpm),
		Window: time.Minute,
	}})
	if err == nil && len(results) > 0 {
		return results[0].Allowed, nil
	}
	if err == nil {
		err = fmt.Errorf("distributed rate limiter returned no results")
	}

	action := "deny"
	if kl.failOpen {
		action = "allow"
	}
	metrics.RateLimiterBackendErrors.WithLabelValues(action).Inc()
	kl.logger.Warn("distributed rate limiter check failed",
		"error", err,
		"fail_open", kl.failOpen,
		"action", action,
	)
	return kl.failOpen, err
}

// Allow consumes one token from the local bucket for key.
func (kl *KeyLimiter) Allow(key string) bool {
	return kl.limiter(key).Allow()
}

func (kl *KeyLimiter) limiter(key string) *rate.Limiter {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	kl.lastAccess[key] = time.Now()
	if l, ok := kl.limiters[key]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Limit(float64(kl.rpm)/60.0), kl.burst)
	kl.limiters[key] = l
	return l
}

// Len returns the number of tracked keys.
func (kl *KeyLimiter) Len() int {
	kl.mu.RLock()
	defer kl.mu.RUnlock()
	return len(kl.limiters)
}

// Stop ends the cleanup loop.
func (kl *KeyLimiter) Stop() {
	kl.stopOnce.Do(func() { close(kl.stop) })
}

func (kl *KeyLimiter) cleanupLoop() {
	ticker := time.NewTicker(kl.cleanupTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-kl.stop:
			return
		case now := <-ticker.C:
			kl.cleanup(now)
		}
	}
}

func (kl *KeyLimiter) cleanup(now time.Time) {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	for key, last := range kl.lastAccess {
		if now.Sub(last) > kl.cleanupTTL {
			delete(kl.limiters, key)
			delete(kl.lastAccess, key)
		}
	}
}
