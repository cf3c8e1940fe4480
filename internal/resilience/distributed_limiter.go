package resilience

import (
	"context"
	"time"
)

// Descriptor identifies one fixed-window limit.
type Descriptor struct {
	Key    string        // e.g. the API key
	Scope  string        // e.g. "register"
	Limit  int64         // requests allowed per window
	Window time.Duration // defaults to one minute
}

// LimitResult is the outcome of checking one Descriptor.
type LimitResult struct {
	Allowed   bool
	Current   int64
	Remaining int64
	ResetAt   int64 // unix seconds
}

// DistributedLimiter counts requests in a store shared by several server
// instances.
type DistributedLimiter interface {
	// CheckAllow atomically increments the counter for each descriptor and
	// reports whether it is still within its limit. Results are returned in
	// input order.
	CheckAllow(ctx context.Context, descriptors []Descriptor) ([]LimitResult, error)
}
