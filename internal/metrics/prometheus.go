// Package metrics provides Prometheus metrics for the StellarForge mock
// registry server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "stellarforge"
)

// LatencyBuckets defines histogram buckets for latency metrics (in seconds).
var LatencyBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05,
	0.1, 0.25, 0.5, 1.0, 2.5, 5.0,
}

// Registration outcomes used as label values.
const (
	OutcomeCreated        = "created"
	OutcomeAuthentication = "authentication"
	OutcomeInvalidInput   = "invalid_input"
	OutcomeServerError    = "server_error"
	OutcomeRateLimited    = "rate_limited"
	OutcomeOther          = "other"
)

// =============================================================================
// Registration Metrics
// =============================================================================

var (
	// RegistrationsTotal counts registration attempts by outcome.
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Total number of star registration attempts",
		},
		[]string{"outcome", "status_code"},
	)

	// StarsStored counts stars written to the catalog by backend.
	StarsStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_stars_stored_total",
			Help:      "Total number of stars written to the catalog",
		},
		[]string{"backend"},
	)

	// CatalogErrors counts failed catalog operations.
	CatalogErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_errors_total",
			Help:      "Total number of failed catalog operations",
		},
		[]string{"backend", "operation"},
	)
)

// =============================================================================
// HTTP Metrics
// =============================================================================

var (
	// HTTPRequestsTotal counts served HTTP requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"route", "method", "status_code"},
	)

	// HTTPRequestLatency tracks server-side latency per route.
	HTTPRequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_latency_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   LatencyBuckets,
		},
		[]string{"route"},
	)
)

// =============================================================================
// Rate Limiter Metrics
// =============================================================================

var (
	// RateLimitedTotal counts requests rejected with 429.
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Total number of requests rejected by the rate limiter",
		},
	)

	// RateLimiterBackendErrors counts distributed limiter failures and the
	// action taken.
	RateLimiterBackendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limiter_backend_errors_total",
			Help:      "Total number of distributed rate limiter backend errors",
		},
		[]string{"action"}, // "allow" or "deny"
	)
)

// =============================================================================
// Database Metrics
// =============================================================================

var (
	// DBConnectionPoolSize tracks the PostgreSQL catalog connection pool.
	DBConnectionPoolSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connection_pool_size",
			Help:      "Database connection pool size by state",
		},
		[]string{"state"}, // "in_use", "idle", "max_open"
	)
)
