// Package mockserver exposes the in-process mock register endpoint over HTTP
// and keeps registered stars in a catalog so they can be fetched back.
package mockserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/stellarforge/stellarforge-go/endpoints/mock"
	"github.com/stellarforge/stellarforge-go/internal/catalog"
	"github.com/stellarforge/stellarforge-go/internal/catalog/memory"
	"github.com/stellarforge/stellarforge-go/internal/httputil"
	"github.com/stellarforge/stellarforge-go/internal/metrics"
	"github.com/stellarforge/stellarforge-go/internal/observability"
	"github.com/stellarforge/stellarforge-go/internal/resilience"
	"github.com/stellarforge/stellarforge-go/pkg/endpoint"
)

// Pinger is implemented by catalog backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config wires the server's collaborators. Zero values select in-memory
// defaults.
type Config struct {
	// Endpoint decides every registration. Defaults to mock.New().
	Endpoint endpoint.Endpoint
	// Catalog stores stars answered with 201. Defaults to an in-memory store.
	Catalog        catalog.Store
	CatalogBackend string
	// Limiter rate limits by API key. Nil disables rate limiting.
	Limiter *resilience.KeyLimiter
	Logger  *slog.Logger
	Tracer  trace.Tracer
	// MetricsPath serves Prometheus metrics when non-empty.
	MetricsPath  string
	MaxBodyBytes int64
}

// Server is the mock registry HTTP server.
type Server struct {
	endpoint     endpoint.Endpoint
	catalog      catalog.Store
	backend      string
	limiter      *resilience.KeyLimiter
	logger       *slog.Logger
	tracer       trace.Tracer
	metricsPath  string
	maxBodyBytes int64
}

// New creates a server from cfg.
func New(cfg Config) *Server {
	s := &Server{
		endpoint:     cfg.Endpoint,
		catalog:      cfg.Catalog,
		backend:      cfg.CatalogBackend,
		limiter:      cfg.Limiter,
		logger:       cfg.Logger,
		tracer:       cfg.Tracer,
		metricsPath:  cfg.MetricsPath,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
	if s.endpoint == nil {
		s.endpoint = mock.New()
	}
	if s.catalog == nil {
		s.catalog = memory.New(0)
		s.backend = catalog.BackendMemory
	}
	if s.backend == "" {
		s.backend = "custom"
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(observability.TracerName)
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = httputil.DefaultMaxBodyBytes
	}
	return s
}

// Handler returns the routed handler with request ID and access logging
// applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST "+endpoint.PathStars, metrics.Middleware("register", http.HandlerFunc(s.handleRegister)))
	mux.Handle("GET "+endpoint.PathStars+"/{id}", metrics.Middleware("get_star", http.HandlerFunc(s.handleGetStar)))
	mux.Handle("GET /health", metrics.Middleware("health", http.HandlerFunc(s.handleHealth)))
	if s.metricsPath != "" {
		mux.Handle("GET "+s.metricsPath, promhttp.Handler())
	}

	var h http.Handler = mux
	h = s.accessLog(h)
	h = observability.RequestIDMiddleware(h)
	return h
}

// Close releases the catalog.
func (s *Server) Close() error {
	return s.catalog.Close()
}
