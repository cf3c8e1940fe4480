package stellarforge

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

// ClientConfig holds all configuration for the StellarForge client.
type ClientConfig struct {
	// Endpoint overrides the transport entirely (mock, HTTP, or custom).
	Endpoint Endpoint

	// HTTP transport, used when BaseURL is set.
	BaseURL             string
	HTTPClient          *http.Client
	UserAgent           string
	AllowPrivateBaseURL bool

	// Logging
	Logger *slog.Logger

	// Tracing
	Tracer trace.Tracer
}

// Option is a function that configures the Client.
type Option func(*ClientConfig)

func defaultConfig() *ClientConfig {
	return &ClientConfig{
		Logger: slog.Default(),
	}
}

// WithEndpoint sets the endpoint the client calls. It takes precedence over
// WithBaseURL.
//
// Example:
//
//	stellarforge.WithEndpoint(mock.New(mock.WithClock(fixedClock)))
func WithEndpoint(e Endpoint) Option {
	return func(c *ClientConfig) {
		c.Endpoint = e
	}
}

// WithBaseURL makes the client call a StellarForge service over HTTP.
func WithBaseURL(url string) Option {
	return func(c *ClientConfig) {
		c.BaseURL = url
	}
}

// WithHTTPClient sets the HTTP client used with WithBaseURL.
// Timeouts configured on it apply to every call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *ClientConfig) {
		c.HTTPClient = hc
	}
}

// WithUserAgent sets the User-Agent sent with WithBaseURL.
func WithUserAgent(ua string) Option {
	return func(c *ClientConfig) {
		c.UserAgent = ua
	}
}

// WithAllowPrivateBaseURL permits loopback and private base URLs, which are
// rejected by default. Use it for a local mock server.
func WithAllowPrivateBaseURL(allow bool) Option {
	return func(c *ClientConfig) {
		c.AllowPrivateBaseURL = allow
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *ClientConfig) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithTracer sets the OpenTelemetry tracer used for client spans.
// The global tracer provider is used by default.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *ClientConfig) {
		c.Tracer = tracer
	}
}
