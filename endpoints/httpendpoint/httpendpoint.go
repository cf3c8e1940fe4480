// Package httpendpoint implements endpoint.Endpoint over HTTP, so the
// StellarForge client can talk to a real service with the same contract as
// the in-process mock.
package httpendpoint

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/stellarforge/stellarforge-go/internal/httputil"
	"github.com/stellarforge/stellarforge-go/pkg/endpoint"
)

// RequestIDHeader carries a per-call identifier for log correlation.
const RequestIDHeader = "X-Request-ID"

// DefaultUserAgent identifies the SDK to the service.
const DefaultUserAgent = "stellarforge-go"

// Endpoint sends requests to a StellarForge service at a base URL.
type Endpoint struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	headers    map[string]string

	allowPrivate bool
}

var (
	_ endpoint.Endpoint = (*Endpoint)(nil)
	_ endpoint.Closer   = (*Endpoint)(nil)
)

// Option configures the HTTP endpoint.
type Option func(*Endpoint)

// WithHTTPClient sets the HTTP client used for calls.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Endpoint) {
		if c != nil {
			e.httpClient = c
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(e *Endpoint) {
		if ua != "" {
			e.userAgent = ua
		}
	}
}

// WithHeader adds a static header to every request.
func WithHeader(key, value string) Option {
	return func(e *Endpoint) {
		e.headers[key] = value
	}
}

// WithAllowPrivate permits loopback and private base URLs, e.g. a local mock server.
func WithAllowPrivate(allow bool) Option {
	return func(e *Endpoint) {
		e.allowPrivate = allow
	}
}

// New creates an HTTP endpoint for baseURL.
func New(baseURL string, opts ...Option) (*Endpoint, error) {
	e := &Endpoint{
		baseURL: strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: DefaultUserAgent,
		headers:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := ValidateBaseURL(e.baseURL, e.allowPrivate); err != nil {
		return nil, err
	}
	return e, nil
}

// BaseURL returns the configured base URL.
func (e *Endpoint) BaseURL() string {
	return e.baseURL
}

// Call sends the request and returns the status and body. HTTP error
// statuses are not errors here; only transport failures are.
func (e *Endpoint) Call(ctx context.Context, req *endpoint.Request) (*endpoint.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("request is nil")
	}

	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, e.baseURL+req.Path, bytes.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, v := range e.headers {
		httpReq.Header.Set(k, v)
	}
	for k, vs := range req.Headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("User-Agent", e.userAgent)
	if httpReq.Header.Get(RequestIDHeader) == "" {
		httpReq.Header.Set(RequestIDHeader, uuid.NewString())
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := httputil.ReadCapped(resp.Body, httputil.DefaultMaxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &endpoint.Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// Close releases idle connections.
func (e *Endpoint) Close() error {
	e.httpClient.CloseIdleConnections()
	return nil
}
