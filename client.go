package stellarforge

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel/trace"

	"github.com/stellarforge/stellarforge-go/endpoints/httpendpoint"
	"github.com/stellarforge/stellarforge-go/endpoints/mock"
	"github.com/stellarforge/stellarforge-go/internal/observability"
	"github.com/stellarforge/stellarforge-go/pkg/endpoint"
	"github.com/stellarforge/stellarforge-go/pkg/errors"
	"github.com/stellarforge/stellarforge-go/pkg/types"
)

// Client registers stars with the StellarForge API.
//
// Client holds no mutable state besides its API key and is safe for
// concurrent use by multiple goroutines.
type Client struct {
	apiKey   string
	endpoint endpoint.Endpoint
	logger   *slog.Logger
	tracer   trace.Tracer
}

// New creates a client authenticating with apiKey.
//
// The key is not validated locally: an empty or rejected key surfaces as an
// authentication error on the first call.
//
// Example:
//
//	client, err := stellarforge.New(apiKey,
//	    stellarforge.WithBaseURL("https://api.stellarforge.example"),
//	    stellarforge.WithLogger(logger),
//	)
func New(apiKey string, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	ep, err := buildEndpoint(cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		apiKey:   apiKey,
		endpoint: ep,
		logger:   cfg.Logger,
		tracer:   cfg.Tracer,
	}

	c.logger.Debug("stellarforge client initialized", "endpoint", fmt.Sprintf("%T", ep))
	return c, nil
}

func buildEndpoint(cfg *ClientConfig) (endpoint.Endpoint, error) {
	if cfg.Endpoint != nil {
		return cfg.Endpoint, nil
	}
	if cfg.BaseURL == "" {
		return mock.New(), nil
	}

	ep, err := httpendpoint.New(cfg.BaseURL,
		httpendpoint.WithHTTPClient(cfg.HTTPClient),
		httpendpoint.WithUserAgent(cfg.UserAgent),
		httpendpoint.WithAllowPrivate(cfg.AllowPrivateBaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("create http endpoint: %w", err)
	}
	return ep, nil
}

// RegisterNewStar registers a star in the catalog.
//
// The flat arguments are nested into the request body expected by
// POST /v1/stars. On success the returned Star carries the identifier and
// timestamp assigned by the service. Failures are *Error values whose kind
// follows the status code:
//
//	201  -> Star
//	401  -> KindAuthentication
//	400  -> KindInvalidInput
//	5xx  -> KindServiceUnavailable
//	else -> KindUnexpected, message embeds status and body
func (c *Client) RegisterNewStar(ctx context.Context, name string, ra, dec float64, observedBy string) (*Star, error) {
	ctx, span := observability.StartRegisterSpan(ctx, c.tracer, observability.RegisterSpanAttributes{
		Name:       name,
		RA:         ra,
		Dec:        dec,
		ObservedBy: observedBy,
	})
	defer span.End()

	star, err := c.registerNewStar(ctx, span, types.NewRegistrationRequest(name, ra, dec, observedBy))
	if err != nil {
		observability.RecordError(span, err, string(errors.KindOf(err)))
		c.logger.Warn("star registration failed",
			"name", name,
			"kind", errors.KindOf(err),
			"error", err,
		)
		return nil, err
	}

	observability.RecordStarID(span, star.ID())
	c.logger.Debug("star registered", "id", star.ID(), "name", star.Name())
	return star, nil
}

func (c *Client) registerNewStar(ctx context.Context, span trace.Span, reqBody *types.RegistrationRequest) (*Star, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errors.Wrap(err, 0, "encode request")
	}

	resp, err := c.endpoint.Call(ctx, &endpoint.Request{
		Method:  http.MethodPost,
		Path:    endpoint.PathStars,
		Headers: c.headers(),
		Body:    body,
	})
	if err != nil {
		return nil, errors.Wrap(err, 0, "call endpoint")
	}
	if resp == nil {
		return nil, errors.Wrap(nil, 0, "endpoint returned no response")
	}

	observability.RecordStatus(span, resp.StatusCode)
	return mapResponse(resp)
}

func (c *Client) headers() http.Header {
	h := make(http.Header, 2)
	h.Set(endpoint.HeaderAPIKey, c.apiKey)
	h.Set(endpoint.HeaderContentType, endpoint.ContentTypeJSON)
	return h
}

// Close releases resources held by the endpoint, such as idle connections.
func (c *Client) Close() error {
	if closer, ok := c.endpoint.(endpoint.Closer); ok {
		return closer.Close()
	}
	return nil
}
