// Package mock provides an in-process stand-in for the StellarForge register
// endpoint. It validates the API key and the right ascension and answers
// with the same status codes and bodies as the real service.
package mock

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/stellarforge/stellarforge-go/pkg/endpoint"
	"github.com/stellarforge/stellarforge-go/pkg/types"
)

// Sentinel API keys understood by the mock.
const (
	// InvalidAPIKey is always rejected with 401.
	InvalidAPIKey = "INVALID-KEY-401" // #nosec G101 -- test sentinel, not a credential.
	// ServerErrorAPIKey passes authentication and validation, then fails with 500.
	ServerErrorAPIKey = "TRIGGER-500-ERROR" // #nosec G101 -- test sentinel, not a credential.
)

// Right ascension bounds, both inclusive.
const (
	MinRA = 0.0
	MaxRA = 24.0
)

// Error bodies returned by the mock.
var (
	authFailedBody = types.ErrorResponse{
		Error:   "Authentication Failed",
		Message: "Invalid API Key provided.",
	}
	invalidInputBody = types.ErrorResponse{
		Error:   "Invalid Input",
		Message: "Right Ascension (ra) must be between 0 and 24.",
	}
	internalErrorBody = types.ErrorResponse{
		Error:   "Internal Error",
		Message: "Database write failed. The server is down.",
	}
)

// Endpoint simulates the register endpoint. It is safe for concurrent use.
type Endpoint struct {
	clock Clock
	ids   IDGenerator
}

var _ endpoint.Endpoint = (*Endpoint)(nil)

// Option configures the mock endpoint.
type Option func(*Endpoint)

// WithClock sets the clock used for registered_at.
func WithClock(c Clock) Option {
	return func(e *Endpoint) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithIDGenerator sets the generator used for star_id.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Endpoint) {
		if g != nil {
			e.ids = g
		}
	}
}

// New creates a mock endpoint with the system clock and random identifiers.
func New(opts ...Option) *Endpoint {
	e := &Endpoint{
		clock: SystemClock{},
		ids:   RandomIDGenerator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// registrationBody keeps the echoed members verbatim.
type registrationBody struct {
	Name        json.RawMessage `json:"name,omitempty"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
	ObservedBy  json.RawMessage `json:"observed_by,omitempty"`
}

type createdBody struct {
	StarID       string          `json:"star_id"`
	Name         json.RawMessage `json:"name,omitempty"`
	Coordinates  json.RawMessage `json:"coordinates,omitempty"`
	ObservedBy   json.RawMessage `json:"observed_by,omitempty"`
	RegisteredAt string          `json:"registered_at"`
}

// Call evaluates the request. The checks run in a fixed order and the first
// match wins: authentication, ra validation, simulated server fault, success.
// Method and path are not inspected. Call never returns a non-nil error.
func (e *Endpoint) Call(_ context.Context, req *endpoint.Request) (*endpoint.Response, error) {
	var headers http.Header
	var raw []byte
	if req != nil {
		headers = req.Headers
		raw = req.Body
	}

	apiKey := headers.Get(endpoint.HeaderAPIKey)
	if apiKey == "" || apiKey == InvalidAPIKey {
		return respond(http.StatusUnauthorized, authFailedBody)
	}

	body, ok := decodeRegistration(raw)
	if !ok {
		return respond(http.StatusBadRequest, invalidInputBody)
	}

	if apiKey == ServerErrorAPIKey {
		return respond(http.StatusInternalServerError, internalErrorBody)
	}

	return respond(http.StatusCreated, createdBody{
		StarID:       e.ids.NewID(),
		Name:         body.Name,
		Coordinates:  body.Coordinates,
		ObservedBy:   body.ObservedBy,
		RegisteredAt: e.clock.Now().UTC().Format(types.TimestampLayout),
	})
}

// decodeRegistration reports whether raw carries a numeric coordinates.ra
// within [MinRA, MaxRA].
func decodeRegistration(raw []byte) (*registrationBody, bool) {
	var body registrationBody
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Coordinates) == 0 {
		return nil, false
	}

	var coords struct {
		RA *float64 `json:"ra"`
	}
	if err := json.Unmarshal(body.Coordinates, &coords); err != nil || coords.RA == nil {
		return nil, false
	}

	ra := *coords.RA
	if ra < MinRA || ra > MaxRA {
		return nil, false
	}
	return &body, true
}

func respond(status int, body any) (*endpoint.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		// Bodies are fixed shapes; a marshal failure is a programming error.
		return &endpoint.Response{StatusCode: http.StatusInternalServerError}, nil
	}
	return &endpoint.Response{StatusCode: status, Body: data}, nil
}
