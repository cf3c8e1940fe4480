// Package endpoint defines the seam between the StellarForge client and the
// service it talks to. The in-process mock and the HTTP transport both
// implement Endpoint, so the client's status mapping never changes when the
// transport does.
package endpoint

import (
	"context"
	"net/http"
)

// Wire constants of the register operation.
const (
	PathStars         = "/v1/stars"
	HeaderAPIKey      = "X-Api-Key" // #nosec G101 -- header name, not a credential.
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// Request is a single call to the service.
type Request struct {
	Method  string
	Path    string
	Headers http.Header
	Body    []byte
}

// Response is the service's answer: a status code and a raw JSON body.
type Response struct {
	StatusCode int
	Body       []byte
}

// Endpoint executes a request and returns the status and body.
// A non-nil error means no response was obtained at all; HTTP error
// statuses are reported through Response, never through error.
type Endpoint interface {
	Call(ctx context.Context, req *Request) (*Response, error)
}

// Func adapts a function to the Endpoint interface.
type Func func(ctx context.Context, req *Request) (*Response, error)

// Call implements Endpoint.
func (f Func) Call(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Closer is implemented by endpoints holding resources such as idle connections.
type Closer interface {
	Close() error
}
