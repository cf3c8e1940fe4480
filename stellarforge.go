// Package stellarforge is the Go SDK for the StellarForge star catalog API.
//
// The SDK wraps the register endpoint (POST /v1/stars): it builds the
// nested request body from flat arguments, calls the endpoint and maps the
// status code to a flattened Star or to a typed error.
//
// Basic usage:
//
//	client, err := stellarforge.New(os.Getenv("STELLARFORGE_API_KEY"),
//	    stellarforge.WithBaseURL("https://api.stellarforge.example"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	star, err := client.RegisterNewStar(ctx, "Provisional-2025-A", 5.67, -32.11, "Vera C. Rubin Observatory")
//	switch {
//	case errors.Is(err, stellarforge.ErrAuthentication):
//	    // rotate the key
//	case errors.Is(err, stellarforge.ErrInvalidInput):
//	    // fix the coordinates
//	case err != nil:
//	    return err
//	}
//	fmt.Println(star.ID())
//
// Without WithBaseURL or WithEndpoint the client talks to the in-process
// mock endpoint, which is convenient for local development and tests.
package stellarforge

import (
	"github.com/stellarforge/stellarforge-go/endpoints/mock"
	"github.com/stellarforge/stellarforge-go/pkg/endpoint"
	"github.com/stellarforge/stellarforge-go/pkg/errors"
	"github.com/stellarforge/stellarforge-go/pkg/types"
)

// Version is the current version of the SDK.
const Version = "1.0.0"

// Re-export result and request types.
type (
	// Star is a registered star, flattened from the API response.
	Star = types.Star

	// RegistrationRequest is the nested body sent to POST /v1/stars.
	RegistrationRequest = types.RegistrationRequest

	// Coordinates is the nested position block of a registration.
	Coordinates = types.Coordinates
)

// Re-export the endpoint seam.
type (
	// Endpoint executes a request against the service (real or mock).
	Endpoint = endpoint.Endpoint

	// EndpointFunc adapts a function to Endpoint.
	EndpointFunc = endpoint.Func

	// EndpointRequest is a single call to the service.
	EndpointRequest = endpoint.Request

	// EndpointResponse is the status and raw body returned by the service.
	EndpointResponse = endpoint.Response
)

// Re-export error types.
type (
	// Error is the concrete type of every error returned by the SDK.
	Error = errors.StellarForgeError

	// ErrorKind identifies the failure kind of an Error.
	ErrorKind = errors.Kind
)

// Re-export error kinds.
const (
	KindUnexpected         = errors.KindUnexpected
	KindAuthentication     = errors.KindAuthentication
	KindInvalidInput       = errors.KindInvalidInput
	KindServiceUnavailable = errors.KindServiceUnavailable
)

// Sentinels for errors.Is. ErrStellarForge matches every SDK failure.
var (
	ErrStellarForge       = errors.ErrStellarForge
	ErrAuthentication     = errors.ErrAuthentication
	ErrInvalidInput       = errors.ErrInvalidInput
	ErrServiceUnavailable = errors.ErrServiceUnavailable
)

// Sentinel API keys understood by the mock endpoint.
const (
	MockInvalidAPIKey     = mock.InvalidAPIKey
	MockServerErrorAPIKey = mock.ServerErrorAPIKey
)
