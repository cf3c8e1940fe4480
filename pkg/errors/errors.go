// Package errors defines the typed failures returned by the StellarForge SDK.
// Every non-2xx answer from the register endpoint is mapped to one of these kinds.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind identifies one member of the closed set of SDK failure kinds.
type Kind string

// Failure kinds. KindUnexpected is the base kind every other kind specializes.
const (
	KindUnexpected         Kind = "stellarforge_error"
	KindAuthentication     Kind = "authentication_error"
	KindInvalidInput       Kind = "invalid_input_error"
	KindServiceUnavailable Kind = "service_unavailable_error"
)

// Default messages used when the error body carries no "message" field.
const (
	DefaultAuthenticationMessage     = "Authentication Failed."
	DefaultInvalidInputMessage       = "Invalid input data."
	DefaultServiceUnavailableMessage = "API Server Error."
)

// Sentinels for errors.Is. ErrStellarForge matches every SDK failure.
var (
	ErrStellarForge       = &StellarForgeError{Kind: KindUnexpected}
	ErrAuthentication     = &StellarForgeError{Kind: KindAuthentication}
	ErrInvalidInput       = &StellarForgeError{Kind: KindInvalidInput}
	ErrServiceUnavailable = &StellarForgeError{Kind: KindServiceUnavailable}
)

// StellarForgeError is the single concrete error type of the SDK.
// It carries enough information for handling, logging and diagnosis.
type StellarForgeError struct {
	Kind       Kind   `json:"type"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	// Body holds the raw response body for unexpected statuses.
	Body      []byte `json:"-"`
	Retryable bool   `json:"-"`

	cause error
}

// Error implements the error interface.
func (e *StellarForgeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] %s (code=%d)", e.Kind, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *StellarForgeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is reports whether target is a sentinel of the same kind.
// Every kind also matches the base sentinel ErrStellarForge.
func (e *StellarForgeError) Is(target error) bool {
	t, ok := target.(*StellarForgeError)
	if !ok || e == nil || t == nil {
		return false
	}
	if t == ErrStellarForge {
		return true
	}
	return t.Kind == e.Kind && isSentinel(t)
}

func isSentinel(e *StellarForgeError) bool {
	return e == ErrAuthentication || e == ErrInvalidInput || e == ErrServiceUnavailable
}

// HTTPStatusCode returns the status code that produced the error,
// or 500 when none is known.
func (e *StellarForgeError) HTTPStatusCode() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// NewAuthenticationError creates an authentication error (401).
func NewAuthenticationError(message string) *StellarForgeError {
	return &StellarForgeError{
		Kind:       KindAuthentication,
		StatusCode: http.StatusUnauthorized,
		Message:    orDefault(message, DefaultAuthenticationMessage),
	}
}

// NewInvalidInputError creates an invalid input error (400).
func NewInvalidInputError(message string) *StellarForgeError {
	return &StellarForgeError{
		Kind:       KindInvalidInput,
		StatusCode: http.StatusBadRequest,
		Message:    orDefault(message, DefaultInvalidInputMessage),
	}
}

// NewServiceUnavailableError creates a service unavailable error for a 5xx status.
// A non-5xx status is recorded as 500.
func NewServiceUnavailableError(statusCode int, message string) *StellarForgeError {
	if statusCode < 500 {
		statusCode = http.StatusInternalServerError
	}
	return &StellarForgeError{
		Kind:       KindServiceUnavailable,
		StatusCode: statusCode,
		Message:    orDefault(message, DefaultServiceUnavailableMessage),
		Retryable:  true,
	}
}

// NewUnexpectedError creates a base error for a status code outside the
// documented contract. The raw body is embedded in the message.
func NewUnexpectedError(statusCode int, body []byte) *StellarForgeError {
	return &StellarForgeError{
		Kind:       KindUnexpected,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("API returned unexpected status code %d: %s", statusCode, body),
		Body:       append([]byte(nil), body...),
	}
}

// Wrap creates a base error around a cause, e.g. a transport or decode failure.
func Wrap(cause error, statusCode int, message string) *StellarForgeError {
	if cause != nil {
		message = message + ": " + cause.Error()
	}
	return &StellarForgeError{
		Kind:       KindUnexpected,
		StatusCode: statusCode,
		Message:    message,
		cause:      cause,
	}
}

// KindOf returns the kind of err, or "" when err is not an SDK error.
func KindOf(err error) Kind {
	var sfErr *StellarForgeError
	if stderrors.As(err, &sfErr) {
		return sfErr.Kind
	}
	return ""
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
