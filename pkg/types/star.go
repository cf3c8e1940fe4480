// Package types defines the wire shapes of the StellarForge register endpoint
// and the flattened Star result returned to SDK users.
package types

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// TimestampLayout is the format of registered_at values.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Coordinates is the nested position block of a registration.
type Coordinates struct {
	RA  float64 `json:"ra"`
	Dec float64 `json:"dec"`
}

// MarshalJSON writes non-finite members as "NaN", "+Inf" or "-Inf" strings.
func (c Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		RA  coordinate `json:"ra"`
		Dec coordinate `json:"dec"`
	}{coordinate(c.RA), coordinate(c.Dec)})
}

// coordinate is a float64 that survives JSON when it is NaN or infinite.
type coordinate float64

func (c coordinate) MarshalJSON() ([]byte, error) {
	f := float64(c)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return json.Marshal(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return json.Marshal(f)
}

func (c *coordinate) UnmarshalJSON(data []byte) error {
	var f float64
	if len(data) == 0 || data[0] != '"' {
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*c = coordinate(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !(math.IsNaN(f) || math.IsInf(f, 0)) {
		return fmt.Errorf("invalid coordinate %q", s)
	}
	*c = coordinate(f)
	return nil
}

// RegistrationRequest is the body of POST /v1/stars.
type RegistrationRequest struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	ObservedBy  string      `json:"observed_by"`
}

// NewRegistrationRequest nests the flat arguments into the request shape.
func NewRegistrationRequest(name string, ra, dec float64, observedBy string) *RegistrationRequest {
	return &RegistrationRequest{
		Name: name,
		Coordinates: Coordinates{
			RA:  ra,
			Dec: dec,
		},
		ObservedBy: observedBy,
	}
}

// ResponseCoordinates mirrors Coordinates with optional members.
type ResponseCoordinates struct {
	RA  *float64 `json:"ra,omitempty"`
	Dec *float64 `json:"dec,omitempty"`
}

type responseCoordinatesJSON struct {
	RA  *coordinate `json:"ra,omitempty"`
	Dec *coordinate `json:"dec,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (c ResponseCoordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal(responseCoordinatesJSON{
		RA:  (*coordinate)(c.RA),
		Dec: (*coordinate)(c.Dec),
	})
}

// UnmarshalJSON accepts numbers and the non-finite strings written by
// Coordinates.
func (c *ResponseCoordinates) UnmarshalJSON(data []byte) error {
	var raw responseCoordinatesJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.RA = (*float64)(raw.RA)
	c.Dec = (*float64)(raw.Dec)
	return nil
}

// RegistrationResponse is the 201 body of POST /v1/stars.
// All members are optional so that absent keys stay observable.
type RegistrationResponse struct {
	StarID       *string              `json:"star_id,omitempty"`
	Name         *string              `json:"name,omitempty"`
	Coordinates  *ResponseCoordinates `json:"coordinates,omitempty"`
	ObservedBy   *string              `json:"observed_by,omitempty"`
	RegisteredAt *string              `json:"registered_at,omitempty"`
}

// ParseRegistrationResponse decodes a 201 body.
func ParseRegistrationResponse(body []byte) (*RegistrationResponse, error) {
	var resp RegistrationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal registration response: %w", err)
	}
	return &resp, nil
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ParseErrorResponse decodes an error body. Undecodable bodies yield an
// empty ErrorResponse so that callers fall back to default messages.
func ParseErrorResponse(body []byte) ErrorResponse {
	var resp ErrorResponse
	if len(body) == 0 {
		return resp
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return ErrorResponse{}
	}
	return resp
}

// Field names of a Star, as they appear in the response body.
const (
	FieldID           = "star_id"
	FieldName         = "name"
	FieldRA           = "coordinates.ra"
	FieldDec          = "coordinates.dec"
	FieldObservedBy   = "observed_by"
	FieldRegisteredAt = "registered_at"
)

var starFields = []string{FieldID, FieldName, FieldRA, FieldDec, FieldObservedBy, FieldRegisteredAt}

// Star is a registered star, flattened from the nested response body.
// A Star is immutable once constructed.
type Star struct {
	id           string
	name         string
	ra           float64
	dec          float64
	observedBy   string
	registeredAt string

	missing map[string]bool
}

// NewStar flattens a registration response. Absent members produce zero
// values and are reported by Missing; NewStar never fails.
func NewStar(resp *RegistrationResponse) *Star {
	s := &Star{missing: make(map[string]bool)}
	if resp == nil {
		resp = &RegistrationResponse{}
	}

	s.id = deref(resp.StarID, FieldID, s.missing)
	s.name = deref(resp.Name, FieldName, s.missing)
	s.observedBy = deref(resp.ObservedBy, FieldObservedBy, s.missing)
	s.registeredAt = deref(resp.RegisteredAt, FieldRegisteredAt, s.missing)

	coords := resp.Coordinates
	if coords == nil {
		coords = &ResponseCoordinates{}
	}
	s.ra = deref(coords.RA, FieldRA, s.missing)
	s.dec = deref(coords.Dec, FieldDec, s.missing)

	return s
}

func deref[T any](v *T, field string, missing map[string]bool) T {
	if v == nil {
		missing[field] = true
		var zero T
		return zero
	}
	return *v
}

// ID returns the identifier assigned by the service.
func (s *Star) ID() string { return s.id }

// Name returns the star name.
func (s *Star) Name() string { return s.name }

// RA returns the right ascension in hours.
func (s *Star) RA() float64 { return s.ra }

// Dec returns the declination in degrees.
func (s *Star) Dec() float64 { return s.dec }

// ObservedBy returns the observer.
func (s *Star) ObservedBy() string { return s.observedBy }

// RegisteredAt returns the raw registration timestamp.
func (s *Star) RegisteredAt() string { return s.registeredAt }

// RegisteredTime parses RegisteredAt.
func (s *Star) RegisteredTime() (time.Time, error) {
	return time.Parse(TimestampLayout, s.registeredAt)
}

// Has reports whether field was present in the response body.
func (s *Star) Has(field string) bool {
	return !s.missing[field]
}

// Missing returns the absent fields in body order.
func (s *Star) Missing() []string {
	var out []string
	for _, f := range starFields {
		if s.missing[f] {
			out = append(out, f)
		}
	}
	return out
}

// String implements fmt.Stringer.
func (s *Star) String() string {
	return fmt.Sprintf("Star{ID=%s, Name=%q}", s.id, s.name)
}

type starJSON struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	RA           coordinate `json:"ra"`
	Dec          coordinate `json:"dec"`
	ObservedBy   string     `json:"observed_by"`
	RegisteredAt string     `json:"registered_at"`
}

// MarshalJSON writes the flat record.
func (s *Star) MarshalJSON() ([]byte, error) {
	return json.Marshal(starJSON{
		ID:           s.id,
		Name:         s.name,
		RA:           coordinate(s.ra),
		Dec:          coordinate(s.dec),
		ObservedBy:   s.observedBy,
		RegisteredAt: s.registeredAt,
	})
}

// Response rebuilds the nested 201 body for this star.
func (s *Star) Response() *RegistrationResponse {
	ra, dec := s.ra, s.dec
	id, name, observedBy, registeredAt := s.id, s.name, s.observedBy, s.registeredAt
	return &RegistrationResponse{
		StarID:       &id,
		Name:         &name,
		Coordinates:  &ResponseCoordinates{RA: &ra, Dec: &dec},
		ObservedBy:   &observedBy,
		RegisteredAt: &registeredAt,
	}
}
