package stellarforge

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sferrors "github.com/stellarforge/stellarforge-go/pkg/errors"
)

func staticEndpoint(status int, body string) Endpoint {
	return EndpointFunc(func(context.Context, *EndpointRequest) (*EndpointResponse, error) {
		return &EndpointResponse{StatusCode: status, Body: []byte(body)}, nil
	})
}

func TestMapResponse_StatusTable(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    ErrorKind
		wantMessage string
	}{
		{"401 with message", 401, `{"error":"Authentication Failed","message":"Invalid API Key provided."}`, KindAuthentication, "Invalid API Key provided."},
		{"401 without message", 401, `{"error":"Authentication Failed"}`, KindAuthentication, sferrors.DefaultAuthenticationMessage},
		{"400 with message", 400, `{"error":"Invalid Input","message":"ra out of range"}`, KindInvalidInput, "ra out of range"},
		{"400 non-json body", 400, `bad request`, KindInvalidInput, sferrors.DefaultInvalidInputMessage},
		{"500 with message", 500, `{"message":"db down"}`, KindServiceUnavailable, "db down"},
		{"502 empty body", 502, ``, KindServiceUnavailable, sferrors.DefaultServiceUnavailableMessage},
		{"503", 503, `{"message":"maintenance"}`, KindServiceUnavailable, "maintenance"},
		{"599", 599, `{}`, KindServiceUnavailable, sferrors.DefaultServiceUnavailableMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, validKey, WithEndpoint(staticEndpoint(tt.status, tt.body)))

			star, err := client.RegisterNewStar(context.Background(), "x", 1, 1, "y")
			require.Nil(t, star)
			require.Error(t, err)

			var sfErr *Error
			require.True(t, stderrors.As(err, &sfErr))
			assert.Equal(t, tt.wantKind, sfErr.Kind)
			assert.Equal(t, tt.wantMessage, sfErr.Message)
			assert.Equal(t, tt.status, sfErr.StatusCode)
		})
	}
}

func TestMapResponse_UnexpectedStatusEmbedsStatusAndBody(t *testing.T) {
	for _, status := range []int{200, 202, 204, 301, 403, 404, 409, 418, 429, 499} {
		body := `{"error":"Other","message":"something"}`
		client := newTestClient(t, validKey, WithEndpoint(staticEndpoint(status, body)))

		_, err := client.RegisterNewStar(context.Background(), "x", 1, 1, "y")

		var sfErr *Error
		require.True(t, stderrors.As(err, &sfErr), "status %d", status)
		assert.Equal(t, KindUnexpected, sfErr.Kind, "status %d", status)
		assert.Contains(t, sfErr.Message, strconv.Itoa(status))
		assert.Contains(t, sfErr.Message, body)
		assert.Equal(t, []byte(body), sfErr.Body)

		for _, sentinel := range []error{ErrAuthentication, ErrInvalidInput, ErrServiceUnavailable} {
			assert.NotErrorIs(t, err, sentinel)
		}
	}
}

func TestMapResponse_MalformedCreatedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"not json", `<html>`, "malformed registration response"},
		{"missing star_id", `{"name":"x","coordinates":{"ra":1,"dec":1},"observed_by":"y","registered_at":"2025-01-01T00:00:00Z"}`, "star_id"},
		{"missing registered_at", `{"star_id":"SF-1000-1000","name":"x","coordinates":{"ra":1,"dec":1},"observed_by":"y"}`, "registered_at"},
		{"empty object", `{}`, "star_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, validKey, WithEndpoint(staticEndpoint(http.StatusCreated, tt.body)))

			_, err := client.RegisterNewStar(context.Background(), "x", 1, 1, "y")
			require.Error(t, err)
			assert.Equal(t, KindUnexpected, sferrors.KindOf(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMapResponse_CreatedWithOptionalFieldsMissing(t *testing.T) {
	body := `{"star_id":"SF-1000-2000","registered_at":"2025-01-01T00:00:00Z"}`
	client := newTestClient(t, validKey, WithEndpoint(staticEndpoint(http.StatusCreated, body)))

	star, err := client.RegisterNewStar(context.Background(), "x", 1, 1, "y")
	require.NoError(t, err)
	assert.Equal(t, "SF-1000-2000", star.ID())
	assert.Equal(t, "", star.Name())
	assert.Contains(t, star.Missing(), "name")
}
