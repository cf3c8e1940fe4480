package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRequestID(t *testing.T) {
	id1 := GenerateRequestID()
	id2 := GenerateRequestID()

	assert.NotEqual(t, id1, id2)
	_, err := uuid.Parse(id1)
	assert.NoError(t, err)
}

func TestRequestIDFromContext(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))

	ctx := ContextWithRequestID(context.Background(), "test-request-123")
	assert.Equal(t, "test-request-123", RequestIDFromContext(ctx))
}

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		preserve bool
	}{
		{"generates when absent", "", false},
		{"preserves well-formed", "existing-request_id.123", true},
		{"replaces invalid characters", "bad id\n", false},
		{"replaces oversized", strings.Repeat("a", maxRequestIDLen+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured string
			handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured = RequestIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.NotEmpty(t, captured)
			assert.Equal(t, captured, rec.Header().Get(RequestIDHeader))
			if tt.preserve {
				assert.Equal(t, tt.incoming, captured)
			} else {
				assert.NotEqual(t, tt.incoming, captured)
			}
		})
	}
}
