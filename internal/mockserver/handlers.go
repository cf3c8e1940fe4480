package mockserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/stellarforge/stellarforge-go/internal/catalog"
	"github.com/stellarforge/stellarforge-go/internal/metrics"
	"github.com/stellarforge/stellarforge-go/internal/observability"
	"github.com/stellarforge/stellarforge-go/pkg/endpoint"
	"github.com/stellarforge/stellarforge-go/pkg/types"
)

var (
	rateLimitedBody = types.ErrorResponse{
		Error:   "Too Many Requests",
		Message: "Rate limit exceeded for this API key.",
	}
	bodyTooLargeBody = types.ErrorResponse{
		Error:   "Payload Too Large",
		Message: "Request body is too large.",
	}
	catalogErrorBody = types.ErrorResponse{
		Error:   "Internal Error",
		Message: "Catalog read failed.",
	}
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := s.tracer.Start(ctx, "POST "+endpoint.PathStars, trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	logger := observability.WithRequestID(ctx, s.logger)
	apiKey := r.Header.Get(endpoint.HeaderAPIKey)

	if s.limiter != nil && apiKey != "" {
		allowed, err := s.limiter.Check(ctx, apiKey)
		if err != nil {
			logger.Warn("rate limiter backend error", "error", err, "allowed", allowed)
		}
		if !allowed {
			metrics.RateLimitedTotal.Inc()
			metrics.RecordRegistration(http.StatusTooManyRequests)
			observability.RecordStatus(span, http.StatusTooManyRequests)
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, rateLimitedBody)
			return
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, bodyTooLargeBody)
			return
		}
		logger.Warn("read request body failed", "error", err)
		writeJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: "Bad Request", Message: "Could not read request body."})
		return
	}

	resp, err := s.endpoint.Call(ctx, &endpoint.Request{
		Method:  r.Method,
		Path:    r.URL.Path,
		Headers: r.Header.Clone(),
		Body:    body,
	})
	if err != nil || resp == nil {
		logger.Error("register endpoint failed", "error", err)
		observability.RecordError(span, fmt.Errorf("register endpoint: %w", err), "")
		writeJSON(w, http.StatusInternalServerError, types.ErrorResponse{Error: "Internal Error", Message: "Registration failed."})
		return
	}

	metrics.RecordRegistration(resp.StatusCode)
	observability.RecordStatus(span, resp.StatusCode)

	if resp.StatusCode == http.StatusCreated {
		s.store(r, resp.Body, span)
	} else {
		logger.Debug("registration rejected",
			"status", resp.StatusCode,
			"api_key", observability.MaskAPIKey(apiKey),
		)
	}

	w.Header().Set(endpoint.HeaderContentType, endpoint.ContentTypeJSON)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

// store records a successful registration. Catalog failures are logged and
// do not change the response.
func (s *Server) store(r *http.Request, body []byte, span trace.Span) {
	logger := observability.WithRequestID(r.Context(), s.logger)

	parsed, err := types.ParseRegistrationResponse(body)
	if err != nil {
		logger.Error("decode created body", "error", err)
		return
	}
	star := types.NewStar(parsed)
	observability.RecordStarID(span, star.ID())

	if err := s.catalog.Put(r.Context(), star); err != nil {
		metrics.CatalogErrors.WithLabelValues(s.backend, "put").Inc()
		logger.Error("catalog put failed", "star_id", star.ID(), "error", err)
		return
	}
	metrics.StarsStored.WithLabelValues(s.backend).Inc()
	logger.Info("star registered", "star_id", star.ID(), "name", star.Name())
}

func (s *Server) handleGetStar(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	star, err := s.catalog.Get(r.Context(), id)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeJSON(w, http.StatusNotFound, types.ErrorResponse{
			Error:   "Not Found",
			Message: fmt.Sprintf("Star %s not found.", id),
		})
	case err != nil:
		metrics.CatalogErrors.WithLabelValues(s.backend, "get").Inc()
		observability.WithRequestID(r.Context(), s.logger).Error("catalog get failed", "star_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, catalogErrorBody)
	default:
		writeJSON(w, http.StatusOK, star.Response())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.catalog.(Pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			observability.WithRequestID(r.Context(), s.logger).Warn("catalog unhealthy", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(endpoint.HeaderContentType, endpoint.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
