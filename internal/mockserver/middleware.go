package mockserver

import (
	"net/http"
	"time"

	"github.com/stellarforge/stellarforge-go/internal/observability"
	"github.com/stellarforge/stellarforge-go/pkg/endpoint"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		observability.WithRequestID(r.Context(), s.logger).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"api_key", observability.MaskAPIKey(r.Header.Get(endpoint.HeaderAPIKey)),
		)
	})
}
