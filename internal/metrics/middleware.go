package metrics

import (
	"net/http"
	"strconv"
	"time"
)

// RecordRegistration records one registration attempt.
func RecordRegistration(statusCode int) {
	RegistrationsTotal.WithLabelValues(OutcomeFor(statusCode), strconv.Itoa(statusCode)).Inc()
}

// OutcomeFor maps a registration status code to an outcome label.
func OutcomeFor(statusCode int) string {
	switch {
	case statusCode == http.StatusCreated:
		return OutcomeCreated
	case statusCode == http.StatusUnauthorized:
		return OutcomeAuthentication
	case statusCode == http.StatusBadRequest:
		return OutcomeInvalidInput
	case statusCode == http.StatusTooManyRequests:
		return OutcomeRateLimited
	case statusCode >= 500:
		return OutcomeServerError
	default:
		return OutcomeOther
	}
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware returns an HTTP middleware that records request count and
// latency under the given route label.
func Middleware(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(recorder, r)

		HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(recorder.statusCode)).Inc()
		HTTPRequestLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
