package api

import (
	"net/http"
	"strconv"
	"time"

	"stock-dashboard/observability"

	"github.com/go-chi/chi/v5"
)

// responseWriter wraps http.ResponseWriter to capture status code and response size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	responseSize int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status code
	}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.responseSize += size
	return size, err
}

// MetricsMiddleware records HTTP metrics and a debug access log line for
// each request
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := newResponseWriter(w)

		next.ServeHTTP(wrapped, r)

		// /api/chart/{ticker}, not one label per ticker
		routePattern := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePattern = rctx.RoutePattern()
		}

		duration := time.Since(start)
		statusCode := strconv.Itoa(wrapped.statusCode)

		observability.GetMetrics().RecordHTTPRequest(r.Method, routePattern, statusCode, duration, wrapped.responseSize)
		observability.WithContext(r.Context()).Debug("http request",
			"method", r.Method,
			"route", routePattern,
			"status", wrapped.statusCode,
			"duration", duration,
		)
	})
}
