package middleware

import (
	"net/http"
	"time"

	"github.com/Hrishith30/marketplace/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
)

// RequestMetrics records per-route request latency.
func RequestMetrics(m *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			m.APILatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}
