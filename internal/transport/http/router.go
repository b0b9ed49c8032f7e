// Package httptransport is the thin HTTP layer. Handlers delegate to domain
// services without embedding business logic so transport concerns remain
// isolated.
package httptransport

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"permitdesk/internal/platform/metrics"
	"permitdesk/internal/platform/middleware"
	"permitdesk/internal/transport/http/shared"
)

// DefaultRequestTimeout bounds request handling end to end.
const DefaultRequestTimeout = 30 * time.Second

// NewRouter wires the public endpoints behind the shared middleware stack.
// Health and metrics stay outside authentication; everything under /owners
// requires a valid bearer token.
func NewRouter(
	verifications *VerificationHandler,
	certificates *CertificateHandler,
	validator middleware.TokenValidator,
	logger *slog.Logger,
	m *metrics.Metrics,
	health http.HandlerFunc,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	if m != nil {
		r.Use(instrument(m))
	}
	r.Use(middleware.Timeout(DefaultRequestTimeout))
	r.Use(middleware.ContentTypeJSON)

	if health != nil {
		r.Get("/healthz", health)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(validator, logger))
		verifications.Register(r)
		certificates.Register(r)
	})

	return r
}

// instrument records request counts and latency per route pattern.
func instrument(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			endpoint := chi.RouteContext(r.Context()).RoutePattern()
			if endpoint == "" {
				endpoint = r.URL.Path
			}
			m.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
			m.RequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
			if rec.status == http.StatusUnauthorized {
				m.AuthFailures.Inc()
			}
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Health returns a liveness handler that reports each dependency check.
func Health(checks map[string]func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := make(map[string]string, len(checks)+1)
		for name, check := range checks {
			if err := check(); err != nil {
				status = http.StatusServiceUnavailable
				body[name] = err.Error()
				continue
			}
			body[name] = "ok"
		}
		body["status"] = "ok"
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		shared.WriteJSON(w, status, body)
	}
}
