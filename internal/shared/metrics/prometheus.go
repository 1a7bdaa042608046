package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Dashboard HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiosk_http_requests_total",
			Help: "Total number of dashboard HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kiosk_http_request_duration_seconds",
			Help:    "Dashboard HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "route"},
	)

	// Outbound calls to the clinic API
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiosk_api_requests_total",
			Help: "Total number of requests sent to the clinic API",
		},
		[]string{"method", "resource", "outcome"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kiosk_api_request_duration_seconds",
			Help:    "Clinic API request duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "resource"},
	)

	apiRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiosk_api_retries_total",
			Help: "Connection level retries against the clinic API",
		},
		[]string{"method"},
	)

	// Pollers
	pollTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiosk_poll_ticks_total",
			Help: "Poll ticks by poller and outcome",
		},
		[]string{"poller", "outcome"},
	)

	// Front desk activity
	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiosk_person_searches_total",
			Help: "Person searches by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	registrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kiosk_visit_registrations_total",
			Help: "Visit registrations by outcome",
		},
		[]string{"outcome"},
	)
)

// Outcome labels.
const (
	OutcomeOK        = "ok"
	OutcomeError     = "error"
	OutcomeNotFound  = "not_found"
	OutcomePanic     = "panic"
	OutcomeTransport = "transport"
	OutcomeRejected  = "rejected"
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records dashboard request counts and durations by route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		route := routePattern(r)
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// routePattern keeps label cardinality bounded: /api/rrn/{rrn} instead of
// one series per RRN.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// Resource reduces an API path to its first segment ("persons/search" -> "persons").
func Resource(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}

// RecordAPIRequest records one outbound call to the clinic API
func RecordAPIRequest(method, resource, outcome string, duration time.Duration) {
	apiRequestsTotal.WithLabelValues(method, resource, outcome).Inc()
	apiRequestDuration.WithLabelValues(method, resource).Observe(duration.Seconds())
}

// RecordAPIRetry records a connection level retry
func RecordAPIRetry(method string) {
	apiRetriesTotal.WithLabelValues(method).Inc()
}

// RecordPollTick records the outcome of one poll tick
func RecordPollTick(poller, outcome string) {
	pollTicksTotal.WithLabelValues(poller, outcome).Inc()
}

// RecordSearch records a person search
func RecordSearch(mode, outcome string) {
	searchesTotal.WithLabelValues(mode, outcome).Inc()
}

// RecordRegistration records a visit registration attempt
func RecordRegistration(outcome string) {
	registrationsTotal.WithLabelValues(outcome).Inc()
}
