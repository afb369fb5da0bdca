// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// unmatchedRoute labels requests no route claimed, so probing clients cannot
// grow the label set.
const unmatchedRoute = "unmatched"

var (
	httpRequests = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "chess_a2a_http_request_duration_seconds",
		Help: "Time to serve one HTTP request, by route and status class",
		// Move requests include engine thinking time.
		Buckets: []float64{.005, .025, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "route", "class"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chess_a2a_http_requests_in_flight",
		Help: "HTTP requests currently being served",
	})

	httpResponseBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chess_a2a_http_response_size_bytes",
		Help:    "HTTP response body sizes; board images dominate the upper buckets",
		Buckets: prometheus.ExponentialBuckets(64, 4, 8),
	}, []string{"route"})
)

// Metrics records request latency, concurrency and response size. Routes are
// labelled by their chi pattern, statuses by class ("2xx", "4xx").
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			httpInFlight.Inc()
			defer httpInFlight.Dec()

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			route := routePattern(r)
			httpRequests.WithLabelValues(r.Method, route, statusClass(rec.code())).
				Observe(time.Since(start).Seconds())
			if rec.bytes > 0 {
				httpResponseBytes.WithLabelValues(route).Observe(float64(rec.bytes))
			}
		})
	}
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// statusRecorder remembers the first status written and counts body bytes.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }

func (s *statusRecorder) code() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}
