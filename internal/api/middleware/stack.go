// SPDX-License-Identifier: MIT

// Package middleware provides the HTTP ingress middleware of the agent.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/chess-a2a/internal/log"
)

// StackConfig selects the optional layers of the ingress stack. Recovery
// and request ids are always on.
type StackConfig struct {
	EnableSecurityHeaders bool
	CSP                   string

	EnableMetrics bool
	// TracingService names the server spans; empty disables tracing.
	TracingService string
	EnableLogging  bool

	RateLimitEnabled           bool
	RateLimitRequestsPerMinute int
	RateLimitWhitelist         []string
}

// layers returns the middleware in application order, outermost first.
// Panics are caught before anything else can observe them, and every
// response, rate limited ones included, carries a request id.
func (c StackConfig) layers() []func(http.Handler) http.Handler {
	out := []func(http.Handler) http.Handler{Recoverer, RequestID}
	if c.EnableSecurityHeaders {
		out = append(out, SecurityHeaders(c.CSP))
	}
	if c.EnableMetrics {
		out = append(out, Metrics())
	}
	if c.TracingService != "" {
		out = append(out, OTelHTTP(c.TracingService))
	}
	if c.EnableLogging {
		out = append(out, log.Middleware())
	}
	if c.RateLimitEnabled {
		out = append(out, APIRateLimit(c.RateLimitRequestsPerMinute, c.RateLimitWhitelist))
	}
	return out
}

// NewRouter returns a chi router with the stack applied.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(cfg.layers()...)
	return r
}
