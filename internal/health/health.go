// SPDX-License-Identifier: MIT

// Package health answers the container probes. Liveness only proves the
// process can respond; readiness asks each registered dependency.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/chess-a2a/internal/log"
)

// Status of one dependency or of the agent as a whole.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// severity orders statuses so the worst one wins.
func (s Status) severity() int {
	switch s {
	case StatusUnhealthy:
		return 2
	case StatusDegraded:
		return 1
	default:
		return 0
	}
}

// DefaultCheckTimeout bounds each checker.
const DefaultCheckTimeout = 2 * time.Second

// CheckResult is one dependency's answer.
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	// LatencyMS is filled in by the manager.
	LatencyMS int64 `json:"latency_ms"`
}

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status    Status                 `json:"status"`
	Version   string                 `json:"version,omitempty"`
	Uptime    int64                  `json:"uptime_seconds"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// ReadinessResponse is the /readyz body.
type ReadinessResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// Checker probes one dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// Manager holds the registered checkers.
type Manager struct {
	version   string
	startedAt time.Time
	timeout   time.Duration

	mu       sync.RWMutex
	checkers []Checker
}

func NewManager(version string) *Manager {
	return &Manager{version: version, startedAt: time.Now(), timeout: DefaultCheckTimeout}
}

// RegisterChecker adds c; its name keys the result in every response.
func (m *Manager) RegisterChecker(c Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, c)
}

func (m *Manager) snapshot() []Checker {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.checkers)
}

// evaluate runs the checkers in parallel, each under its own timeout, and
// returns the per-checker results with the worst status among them. No
// checkers yields healthy and a nil map.
func (m *Manager) evaluate(ctx context.Context, checkers []Checker) (map[string]CheckResult, Status) {
	if len(checkers) == 0 {
		return nil, StatusHealthy
	}
	results := make([]CheckResult, len(checkers))
	var g errgroup.Group
	for i, c := range checkers {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, m.timeout)
			defer cancel()
			start := time.Now()
			results[i] = c.Check(cctx)
			results[i].LatencyMS = time.Since(start).Milliseconds()
			return nil
		})
	}
	_ = g.Wait()

	checks := make(map[string]CheckResult, len(checkers))
	worst := StatusHealthy
	for i, c := range checkers {
		checks[c.Name()] = results[i]
		if results[i].Status.severity() > worst.severity() {
			worst = results[i].Status
		}
	}
	return checks, worst
}

// Health reports liveness. The status is always healthy unless verbose
// asks for the dependency checks too.
func (m *Manager) Health(ctx context.Context, verbose bool) HealthResponse {
	resp := HealthResponse{
		Status:    StatusHealthy,
		Version:   m.version,
		Uptime:    int64(time.Since(m.startedAt).Seconds()),
		Timestamp: time.Now(),
	}
	if verbose {
		resp.Checks, resp.Status = m.evaluate(ctx, m.snapshot())
	}
	return resp
}

// Ready reports readiness. A degraded dependency, such as an optional
// cache or an open engine breaker, leaves the agent ready; an unhealthy one
// does not.
func (m *Manager) Ready(ctx context.Context) ReadinessResponse {
	checks, status := m.evaluate(ctx, m.snapshot())
	return ReadinessResponse{
		Ready:     status != StatusUnhealthy,
		Status:    status,
		Timestamp: time.Now(),
		Checks:    checks,
	}
}

// ServeHealth answers /healthz, always with 200.
func (m *Manager) ServeHealth(w http.ResponseWriter, r *http.Request) {
	resp := m.Health(r.Context(), r.URL.Query().Get("verbose") == "true")
	writeJSON(w, r, http.StatusOK, resp)
}

// ServeReady answers /readyz with 200 or 503.
func (m *Manager) ServeReady(w http.ResponseWriter, r *http.Request) {
	resp := m.Ready(r.Context())
	code := http.StatusOK
	if !resp.Ready {
		code = http.StatusServiceUnavailable
		logger := log.WithComponentFromContext(r.Context(), "readiness")
		evt := logger.Warn().Str("event", "readiness.failed").Str("status", string(resp.Status))
		for name, c := range resp.Checks {
			if c.Status == StatusUnhealthy {
				evt = evt.Str("failing", name)
				break
			}
		}
		evt.Msg("readiness check failed")
	}
	writeJSON(w, r, code, resp)
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger := log.WithComponentFromContext(r.Context(), "health")
		logger.Error().Err(err).Str("event", "health.encode_error").Msg("failed to encode probe response")
	}
}
