// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package daemon runs the agent's HTTP servers and owns the runtime
// lifecycle around them: config reload, signals and graceful shutdown.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/chess-a2a/internal/config"
)

// stopBudget bounds the whole stop sequence once Start decides to stop.
const stopBudget = 30 * time.Second

// ShutdownHook releases one component. Hooks run after the servers have
// drained, newest first.
type ShutdownHook func(ctx context.Context) error

// Manager serves the agent until its context ends or a listener fails.
type Manager interface {
	// Start serves and blocks; it returns after the stop sequence ran.
	Start(ctx context.Context) error
	// Shutdown drains the servers, then runs the hooks. Repeated calls
	// after the first return nil.
	Shutdown(ctx context.Context) error
	RegisterShutdownHook(name string, hook ShutdownHook)
}

type namedHook struct {
	name string
	fn   ShutdownHook
}

// listener is one HTTP server the manager drives.
type listener struct {
	name string
	srv  *http.Server
}

type manager struct {
	cfg    config.ServerConfig
	deps   Deps
	logger zerolog.Logger

	mu        sync.Mutex
	state     runState
	listeners []listener
	hooks     []namedHook
}

type runState int

const (
	stateIdle runState = iota
	stateRunning
	stateStopped
)

// NewManager validates deps and returns an idle manager.
func NewManager(cfg config.ServerConfig, deps Deps) (Manager, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}
	return &manager{
		cfg:    cfg,
		deps:   deps,
		logger: deps.Logger.With().Str("component", "manager").Logger(),
	}, nil
}

// listenersFor builds the API server and, when configured, the metrics
// server. The API server comes first so it drains first.
func (m *manager) listenersFor() []listener {
	out := []listener{{name: "api", srv: &http.Server{
		Addr:              m.cfg.ListenAddr,
		Handler:           m.deps.APIHandler,
		ReadTimeout:       m.cfg.ReadTimeout,
		ReadHeaderTimeout: m.cfg.ReadTimeout / 2,
		WriteTimeout:      m.cfg.WriteTimeout,
		IdleTimeout:       m.cfg.IdleTimeout,
		MaxHeaderBytes:    m.cfg.MaxHeaderBytes,
	}}}
	if m.deps.MetricsHandler != nil && m.deps.MetricsAddr != "" {
		out = append(out, listener{name: "metrics", srv: &http.Server{
			Addr:              m.deps.MetricsAddr,
			Handler:           m.deps.MetricsHandler,
			ReadHeaderTimeout: m.cfg.ReadTimeout / 2,
		}})
	}
	return out
}

func (m *manager) Start(ctx context.Context) error {
	if ctx == nil {
		return errors.New("start context is nil")
	}

	m.mu.Lock()
	if m.state != stateIdle {
		m.mu.Unlock()
		return errors.New("manager already started")
	}
	m.state = stateRunning
	m.listeners = m.listenersFor()
	listeners := m.listeners
	m.mu.Unlock()

	m.logger.Info().
		Str("listen", m.cfg.ListenAddr).
		Dur("write_timeout", m.cfg.WriteTimeout).
		Dur("shutdown_timeout", m.cfg.ShutdownTimeout).
		Msg("starting agent servers")

	failed := make(chan error, len(listeners))
	for _, l := range listeners {
		go m.serve(l, failed)
	}

	var cause error
	select {
	case cause = <-failed:
		m.logger.Error().Err(cause).Msg("listener failed, stopping")
	case <-ctx.Done():
		m.logger.Info().Msg("stop requested")
	}

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopBudget)
	defer cancel()
	err := m.Shutdown(stopCtx)
	switch {
	case cause != nil && err != nil:
		return fmt.Errorf("server error and shutdown failure: %w", errors.Join(cause, err))
	case cause != nil:
		return cause
	default:
		return err
	}
}

func (m *manager) serve(l listener, failed chan<- error) {
	m.logger.Info().Str("server", l.name).Str("addr", l.srv.Addr).Msg("listening")
	err := l.srv.ListenAndServe()
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return
	}
	m.logger.Error().Err(err).Str("server", l.name).Str("event", l.name+".server.failed").Msg("server failed")
	failed <- fmt.Errorf("%s server: %w", l.name, err)
}

func (m *manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		return errors.New("shutdown context is nil")
	}

	m.mu.Lock()
	switch m.state {
	case stateIdle:
		m.mu.Unlock()
		return ErrManagerNotStarted
	case stateStopped:
		m.mu.Unlock()
		return nil
	}
	m.state = stateStopped
	listeners := m.listeners
	hooks := slices.Clone(m.hooks)
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	// Servers drain before any hook closes a store an in-flight move needs.
	for _, l := range listeners {
		if err := l.srv.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s server shutdown: %w", l.name, err))
		}
	}
	for _, h := range slices.Backward(hooks) {
		start := time.Now()
		err := h.fn(ctx)
		evt := m.logger.Debug()
		if err != nil {
			evt = m.logger.Error().Err(err)
			errs = append(errs, fmt.Errorf("hook %s: %w", h.name, err))
		}
		evt.Str("hook", h.name).Dur("duration", time.Since(start)).Msg("shutdown hook finished")
	}

	if err := errors.Join(errs...); err != nil {
		m.logger.Error().Int("error_count", len(errs)).Msg("stopped with errors")
		return fmt.Errorf("shutdown errors: %w", err)
	}
	m.logger.Info().Msg("stopped cleanly")
	return nil
}

func (m *manager) RegisterShutdownHook(name string, hook ShutdownHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, namedHook{name: name, fn: hook})
}
