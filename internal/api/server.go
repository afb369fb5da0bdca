// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api exposes the agent over HTTP: the JSON-RPC endpoint, the agent
// card, published artifacts and health probes.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/chess-a2a/internal/a2a"
	"github.com/ManuGH/chess-a2a/internal/api/middleware"
	"github.com/ManuGH/chess-a2a/internal/artifact"
	"github.com/ManuGH/chess-a2a/internal/config"
	"github.com/ManuGH/chess-a2a/internal/health"
)

// MaxRequestBytes caps one RPC body.
const MaxRequestBytes = 1 << 20

// Handler processes one JSON-RPC body. The dispatcher implements it.
type Handler interface {
	Handle(ctx context.Context, body []byte) *a2a.Response
}

// Deps are the collaborators of the HTTP surface.
type Deps struct {
	RPC    Handler
	Health *health.Manager
	// Blobs serves /artifacts/; nil disables the route.
	Blobs artifact.BlobStore
}

// Server owns the router. It is immutable after New.
type Server struct {
	cfg    config.AppConfig
	deps   Deps
	router chi.Router
}

// New builds the router for cfg.
func New(cfg config.AppConfig, deps Deps) (*Server, error) {
	if deps.RPC == nil {
		return nil, errors.New("api: rpc handler is required")
	}
	if deps.Health == nil {
		deps.Health = health.NewManager(cfg.Version)
	}
	s := &Server{cfg: cfg, deps: deps}
	s.router = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableSecurityHeaders:      true,
		EnableMetrics:              s.cfg.Metrics.Enabled,
		TracingService:             s.tracingService(),
		EnableLogging:              true,
		RateLimitEnabled:           s.cfg.API.RateLimit.Enabled,
		RateLimitRequestsPerMinute: s.cfg.API.RateLimit.RequestsPerMinute,
		RateLimitWhitelist:         s.cfg.API.RateLimit.Whitelist,
	})

	r.Get("/healthz", s.deps.Health.ServeHealth)
	r.Get("/readyz", s.deps.Health.ServeReady)
	r.Get(a2a.WellKnownCardPath, s.handleAgentCard)
	if s.deps.Blobs != nil {
		r.Get(artifact.PathPrefix+"{name}", s.handleArtifact)
	}

	rpcPath := s.cfg.API.RPCPath
	if rpcPath == "" {
		rpcPath = config.DefaultRPCPath
	}
	r.Post(rpcPath, s.handleRPC)
	if rpcPath != "/" {
		r.Post("/", s.handleRPC)
	}
	r.Get("/", s.handleBanner)

	return r
}

func (s *Server) tracingService() string {
	if !s.cfg.Tracing.Enabled {
		return ""
	}
	return s.cfg.LogService
}
