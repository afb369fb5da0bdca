// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/chess-a2a/internal/api"
	"github.com/ManuGH/chess-a2a/internal/artifact"
	"github.com/ManuGH/chess-a2a/internal/cache"
	"github.com/ManuGH/chess-a2a/internal/config"
	"github.com/ManuGH/chess-a2a/internal/daemon"
	"github.com/ManuGH/chess-a2a/internal/dispatch"
	"github.com/ManuGH/chess-a2a/internal/health"
	agentlog "github.com/ManuGH/chess-a2a/internal/log"
	"github.com/ManuGH/chess-a2a/internal/oracle"
	"github.com/ManuGH/chess-a2a/internal/session"
	"github.com/ManuGH/chess-a2a/internal/telemetry"
)

const renderCacheSweep = time.Minute

type namedCloser struct {
	name  string
	close func(context.Context) error
}

// components is the assembled runtime. Closers are kept in creation order
// so shutdown releases them in reverse.
type components struct {
	store      session.Store
	chain      *oracle.Chain
	blobs      artifact.BlobStore
	dispatcher *dispatch.Dispatcher
	health     *health.Manager
	api        *api.Server

	closers []namedCloser
}

func (c *components) onClose(name string, fn func(context.Context) error) {
	c.closers = append(c.closers, namedCloser{name: name, close: fn})
}

func closeErr(fn func() error) func(context.Context) error {
	return func(context.Context) error { return fn() }
}

// buildComponents wires every collaborator for cfg. On error everything
// created so far is closed.
func buildComponents(ctx context.Context, cfg config.AppConfig) (_ *components, err error) {
	c := &components{}
	defer func() {
		if err != nil {
			c.closeAll(context.WithoutCancel(ctx))
		}
	}()

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: cfg.Version,
		ExporterType:   cfg.Tracing.Exporter,
		Endpoint:       cfg.Tracing.Endpoint,
		SamplingRate:   cfg.Tracing.SamplingRate,
	})
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	c.onClose("telemetry", tp.Shutdown)

	c.store, err = session.Open(session.Config{
		Backend:   cfg.Store.Backend,
		Namespace: cfg.Store.Namespace,
		TTL:       cfg.Store.TTL,
		Path:      cfg.Store.Path,
		Redis: session.RedisConfig{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	c.onClose("session_store", closeErr(c.store.Close))

	c.chain, err = oracle.New(oracle.Config{
		Kind:             cfg.Engine.Kind,
		Path:             cfg.Engine.Path,
		Args:             cfg.Engine.Args,
		URL:              cfg.Engine.URL,
		PoolSize:         cfg.Engine.PoolSize,
		Grace:            cfg.Engine.Grace,
		HTTPTimeout:      cfg.Engine.HTTPTimeout,
		RatePerSecond:    cfg.Engine.RatePerSecond,
		Burst:            cfg.Engine.Burst,
		BreakerThreshold: cfg.Engine.BreakerThreshold,
		BreakerReset:     cfg.Engine.BreakerReset,
		Seed:             cfg.Engine.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("move oracle: %w", err)
	}
	c.onClose("oracle", closeErr(c.chain.Close))

	c.health = health.NewManager(cfg.Version)
	c.health.RegisterChecker(health.NewPingChecker("session_store", c.store.Ping))
	c.health.RegisterChecker(health.NewBreakerChecker("oracle", c.chain.Breaker.State))

	opts := dispatch.Options{
		RequestTimeout: cfg.RequestTimeout,
		TimeBudget:     cfg.Engine.TimeBudget,
		TracerProvider: tp.TracerProvider(),
	}
	if cfg.Artifacts.Enabled {
		pub, err := c.buildPublisher(cfg)
		if err != nil {
			return nil, err
		}
		opts.Publisher = pub
	}

	c.dispatcher, err = dispatch.New(c.store, c.chain, opts)
	if err != nil {
		return nil, err
	}

	c.api, err = api.New(cfg, api.Deps{RPC: c.dispatcher, Health: c.health, Blobs: c.blobs})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *components) buildPublisher(cfg config.AppConfig) (*artifact.Publisher, error) {
	a := cfg.Artifacts
	renderer, err := artifact.NewRenderer(a.Format, a.Size)
	if err != nil {
		return nil, err
	}

	redisCfg := cfg.Store.Redis
	switch a.Backend {
	case "redis":
		rb, err := artifact.NewRedisBlobStore(artifact.RedisBlobConfig{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
			Prefix:   cfg.Store.Namespace + ":artifact:",
			TTL:      a.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("artifact store: %w", err)
		}
		c.health.RegisterChecker(health.NewOptionalPingChecker("artifact_store", rb.Ping))
		c.blobs = rb
	default:
		fs, err := artifact.NewFSBlobStore(a.Dir)
		if err != nil {
			return nil, fmt.Errorf("artifact store: %w", err)
		}
		c.blobs = fs
	}
	c.onClose("artifact_store", closeErr(c.blobs.Close))

	var rc cache.Cache
	switch a.Cache.Backend {
	case "redis":
		r, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
			Prefix:   cfg.Store.Namespace + ":render:",
		}, agentlog.WithComponent("cache"))
		if err != nil {
			return nil, fmt.Errorf("render cache: %w", err)
		}
		c.health.RegisterChecker(health.NewOptionalPingChecker("render_cache", r.HealthCheck))
		rc = r
	case "none":
		rc = cache.NewNoOpCache()
	default:
		rc = cache.NewMemoryCache(renderCacheSweep, a.Cache.MaxEntries)
	}
	c.onClose("render_cache", closeErr(rc.Close))

	baseURL := a.PublicBaseURL
	if baseURL == "" {
		baseURL = cfg.API.BaseURL
	}
	return artifact.NewPublisher(renderer, c.blobs, artifact.Options{
		BaseURL:  baseURL,
		Cache:    rc,
		CacheTTL: a.Cache.TTL,
	}), nil
}

func (c *components) daemonDeps(logger zerolog.Logger, cfg config.AppConfig) daemon.Deps {
	deps := daemon.Deps{
		Logger:     logger,
		APIHandler: c.api,
	}
	if cfg.Metrics.Enabled {
		deps.MetricsHandler = promhttp.Handler()
		deps.MetricsAddr = config.MetricsServerConfig(cfg).ListenAddr
	}
	return deps
}

// registerHooks hands the closers to mgr, which runs them LIFO.
func (c *components) registerHooks(mgr daemon.Manager) {
	for _, cl := range c.closers {
		mgr.RegisterShutdownHook(cl.name, cl.close)
	}
}

// closeAll releases components in reverse creation order. Used when the
// manager never takes ownership.
func (c *components) closeAll(ctx context.Context) {
	logger := agentlog.WithComponent("daemon")
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].close(ctx); err != nil {
			logger.Warn().Err(err).Str("closer", c.closers[i].name).Msg("close failed")
		}
	}
}
