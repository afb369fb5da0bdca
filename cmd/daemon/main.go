// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command daemon serves the chess agent over JSON-RPC.
package main

import (
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ManuGH/chess-a2a/internal/config"
	"github.com/ManuGH/chess-a2a/internal/daemon"
	"github.com/ManuGH/chess-a2a/internal/health"
	agentlog "github.com/ManuGH/chess-a2a/internal/log"
)

var (
	version   = "v0.1.0"
	commit    = "none"
	buildDate = "unknown"
)

// stageError tags a startup failure with the log event it belongs to.
type stageError struct {
	event string
	err   error
}

func (e *stageError) Error() string { return e.event + ": " + e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

func stage(event string, err error) error {
	if err == nil {
		return nil
	}
	return &stageError{event: event, err: err}
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			os.Exit(runConfigCLI(os.Args[2:]))
		case "healthcheck":
			os.Exit(runHealthcheckCLI(os.Args[2:]))
		}
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		return
	}

	agentlog.Configure(agentlog.Config{Level: "info", Service: "chess-a2a", Version: version})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := cmp.Or(strings.TrimSpace(*configPath), strings.TrimSpace(os.Getenv(config.EnvPrefix+"CONFIG")))
	if err := run(ctx, path); err != nil {
		stop()
		event := "daemon.failed"
		var se *stageError
		if errors.As(err, &se) {
			event, err = se.event, se.err
		}
		logger := agentlog.WithComponent("daemon")
		logger.Fatal().
			Err(err).
			Str("event", event).
			Str("config_path", path).
			Msg("chess-a2a stopped with an error")
	}
}

// run loads configuration, assembles the components and serves until ctx
// is canceled.
func run(ctx context.Context, path string) error {
	loader := config.NewLoader(path, version)
	cfg, err := loader.Load()
	if err != nil {
		return stage("config.load_failed", err)
	}

	agentlog.Configure(agentlog.Config{Level: cfg.LogLevel, Service: cfg.LogService, Version: cfg.Version})
	logger := agentlog.WithComponent("daemon")
	logConfig(logger, path, cfg)

	if err := health.PerformStartupChecks(ctx, cfg); err != nil {
		return stage("startup.check_failed", err)
	}

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", cfg.API.ListenAddr).
		Str("engine", cfg.Engine.Kind).
		Str("store", cfg.Store.Backend).
		Msg("starting chess-a2a")

	comps, err := buildComponents(ctx, cfg)
	if err != nil {
		return stage("startup.wiring_failed", err)
	}

	mgr, err := daemon.NewManager(config.APIServerConfig(cfg), comps.daemonDeps(logger, cfg))
	if err != nil {
		comps.closeAll(context.WithoutCancel(ctx))
		return stage("manager.creation_failed", err)
	}
	comps.registerHooks(mgr)

	app := daemon.NewApp(logger, mgr, config.NewConfigHolder(cfg, loader), comps.dispatcher)
	if err := app.Run(ctx); err != nil {
		return stage("manager.failed", err)
	}
	logger.Info().Str("event", "shutdown.complete").Msg("server exiting")
	return nil
}

func logConfig(logger zerolog.Logger, path string, cfg config.AppConfig) {
	source := "env+defaults"
	if path != "" {
		source = "file"
	}
	logger.Info().
		Str("event", "config.loaded").
		Str("source", source).
		Str("path", path).
		Interface("config", config.MaskSecrets(cfg)).
		Msg("configuration loaded")
}
