// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/chess-a2a/internal/config"
	"github.com/ManuGH/chess-a2a/internal/log"
)

// Tuner receives the settings that change without a restart.
type Tuner interface {
	SetTimeBudget(time.Duration)
}

// hotKeys are applied on reload; any other changed key is reported as
// needing a restart.
var hotKeys = map[string]bool{
	"LogLevel":          true,
	"Engine.TimeBudget": true,
}

// App runs the Manager alongside config reloading: a file watcher, a
// SIGHUP handler, and a loop applying hot settings.
type App struct {
	logger       zerolog.Logger
	manager      Manager
	cfgHolder    *config.ConfigHolder
	tuner        Tuner
	reloadSignal os.Signal
}

// NewApp wires an App. cfgHolder and tuner may be nil; without a holder
// nothing is ever reloaded.
func NewApp(logger zerolog.Logger, manager Manager, cfgHolder *config.ConfigHolder, tuner Tuner) *App {
	return &App{
		logger:       logger,
		manager:      manager,
		cfgHolder:    cfgHolder,
		tuner:        tuner,
		reloadSignal: syscall.SIGHUP,
	}
}

// Run blocks until ctx ends or the manager fails.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}
	g, ctx := errgroup.WithContext(ctx)

	if a.cfgHolder != nil {
		updates := make(chan config.AppConfig, 1)
		a.cfgHolder.RegisterListener(updates)
		current := a.cfgHolder.Get()

		g.Go(func() error { a.watchConfig(ctx); return nil })
		g.Go(func() error { a.applyLoop(ctx, current, updates); return nil })
		if a.reloadSignal != nil {
			g.Go(func() error { a.reloadOnSignal(ctx); return nil })
		}
	}

	g.Go(func() error {
		err := a.manager.Start(ctx)
		if err != nil {
			_ = a.manager.Shutdown(context.Background())
		}
		return err
	})
	return g.Wait()
}

// watchConfig is best effort; if the watcher cannot start, SIGHUP remains.
func (a *App) watchConfig(ctx context.Context) {
	if err := a.cfgHolder.Watch(ctx); err != nil {
		a.logger.Warn().Err(err).Str("event", "config.watcher_start_failed").Msg("config watcher unavailable, reload with SIGHUP")
	}
}

func (a *App) applyLoop(ctx context.Context, current config.AppConfig, updates <-chan config.AppConfig) {
	for {
		select {
		case <-ctx.Done():
			return
		case next := <-updates:
			a.apply(current, next)
			current = next
		}
	}
}

func (a *App) reloadOnSignal(ctx context.Context) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, a.reloadSignal)
	defer signal.Stop(sig)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			a.logger.Info().Str("event", "config.reload_signal").Str("signal", a.reloadSignal.String()).Msg("reloading config")
			if err := a.cfgHolder.Reload(ctx); err != nil {
				a.logger.Warn().Err(err).Str("event", "config.reload_failed").Msg("config reload failed")
			}
		}
	}
}

// apply pushes the hot settings of next into the running process.
func (a *App) apply(prev, next config.AppConfig) {
	var restart []string
	for _, c := range config.Diff(prev, next) {
		if !hotKeys[c.Key] {
			restart = append(restart, c.Key)
			continue
		}
		switch c.Key {
		case "LogLevel":
			if err := log.SetLevel(next.LogLevel); err != nil {
				a.logger.Warn().Err(err).Str("level", next.LogLevel).Msg("invalid log level ignored")
			}
		case "Engine.TimeBudget":
			if a.tuner == nil {
				continue
			}
			a.tuner.SetTimeBudget(next.Engine.TimeBudget)
			a.logger.Info().Str("event", "config.applied").Dur("time_budget", next.Engine.TimeBudget).Msg("engine time budget updated")
		}
	}
	if len(restart) > 0 {
		a.logger.Warn().
			Str("event", "config.restart_required").
			Str("keys", strings.Join(restart, ",")).
			Msg("some changes take effect after restart")
	}
}
