// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package log wraps zerolog with the process-wide logger, correlation ids
// carried in contexts, and the HTTP access log.
package log

import (
	"cmp"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Config captures options for configuring the global logger. Empty fields
// fall back to CHESS_A2A_LOG_LEVEL, CHESS_A2A_LOG_SERVICE and VERSION, then
// to info, "chess-a2a" and an empty version.
type Config struct {
	Level   string
	Output  io.Writer // defaults to os.Stdout
	Service string
	Version string
}

var base atomic.Pointer[zerolog.Logger]

func init() {
	Configure(Config{})
}

// Configure replaces the global logger. The daemon calls it twice: with
// defaults before the config file is read, and with the loaded values.
func Configure(cfg Config) {
	level, err := zerolog.ParseLevel(cmp.Or(cfg.Level, os.Getenv("CHESS_A2A_LOG_LEVEL")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	l := zerolog.New(out).With().
		Timestamp().
		Str("service", cmp.Or(cfg.Service, os.Getenv("CHESS_A2A_LOG_SERVICE"), "chess-a2a")).
		Str("version", cmp.Or(cfg.Version, os.Getenv("VERSION"))).
		Logger()
	base.Store(&l)
}

// Base returns a copy of the global logger.
func Base() zerolog.Logger {
	return *base.Load()
}

// WithComponent returns the global logger tagged with component.
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str(FieldComponent, component).Logger()
}

// SetLevel changes the global level in place. An unknown level is rejected
// and the current one kept.
func SetLevel(level string) error {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(parsed)
	return nil
}
