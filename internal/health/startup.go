// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ManuGH/chess-a2a/internal/config"
	"github.com/ManuGH/chess-a2a/internal/log"
)

type startupCheck struct {
	name string
	run  func(zerolog.Logger, config.AppConfig) error
}

var startupChecks = []startupCheck{
	{"artifact_dir", checkArtifactDir},
	{"session_store", checkStorePath},
	{"engine_binary", checkEngineBinary},
}

// PerformStartupChecks fails fast on a configuration that cannot serve:
// unwritable directories or a missing engine binary. The first failure
// is returned.
func PerformStartupChecks(ctx context.Context, cfg config.AppConfig) error {
	logger := log.WithComponent("startup-check")
	for _, c := range startupChecks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.run(logger, cfg); err != nil {
			return fmt.Errorf("startup check %s: %w", c.name, err)
		}
	}
	logger.Info().Int("checks", len(startupChecks)).Msg("startup checks passed")
	return nil
}

func checkArtifactDir(logger zerolog.Logger, cfg config.AppConfig) error {
	if !cfg.Artifacts.Enabled || cfg.Artifacts.Backend != "fs" {
		return nil
	}
	return probeWritable(logger, cfg.Artifacts.Dir)
}

// checkStorePath creates the directory a file-backed store lives in.
func checkStorePath(logger zerolog.Logger, cfg config.AppConfig) error {
	var dir string
	switch cfg.Store.Backend {
	case "badger":
		dir = cfg.Store.Path
	case "sqlite":
		dir = filepath.Dir(cfg.Store.Path)
	case "memory":
		logger.Warn().Str("store_backend", cfg.Store.Backend).Msg("in-memory session store; games are lost on restart")
		return nil
	default:
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return probeWritable(logger, dir)
}

func checkEngineBinary(logger zerolog.Logger, cfg config.AppConfig) error {
	if cfg.Engine.Kind != "uci" {
		return nil
	}
	bin, err := exec.LookPath(cfg.Engine.Path)
	if err != nil {
		return err
	}
	logger.Info().Str("engine", bin).Msg("engine binary found")
	return nil
}

// probeWritable requires dir to exist and accept a new file.
func probeWritable(logger zerolog.Logger, dir string) error {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s does not exist", dir)
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("%s is not a directory", dir)
	}

	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("%s is not writable: %w", dir, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)

	logger.Debug().Str("path", dir).Msg("directory writable")
	return nil
}
