// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/chess-a2a/internal/config"
)

func TestPerformStartupChecks(t *testing.T) {
	t.Run("defaults with writable dir", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.Artifacts.Dir = t.TempDir()
		assert.NoError(t, PerformStartupChecks(context.Background(), cfg))
	})

	t.Run("missing artifact dir", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.Artifacts.Dir = filepath.Join(t.TempDir(), "absent")
		assert.Error(t, PerformStartupChecks(context.Background(), cfg))
	})

	t.Run("artifact path is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
		cfg := config.Defaults()
		cfg.Artifacts.Dir = file
		assert.Error(t, PerformStartupChecks(context.Background(), cfg))
	})

	t.Run("sqlite parent is created", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.Artifacts.Enabled = false
		cfg.Store.Backend = "sqlite"
		cfg.Store.Path = filepath.Join(t.TempDir(), "nested", "sessions.db")
		require.NoError(t, PerformStartupChecks(context.Background(), cfg))
		assert.DirExists(t, filepath.Dir(cfg.Store.Path))
	})

	t.Run("uci engine binary missing", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.Artifacts.Enabled = false
		cfg.Engine.Kind = "uci"
		cfg.Engine.Path = "definitely-not-a-chess-engine-binary"
		assert.Error(t, PerformStartupChecks(context.Background(), cfg))
	})
}
