// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/chess-a2a/internal/config"
)

func TestStage(t *testing.T) {
	assert.NoError(t, stage("x", nil))

	cause := errors.New("boom")
	err := stage("config.load_failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "config.load_failed: boom")

	var se *stageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "config.load_failed", se.event)
}

func TestRun_ConfigFailureIsTagged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("logLevel = 'info'\n"), 0o600))

	err := run(context.Background(), path)
	var se *stageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "config.load_failed", se.event)
	assert.ErrorIs(t, err, config.ErrUnsupportedFormat)
}
