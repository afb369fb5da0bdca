// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_AppliesPragmas(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "sessions.db"), WithBusyTimeout(1500*time.Millisecond), WithMaxConns(2))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var busy int
	require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&busy))
	assert.Equal(t, 1500, busy)

	assert.Equal(t, 2, db.Stats().MaxOpenConnections)
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"defaults", nil, "file:/tmp/x.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"},
		{"busy timeout", []Option{WithBusyTimeout(time.Second)}, "file:/tmp/x.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(1000)&_pragma=synchronous(NORMAL)"},
		{"non-positive ignored", []Option{WithBusyTimeout(0), WithMaxConns(-1)}, "file:/tmp/x.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DSN("/tmp/x.db", tt.opts...))
		})
	}
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "sessions.db"))
	assert.Error(t, err)
}
