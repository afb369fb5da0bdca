// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package sqlite

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, path string) {
	t.Helper()
	db, err := Open(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close()) }()

	_, err = db.Exec("CREATE TABLE games (id INTEGER PRIMARY KEY, fen TEXT)")
	require.NoError(t, err)
	for range 200 {
		_, err = db.Exec("INSERT INTO games (fen) VALUES (hex(randomblob(100)))")
		require.NoError(t, err)
	}
}

func TestCheck_Healthy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ok.sqlite")
	seed(t, path)

	db, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	assert.NoError(t, Check(context.Background(), db, false))
	assert.NoError(t, Check(context.Background(), db, true))
}

func TestCheck_DetectsDamagedPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "damaged.sqlite")
	seed(t, path)

	// Page 2 holds the table's b-tree root.
	f, err := os.OpenFile(path, os.O_RDWR, 0o600)
	require.NoError(t, err)
	_, err = f.WriteAt(bytes.Repeat([]byte{0xA5}, 512), 4096)
	require.NoError(t, errors.Join(err, f.Close()))

	db, err := Open(path)
	if err != nil {
		return // damage can already surface at open
	}
	defer func() { _ = db.Close() }()

	err = Check(context.Background(), db, true)
	var corrupt *CorruptError
	if errors.As(err, &corrupt) {
		assert.NotEmpty(t, corrupt.Findings)
		return
	}
	assert.Error(t, err, "a damaged page must not pass")
}

func TestCheck_CanceledContext(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "c.sqlite"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, Check(ctx, db, false))
}
