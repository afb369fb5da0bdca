// SPDX-License-Identifier: MIT

package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blobStores(t *testing.T) map[string]BlobStore {
	t.Helper()
	fs, err := NewFSBlobStore(t.TempDir())
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rs, err := NewRedisBlobStore(RedisBlobConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rs.Close() })

	return map[string]BlobStore{BackendFS: fs, BackendRedis: rs}
}

func TestBlobStore_Contract(t *testing.T) {
	ctx := context.Background()
	for name, store := range blobStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, "board.png", "image/png", []byte{1, 2, 3}))

			blob, err := store.Get(ctx, "board.png")
			require.NoError(t, err)
			assert.Equal(t, "image/png", blob.MimeType)
			assert.Equal(t, []byte{1, 2, 3}, blob.Data)

			_, err = store.Get(ctx, "missing.png")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.ErrorIs(t, store.Put(ctx, "../escape.png", "image/png", nil), ErrInvalidName)
			_, err = store.Get(ctx, "a/b.png")
			assert.ErrorIs(t, err, ErrInvalidName)
		})
	}
}

func TestFSBlobStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSBlobStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Put(context.Background(), "x.svg", "image/svg+xml", []byte("<svg/>")))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "x.svg", entries[0].Name())

	blob, err := store.Get(context.Background(), "x.svg")
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", blob.MimeType)
	_, err = os.Stat(filepath.Join(dir, "x.svg"))
	assert.NoError(t, err)
}

func TestRedisBlobStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisBlobStore(RedisBlobConfig{Addr: mr.Addr(), TTL: time.Minute})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Put(context.Background(), "a.png", "image/png", []byte("x")))
	assert.Equal(t, time.Minute, mr.TTL("chess-a2a:artifact:a.png"))

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(context.Background(), "a.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("0b7c1f9e-2f55-4a0a-9d4e-1c3f6d1a2b3c.png"))
	assert.False(t, ValidName(".hidden.png"))
	assert.False(t, ValidName("x.gif"))
	assert.False(t, ValidName(""))
}
