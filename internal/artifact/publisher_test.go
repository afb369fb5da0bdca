// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package artifact

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/chess-a2a/internal/cache"
)

type countingRenderer struct {
	calls atomic.Int32
	delay time.Duration
	err   error
}

func (r *countingRenderer) Render(_ context.Context, fen string) ([]byte, error) {
	r.calls.Add(1)
	time.Sleep(r.delay)
	if r.err != nil {
		return nil, r.err
	}
	return []byte(fen), nil
}

func (*countingRenderer) MimeType() string  { return "image/png" }
func (*countingRenderer) Extension() string { return ".png" }

type failingStore struct{ BlobStore }

func (failingStore) Put(context.Context, string, string, []byte) error {
	return errors.New("bucket unavailable")
}

func TestPublisher_Publish(t *testing.T) {
	store, err := NewFSBlobStore(t.TempDir())
	require.NoError(t, err)
	p := NewPublisher(NewPNGRenderer(0), store, Options{BaseURL: "http://agent.local/"})

	url, err := p.Publish(context.Background(), startFEN)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://agent.local/artifacts/"), url)
	require.True(t, strings.HasSuffix(url, ".png"), url)

	name := strings.TrimPrefix(url, "http://agent.local/artifacts/")
	blob, err := store.Get(context.Background(), name)
	require.NoError(t, err)
	assert.Equal(t, "image/png", blob.MimeType)
	assert.NotEmpty(t, blob.Data)
}

func TestPublisher_NamesAreUnique(t *testing.T) {
	store, err := NewFSBlobStore(t.TempDir())
	require.NoError(t, err)
	p := NewPublisher(&countingRenderer{}, store, Options{})

	const n = 32
	urls := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := p.Publish(context.Background(), startFEN)
			assert.NoError(t, err)
			urls <- u
		}()
	}
	wg.Wait()
	close(urls)

	seen := map[string]bool{}
	for u := range urls {
		assert.False(t, seen[u], "duplicate url %s", u)
		seen[u] = true
		assert.True(t, strings.HasPrefix(u, PathPrefix))
	}
	assert.Len(t, seen, n)
}

func TestPublisher_RenderIsMemoised(t *testing.T) {
	store, err := NewFSBlobStore(t.TempDir())
	require.NoError(t, err)
	r := &countingRenderer{delay: 20 * time.Millisecond}
	c := cache.NewMemoryCache(0, 0)
	p := NewPublisher(r, store, Options{Cache: c, CacheTTL: time.Minute})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Publish(context.Background(), startFEN)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	_, err = p.Publish(context.Background(), startFEN)
	require.NoError(t, err)

	assert.LessOrEqual(t, r.calls.Load(), int32(2), "concurrent renders of one position collapse")
	assert.Equal(t, 1, c.Stats().CurrentSize)
}

func TestPublisher_Failures(t *testing.T) {
	store, err := NewFSBlobStore(t.TempDir())
	require.NoError(t, err)

	p := NewPublisher(&countingRenderer{err: errors.New("boom")}, store, Options{})
	_, err = p.Publish(context.Background(), startFEN)
	assert.ErrorIs(t, err, ErrRender)

	p = NewPublisher(&countingRenderer{}, failingStore{store}, Options{})
	_, err = p.Publish(context.Background(), startFEN)
	assert.ErrorIs(t, err, ErrStore)
	assert.NotErrorIs(t, err, ErrRender)
}

// gatedRenderer blocks until release is closed or its ctx ends.
type gatedRenderer struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *gatedRenderer) Render(ctx context.Context, fen string) ([]byte, error) {
	r.once.Do(func() { close(r.started) })
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.release:
		return []byte(fen), nil
	}
}

func (*gatedRenderer) MimeType() string  { return "image/png" }
func (*gatedRenderer) Extension() string { return ".png" }

func TestPublisher_CanceledCallerDoesNotFailSharedRender(t *testing.T) {
	r := &gatedRenderer{started: make(chan struct{}), release: make(chan struct{})}
	store, err := NewFSBlobStore(t.TempDir())
	require.NoError(t, err)
	p := NewPublisher(r, store, Options{})

	first, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := p.render(first, startFEN)
		firstErr <- err
	}()
	<-r.started

	type result struct {
		data []byte
		err  error
	}
	second := make(chan result, 1)
	go func() {
		data, err := p.render(context.Background(), startFEN)
		second <- result{data, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(r.release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, []byte(startFEN), got.data)
}
