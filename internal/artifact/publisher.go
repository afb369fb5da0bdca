// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package artifact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/ManuGH/chess-a2a/internal/cache"
	"github.com/ManuGH/chess-a2a/internal/log"
	"github.com/ManuGH/chess-a2a/internal/metrics"
)

// PathPrefix is the route under which published images are served.
const PathPrefix = "/artifacts/"

const renderTimeout = 10 * time.Second

var (
	// ErrRender wraps renderer failures.
	ErrRender = errors.New("render artifact")
	// ErrStore wraps blob store failures.
	ErrStore = errors.New("store artifact")
)

// Options tune a Publisher.
type Options struct {
	// BaseURL is prepended to PathPrefix+name. Empty yields a relative URL.
	BaseURL string
	// Cache memoises rendered bytes per position. Nil disables memoisation.
	Cache    cache.Cache
	CacheTTL time.Duration
}

// Publisher renders a position, stores it under a fresh name and returns its URL.
type Publisher struct {
	renderer Renderer
	store    BlobStore
	cache    cache.Cache
	cacheTTL time.Duration
	baseURL  string
	group    singleflight.Group
	newName  func() string
}

// NewPublisher wires a renderer to a blob store.
func NewPublisher(r Renderer, store BlobStore, opts Options) *Publisher {
	c := opts.Cache
	if c == nil {
		c = cache.NewNoOpCache()
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Publisher{
		renderer: r,
		store:    store,
		cache:    c,
		cacheTTL: ttl,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		newName:  uuid.NewString,
	}
}

// MimeType is the content type of every image this publisher emits.
func (p *Publisher) MimeType() string { return p.renderer.MimeType() }

// Store returns the blob store images are written to.
func (p *Publisher) Store() BlobStore { return p.store }

// Publish renders fen and stores it under a fresh name. Failures are returned
// wrapped in ErrRender or ErrStore and never retried.
func (p *Publisher) Publish(ctx context.Context, fen string) (string, error) {
	format := strings.TrimPrefix(p.renderer.Extension(), ".")
	logger := log.WithComponentFromContext(ctx, "artifact")

	data, err := p.render(ctx, fen)
	if err != nil {
		metrics.RecordArtifactPublish(format, false)
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}

	name := p.newName() + p.renderer.Extension()
	if err := p.store.Put(ctx, name, p.renderer.MimeType(), data); err != nil {
		metrics.RecordArtifactPublish(format, false)
		return "", fmt.Errorf("%w: %w", ErrStore, err)
	}

	metrics.RecordArtifactPublish(format, true)
	logger.Debug().Str("name", name).Int("bytes", len(data)).Msg("artifact published")
	return p.baseURL + PathPrefix + name, nil
}

// render shares one rendering per position between concurrent callers. The
// shared work is detached from any single caller; each caller stops waiting
// when its own ctx ends.
func (p *Publisher) render(ctx context.Context, fen string) ([]byte, error) {
	key := p.renderer.Extension() + "|" + fen
	if data, ok := p.cache.Get(key); ok {
		return data, nil
	}

	ch := p.group.DoChan(key, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), renderTimeout)
		defer cancel()
		data, err := p.renderer.Render(rctx, fen)
		if err != nil {
			return nil, err
		}
		p.cache.Set(key, data, p.cacheTTL)
		return data, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}
