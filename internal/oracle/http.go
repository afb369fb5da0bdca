// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ManuGH/chess-a2a/internal/platform/httpx"
)

// maxReplyBytes bounds the body read from a remote engine.
const maxReplyBytes = 64 << 10

// HTTPOracle asks a remote engine service: POST {fen, movetimeMs} and
// expects {bestmove}.
type HTTPOracle struct {
	url    string
	client *http.Client
}

type httpMoveRequest struct {
	FEN        string `json:"fen"`
	MovetimeMS int64  `json:"movetimeMs"`
}

type httpMoveReply struct {
	BestMove string `json:"bestmove"`
	Error    string `json:"error,omitempty"`
}

// NewHTTPOracle builds a client for url. timeout caps a single exchange; the
// request context normally ends it sooner.
func NewHTTPOracle(url string, timeout time.Duration) (*HTTPOracle, error) {
	if url == "" {
		return nil, errors.New("http oracle url is required")
	}
	return &HTTPOracle{url: url, client: httpx.NewClient(timeout, httpx.WithTracing())}, nil
}

func (o *HTTPOracle) BestMove(ctx context.Context, fen string, budget time.Duration) (string, error) {
	body, err := json.Marshal(httpMoveRequest{FEN: fen, MovetimeMS: budget.Milliseconds()})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", classify(ctx.Err())
		}
		return "", classify(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return "", classify(err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: remote engine status %d", ErrUnavailable, resp.StatusCode)
	}

	var reply httpMoveReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return "", fmt.Errorf("%w: decode reply: %w", ErrUnavailable, err)
	}
	if reply.Error != "" {
		return "", fmt.Errorf("%w: remote engine: %s", ErrUnavailable, reply.Error)
	}
	if reply.BestMove == "" {
		return "", fmt.Errorf("%w: remote engine returned no move", ErrUnavailable)
	}
	return reply.BestMove, nil
}

// Close releases idle connections.
func (o *HTTPOracle) Close() error {
	o.client.CloseIdleConnections()
	return nil
}
