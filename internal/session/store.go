// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package session persists game sessions keyed by session id. The store is
// the single source of truth; callers hold no session cache across
// requests.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ManuGH/chess-a2a/internal/a2a"
	"github.com/ManuGH/chess-a2a/internal/game"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// DefaultNamespace prefixes every key.
const DefaultNamespace = "chess-a2a"

// MaxHistory bounds the stored message history per session.
const MaxHistory = 256

var (
	// ErrEmptyID is returned for an empty session id.
	ErrEmptyID = errors.New("session id is empty")
	// ErrClosed is returned by a store after Close.
	ErrClosed = errors.New("session store closed")
	// ErrConflict is returned when a save races another writer and loses.
	ErrConflict = errors.New("session modified concurrently")
)

// Record is everything persisted for one session.
type Record struct {
	Game      game.Record   `json:"game"`
	LastTask  *a2a.Task     `json:"lastTask,omitempty"`
	History   []a2a.Message `json:"history,omitempty"`
	UpdatedAt time.Time     `json:"updatedAt"`
	// Revision counts successful saves on stores that compare-and-set.
	Revision int64 `json:"revision,omitempty"`
}

// AppendHistory adds msgs and drops the oldest entries beyond MaxHistory.
func (r *Record) AppendHistory(msgs ...a2a.Message) {
	r.History = append(r.History, msgs...)
	if n := len(r.History) - MaxHistory; n > 0 {
		r.History = append([]a2a.Message(nil), r.History[n:]...)
	}
}

// Store loads and saves session records. Load returns (nil, nil) for an
// unknown id: absence means "start a new game", not an error.
type Store interface {
	Save(ctx context.Context, id string, rec *Record) error
	Load(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// keyspace builds backend keys as <namespace>:<sessionId>.
type keyspace string

func (k keyspace) key(id string) (string, error) {
	if id == "" {
		return "", ErrEmptyID
	}
	return string(k) + ":" + id, nil
}

func newKeyspace(ns string) keyspace {
	if ns == "" {
		ns = DefaultNamespace
	}
	return keyspace(ns)
}

func encode(rec *Record) ([]byte, error) {
	if rec == nil {
		return nil, errors.New("nil session record")
	}
	buf, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return buf, nil
}

func decode(buf []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(buf, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &rec, nil
}
