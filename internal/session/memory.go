// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryStore keeps encoded records in process memory. Records go through
// the same JSON encoding as the durable backends, so callers never share
// memory with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	keys   keyspace
	ttl    time.Duration
	items  map[string]memoryEntry
	closed bool
	now    func() time.Time
}

func NewMemoryStore(namespace string, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		keys:  newKeyspace(namespace),
		ttl:   ttl,
		items: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (s *MemoryStore) Save(ctx context.Context, id string, rec *Record) error {
	key, err := s.keys.key(id)
	if err != nil {
		return err
	}
	buf, err := encode(rec)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	e := memoryEntry{data: buf}
	if s.ttl > 0 {
		e.expires = s.now().Add(s.ttl)
	}
	s.items[key] = e
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*Record, error) {
	key, err := s.keys.key(id)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	e, ok := s.items[key]
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}
	if !ok || (!e.expires.IsZero() && !s.now().Before(e.expires)) {
		return nil, nil
	}
	return decode(e.data)
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	key, err := s.keys.key(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.items, key)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.items = nil
	return nil
}
