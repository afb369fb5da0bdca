// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore keeps sessions in an embedded badger database.
type BadgerStore struct {
	db   *badger.DB
	keys keyspace
	ttl  time.Duration
}

// OpenBadgerStore opens (or creates) the database directory at path.
func OpenBadgerStore(path, namespace string, ttl time.Duration) (*BadgerStore, error) {
	if path == "" {
		return nil, errors.New("badger store path is required")
	}
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger open %s: %w", path, err)
	}
	return &BadgerStore{db: db, keys: newKeyspace(namespace), ttl: ttl}, nil
}

func (s *BadgerStore) Save(ctx context.Context, id string, rec *Record) error {
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
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), buf)
		if s.ttl > 0 {
			e = e.WithTTL(s.ttl)
		}
		return txn.SetEntry(e)
	})
}

func (s *BadgerStore) Load(ctx context.Context, id string) (*Record, error) {
	key, err := s.keys.key(id)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf []byte
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		buf, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return decode(buf)
}

func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	key, err := s.keys.key(id)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (s *BadgerStore) Ping(context.Context) error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	return nil
}

func (s *BadgerStore) Close() error { return s.db.Close() }
