// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package sqlite opens modernc.org/sqlite databases tuned for the session
// table: short upserts, point reads, one writer at a time.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

type options struct {
	busyTimeout time.Duration
	maxConns    int
}

// Option tunes Open.
type Option func(*options)

// WithBusyTimeout sets how long a writer waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.busyTimeout = d
		}
	}
}

// WithMaxConns caps the pool. Idle connections are kept up to the same
// number so the per-connection pragmas are not re-applied constantly.
func WithMaxConns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConns = n
		}
	}
}

// DSN returns the data source name for path. Every pooled connection gets
// WAL journaling, the busy timeout and synchronous=NORMAL.
func DSN(path string, opts ...Option) string {
	o := resolve(opts)
	pragmas := []string{
		"journal_mode(WAL)",
		fmt.Sprintf("busy_timeout(%d)", o.busyTimeout.Milliseconds()),
		"synchronous(NORMAL)",
	}
	return "file:" + path + "?_pragma=" + strings.Join(pragmas, "&_pragma=")
}

// Open opens the database at path and pings it.
func Open(path string, opts ...Option) (*sql.DB, error) {
	o := resolve(opts)
	db, err := sql.Open("sqlite", DSN(path, opts...))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(o.maxConns)
	db.SetMaxIdleConns(o.maxConns)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping %s: %w", path, err)
	}
	return db, nil
}

func resolve(opts []Option) options {
	o := options{busyTimeout: 5 * time.Second, maxConns: 8}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
