// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ManuGH/chess-a2a/internal/persistence/sqlite"
)

const schemaVersion = 2

// SQLiteStore keeps sessions in a single SQLite table.
type SQLiteStore struct {
	db   *sql.DB
	keys keyspace
	ttl  time.Duration
	now  func() time.Time
}

// OpenSQLiteStore opens the database file at path and applies the schema.
func OpenSQLiteStore(path, namespace string, ttl time.Duration) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite store path is required")
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: db, keys: newKeyspace(namespace), ttl: ttl, now: time.Now}
	if err := sqlite.Check(context.Background(), db, false); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session store: %w", err)
	}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session store: migration failed: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	var current int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return err
	}
	if current >= schemaVersion {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if current < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			key TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			updated_at_ms INTEGER NOT NULL,
			expires_at_ms INTEGER
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at_ms);
		`
		if _, err := tx.Exec(schema); err != nil {
			return err
		}
	}
	if current < 2 {
		if _, err := tx.Exec(`ALTER TABLE sessions ADD COLUMN revision INTEGER NOT NULL DEFAULT 0`); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

// Save is a compare-and-set on the revision column. An expired row counts
// as absent, matching Load.
func (s *SQLiteStore) Save(ctx context.Context, id string, rec *Record) error {
	key, err := s.keys.key(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.New("nil session record")
	}
	next := *rec
	next.Revision++
	buf, err := encode(&next)
	if err != nil {
		return err
	}

	now := s.now()
	var expires sql.NullInt64
	if s.ttl > 0 {
		expires = sql.NullInt64{Int64: now.Add(s.ttl).UnixMilli(), Valid: true}
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (key, data, updated_at_ms, expires_at_ms, revision) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			updated_at_ms = excluded.updated_at_ms,
			expires_at_ms = excluded.expires_at_ms,
			revision = excluded.revision
		WHERE sessions.revision = ?
			OR (sessions.expires_at_ms IS NOT NULL AND sessions.expires_at_ms <= ?)`,
		key, buf, now.UnixMilli(), expires, next.Revision, rec.Revision, now.UnixMilli())
	if err != nil {
		return fmt.Errorf("sqlite upsert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite upsert: %w", err)
	}
	if n == 0 {
		return ErrConflict
	}
	rec.Revision = next.Revision
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*Record, error) {
	key, err := s.keys.key(id)
	if err != nil {
		return nil, err
	}
	var buf []byte
	err = s.db.QueryRowContext(ctx,
		`SELECT data FROM sessions WHERE key = ? AND (expires_at_ms IS NULL OR expires_at_ms > ?)`,
		key, s.now().UnixMilli()).Scan(&buf)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite select: %w", err)
	}
	return decode(buf)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	key, err := s.keys.key(id)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlite delete: %w", err)
	}
	return nil
}

// Purge removes expired rows and returns how many were deleted.
func (s *SQLiteStore) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at_ms IS NOT NULL AND expires_at_ms <= ?`, s.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("sqlite purge: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLiteStore) Close() error { return s.db.Close() }
