// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/renameio/v2"
)

// Blob store backends.
const (
	BackendFS    = "fs"
	BackendRedis = "redis"
)

var (
	// ErrNotFound is returned by Get for an unknown name.
	ErrNotFound = errors.New("artifact not found")
	// ErrInvalidName is returned for names that are not a flat file name.
	ErrInvalidName = errors.New("invalid artifact name")
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*\.(png|svg)$`)

// ValidName reports whether name can be stored and served.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Blob is a stored image.
type Blob struct {
	MimeType string
	Data     []byte
}

// BlobStore keeps published images addressable by name.
type BlobStore interface {
	Put(ctx context.Context, name, mimeType string, data []byte) error
	Get(ctx context.Context, name string) (*Blob, error)
	Close() error
}

// FSBlobStore writes each image to its own file in dir.
type FSBlobStore struct {
	dir string
}

// NewFSBlobStore creates dir if needed.
func NewFSBlobStore(dir string) (*FSBlobStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("artifact dir is empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &FSBlobStore{dir: dir}, nil
}

// Put writes data atomically: readers see either no file or the whole image.
func (s *FSBlobStore) Put(ctx context.Context, name, _ string, data []byte) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	pending, err := renameio.NewPendingFile(filepath.Join(s.dir, name), renameio.WithPermissions(0o640))
	if err != nil {
		return fmt.Errorf("create pending artifact file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write artifact data: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace artifact file: %w", err)
	}
	return nil
}

func (s *FSBlobStore) Get(ctx context.Context, name string) (*Blob, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name)) // #nosec G304 -- name is validated
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return &Blob{MimeType: mimeByExtension(name), Data: data}, nil
}

func (s *FSBlobStore) Close() error { return nil }

func mimeByExtension(name string) string {
	switch filepath.Ext(name) {
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
