// SPDX-License-Identifier: MIT

package artifact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBlobStore keeps images in Redis hashes {mime, data} with an optional TTL.
type RedisBlobStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisBlobConfig configures NewRedisBlobStore.
type RedisBlobConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// NewRedisBlobStore connects and verifies connectivity.
func NewRedisBlobStore(cfg RedisBlobConfig) (*RedisBlobStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "chess-a2a:artifact:"
	}
	return &RedisBlobStore{client: client, prefix: prefix, ttl: cfg.TTL}, nil
}

func (s *RedisBlobStore) Put(ctx context.Context, name, mimeType string, data []byte) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	key := s.prefix + name
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "mime", mimeType, "data", data)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put artifact: %w", err)
	}
	return nil
}

func (s *RedisBlobStore) Get(ctx context.Context, name string) (*Blob, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	fields, err := s.client.HGetAll(ctx, s.prefix+name).Result()
	if errors.Is(err, redis.Nil) || (err == nil && len(fields) == 0) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get artifact: %w", err)
	}
	mime := fields["mime"]
	if mime == "" {
		mime = mimeByExtension(name)
	}
	return &Blob{MimeType: mime, Data: []byte(fields["data"])}, nil
}

// Ping checks if Redis is available.
func (s *RedisBlobStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisBlobStore) Close() error {
	return s.client.Close()
}
