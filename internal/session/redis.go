// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ManuGH/chess-a2a/internal/log"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string // host:port
	Password string
	DB       int
}

// RedisStore shares sessions across processes through Redis.
type RedisStore struct {
	client *redis.Client
	keys   keyspace
	ttl    time.Duration
}

// NewRedisStore connects and pings. A zero ttl keeps sessions forever.
func NewRedisStore(cfg RedisConfig, namespace string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger := log.WithComponent("session")
	logger.Info().
		Str("addr", cfg.Addr).
		Int("db", cfg.DB).
		Msg("connected to Redis session store")

	return &RedisStore{client: client, keys: newKeyspace(namespace), ttl: ttl}, nil
}

// Save writes rec only if the stored revision still equals rec.Revision,
// so two replicas racing on one session cannot both commit a half-move.
// On success rec.Revision advances in place.
func (s *RedisStore) Save(ctx context.Context, id string, rec *Record) error {
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

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("redis get: %w", err)
		default:
			var stored struct {
				Revision int64 `json:"revision"`
			}
			if err := json.Unmarshal(cur, &stored); err != nil {
				return fmt.Errorf("decode session: %w", err)
			}
			if stored.Revision != rec.Revision {
				return ErrConflict
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, buf, s.ttl)
			return nil
		})
		return err
	}, key)
	switch {
	case err == nil:
		rec.Revision = next.Revision
		return nil
	case errors.Is(err, redis.TxFailedErr), errors.Is(err, ErrConflict):
		return ErrConflict
	default:
		return fmt.Errorf("redis set: %w", err)
	}
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Record, error) {
	key, err := s.keys.key(id)
	if err != nil {
		return nil, err
	}
	buf, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return decode(buf)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	key, err := s.keys.key(id)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
