// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	redisOpTimeout   = 2 * time.Second
	redisScanTimeout = 5 * time.Second
	redisScanBatch   = 100
)

// RedisCache shares rendered board images between replicas. Every key lives
// under Prefix, and Clear and Stats only ever look there. Redis errors are
// logged and degrade to a miss; a cache outage never fails a move.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
	stats  counters
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces the keys, e.g. "chess-a2a:render:".
	Prefix string
}

// NewRedisCache connects and pings Redis before returning.
func NewRedisCache(cfg RedisConfig, logger zerolog.Logger) (*RedisCache, error) {
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

	logger.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Str("prefix", cfg.Prefix).
		Msg("render cache connected to redis")
	return &RedisCache{client: client, prefix: cfg.Prefix, logger: logger}, nil
}

// op runs fn under the per-operation timeout and logs a failure.
func (c *RedisCache) op(name, key string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	err := fn(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn().Err(err).Str("op", name).Str("key", key).Msg("render cache redis call failed")
	}
	return err
}

func (c *RedisCache) Get(key string) ([]byte, bool) {
	var val []byte
	err := c.op("get", key, func(ctx context.Context) (err error) {
		val, err = c.client.Get(ctx, c.prefix+key).Bytes()
		return err
	})
	c.stats.lookup(err == nil)
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *RedisCache) Set(key string, value []byte, ttl time.Duration) {
	err := c.op("set", key, func(ctx context.Context) error {
		return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
	})
	if err == nil {
		c.stats.sets.Add(1)
	}
}

func (c *RedisCache) Delete(key string) {
	_ = c.op("del", key, func(ctx context.Context) error {
		return c.client.Del(ctx, c.prefix+key).Err()
	})
}

// scan calls visit with each batch of keys under the prefix.
func (c *RedisCache) scan(ctx context.Context, visit func([]string) error) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", redisScanBatch).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := visit(keys); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Clear unlinks every key under the prefix, one batch per round trip.
func (c *RedisCache) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), redisScanTimeout)
	defer cancel()
	err := c.scan(ctx, func(keys []string) error {
		return c.client.Unlink(ctx, keys...).Err()
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("render cache clear incomplete")
	}
}

// Stats returns the hit counters. CurrentSize is the number of keys under
// the prefix, which includes entries written by other replicas.
func (c *RedisCache) Stats() CacheStats {
	ctx, cancel := context.WithTimeout(context.Background(), redisScanTimeout)
	defer cancel()
	size := 0
	err := c.scan(ctx, func(keys []string) error {
		size += len(keys)
		return nil
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("render cache size scan failed")
	}
	return c.stats.stats(size)
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// HealthCheck pings Redis; the readiness probe uses it.
func (c *RedisCache) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
