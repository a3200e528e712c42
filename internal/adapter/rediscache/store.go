// Package rediscache stores raw dataset payloads in Redis.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store implements dataset.PayloadStore on a Redis client.
type Store struct {
	redis *redis.Client
}

// NewStore wraps an existing client. The caller owns the client's lifecycle.
func NewStore(client *redis.Client) *Store {
	return &Store{redis: client}
}

// NewClient connects to Redis and verifies the connection with PING.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

// Get returns the payload under key. A missing key is not an error.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := s.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s from redis: %w", key, err)
	}
	return payload, true, nil
}

// Set stores payload under key with the given expiration.
func (s *Store) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := s.redis.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("set %s in redis: %w", key, err)
	}
	return nil
}

// CheckReadiness pings Redis.
func (s *Store) CheckReadiness(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}
