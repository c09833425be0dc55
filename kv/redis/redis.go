// Package redis provides a kv.Store backed by Redis, for deployments where
// multiple limiter instances share state.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/AlexKimmel/edgelimit/kv"
)

// Config holds the connection settings for New.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Store adapts a Redis client to the kv.Store contract. Values are plain
// string keys with per-key TTLs; no Lua or transactions are used, matching
// the limiter's last-write-wins model.
type Store struct {
	client *redis.Client
}

var _ kv.Store = (*Store)(nil)

// New dials Redis and verifies the connection with a ping.
func New(cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Store{client: client}, nil
}

// Wrap adapts an existing client without dialing or pinging.
func Wrap(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
