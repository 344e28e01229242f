// Package redisstore persists options as JSON strings in Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-settingspage/pkg/store"
)

// Config holds Redis connection configuration.
type Config struct {
	Addr     string // host:port
	Password string
	DB       int
	Prefix   string // key prefix, defaults to "options:"
}

// Store is a store.Store backed by Redis string keys.
type Store struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

var _ store.Store = (*Store)(nil)

// Open connects to Redis and verifies the connection with PING.
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redisstore: connect %s: %w", cfg.Addr, err)
	}

	logger.Info().
		Str("addr", cfg.Addr).
		Int("db", cfg.DB).
		Msg("connected to redis option store")

	return New(client, cfg.Prefix, logger), nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string, logger zerolog.Logger) *Store {
	if prefix == "" {
		prefix = "options:"
	}
	return &Store{client: client, prefix: prefix, logger: logger}
}

func (s *Store) Get(ctx context.Context, key string) (map[string]string, error) {
	key, err := store.ValidateKey(key)
	if err != nil {
		return nil, err
	}

	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redisstore: get %q: %w", key, err)
	}
	return store.Decode(val)
}

func (s *Store) Put(ctx context.Context, key string, value map[string]string) error {
	key, err := store.ValidateKey(key)
	if err != nil {
		return err
	}
	payload, err := store.Encode(value)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.prefix+key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redisstore: put %q: %w", key, err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	key, err := store.ValidateKey(key)
	if err != nil {
		return false, err
	}
	n, err := s.client.Exists(ctx, s.prefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("redisstore: exists %q: %w", key, err)
	}
	return n > 0, nil
}

// Add uses SETNX so concurrent initializers cannot overwrite each other.
func (s *Store) Add(ctx context.Context, key string, value map[string]string) (bool, error) {
	key, err := store.ValidateKey(key)
	if err != nil {
		return false, err
	}
	payload, err := store.Encode(value)
	if err != nil {
		return false, err
	}
	wrote, err := s.client.SetNX(ctx, s.prefix+key, payload, 0).Result()
	if err != nil {
		return false, fmt.Errorf("redisstore: add %q: %w", key, err)
	}
	if !wrote {
		s.logger.Debug().Str("key", key).Msg("option already present, add skipped")
	}
	return wrote, nil
}

func (s *Store) Close() error { return s.client.Close() }
