package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/academy-enrollment-api/pkg/config"
)

const maxPatchRetries = 5

// RedisStore keeps each document as a JSON string under its key path.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisClient returns a configured and reachable Redis client.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Write(ctx context.Context, path string, doc interface{}) error {
	if err := validatePath(path); err != nil {
		return err
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := s.client.Set(ctx, path, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", path, err)
	}
	return nil
}

// Patch performs an optimistic read-merge-write guarded by WATCH.
func (s *RedisStore) Patch(ctx context.Context, path string, fields map[string]interface{}) error {
	if err := validatePath(path); err != nil {
		return err
	}
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, path).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return fmt.Errorf("redis get %s: %w", path, err)
		}
		merged, err := merge(raw, fields)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, path, merged, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxPatchRetries; i++ {
		err := s.client.Watch(ctx, txf, path)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("redis patch %s: %w", path, err)
		}
		return err
	}
	return fmt.Errorf("redis patch %s: too much contention", path)
}

func (s *RedisStore) Read(ctx context.Context, path string, dest interface{}) error {
	raw, err := s.client.Get(ctx, path).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return fmt.Errorf("redis get %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode document %s: %w", path, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
