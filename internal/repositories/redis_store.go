package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore keeps each session as one hash that expires after ttl of inactivity.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (SessionStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis unreachable: %w", err)
	}

	return &redisStore{rdb: rdb, ttl: ttl}, nil
}

func sessionKey(token string) string {
	return "wizard:" + token
}

func (r *redisStore) Get(ctx context.Context, token, key string) ([]byte, error) {
	value, err := r.rdb.HGet(ctx, sessionKey(token), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return value, nil
}

func (r *redisStore) Put(ctx context.Context, token, key string, value []byte) error {
	k := sessionKey(token)
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, k, key, value)
	if r.ttl > 0 {
		pipe.Expire(ctx, k, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to put entry: %w", err)
	}
	return nil
}

func (r *redisStore) Clear(ctx context.Context, token string) error {
	if err := r.rdb.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (r *redisStore) Close() error {
	return r.rdb.Close()
}
