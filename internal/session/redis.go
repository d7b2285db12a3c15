package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores session tokens in a Redis instance with a sliding expiry:
// every Set rewrites the key with the full TTL, so a mapping only disappears
// after the conversation has been idle for the whole window.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis connects to the Redis instance described by url
// (redis://[:password@]host:port[/db]).
func NewRedis(url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return &Redis{rdb: redis.NewClient(opts), ttl: ttl}, nil
}

// NewRedisWithClient wraps an existing client. Used by tests.
func NewRedisWithClient(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

// Ping verifies connectivity, so startup can fail fast on a bad redis url.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	token, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", &StorageError{Op: "get", Key: key, Err: err}
	}
	return token, nil
}

func (r *Redis) Set(ctx context.Context, key, token string) error {
	if err := r.rdb.Set(ctx, key, token, r.ttl).Err(); err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
