package kvstore

import (
	"context"
	"fmt"

	"github.com/kbukum/voicedoc/redis"
)

// Redis stores keys in a Redis server without expiration.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps a connected client. The store owns the client and closes it.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Name() string { return BackendRedis }

func (r *Redis) IsAvailable(ctx context.Context) bool {
	return r.client.Ping(ctx) == nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := r.client.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return v, ok, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error { return r.client.Close() }
