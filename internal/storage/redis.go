package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

// RedisKV keeps persisted store state in redis. Entries carry no TTL: the
// persisted session and wishlist must survive until explicitly overwritten
// or deleted.
type RedisKV struct {
	client *redis.Client
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, storageKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	return data, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, storageKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, storageKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

func storageKey(key string) string {
	return fmt.Sprintf("storefront:%s", key)
}
