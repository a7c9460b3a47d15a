package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *RedisKV {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisKV(client)
}

func TestRedisKV_RoundTrip(t *testing.T) {
	kv := setupTestRedis(t)
	ctx := context.Background()

	err := kv.Set(ctx, "auth-storage", []byte(`{"state":{},"version":0}`))
	require.NoError(t, err)

	data, err := kv.Get(ctx, "auth-storage")
	require.NoError(t, err)
	assert.Equal(t, `{"state":{},"version":0}`, string(data))
}

func TestRedisKV_GetMissing(t *testing.T) {
	kv := setupTestRedis(t)

	_, err := kv.Get(context.Background(), "no-such-key")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisKV_Delete(t *testing.T) {
	kv := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "wishlist-storage", []byte("x")))
	require.NoError(t, kv.Delete(ctx, "wishlist-storage"))

	_, err := kv.Get(ctx, "wishlist-storage")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisKV_KeysAreDisjointPerStore(t *testing.T) {
	kv := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "auth-storage", []byte("a")))
	require.NoError(t, kv.Set(ctx, "wishlist-storage", []byte("w")))
	require.NoError(t, kv.Delete(ctx, "auth-storage"))

	data, err := kv.Get(ctx, "wishlist-storage")
	require.NoError(t, err)
	assert.Equal(t, "w", string(data))
}
