package storage

import (
	"context"
	"errors"
)

// KV is the durable key-value store the state containers persist through.
// Consumers define this interface, not the redis implementation.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("key not found")
