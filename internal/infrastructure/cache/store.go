package cache

import (
	"context"
	"time"
)

// Store is a small key-value cache with expiration. Both the Redis and the
// in-memory implementations satisfy it; the memory store is the fallback when
// Redis is unreachable at startup.
type Store interface {
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	// Get returns ("", false, nil) on a miss.
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
