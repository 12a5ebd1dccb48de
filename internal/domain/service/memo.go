package service

import "context"

// Memo is a short-lived in-process read-through cache. Concurrent misses for
// the same key share one fetch. Errors are never cached.
type Memo[T any] interface {
	GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (T, error)) (T, error)
}
