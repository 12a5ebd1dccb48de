// Package memcache provides sharded in-memory response memos backed by sturdyc.
package memcache

import (
	"context"
	"time"

	"gamecatalog/config"
	"gamecatalog/internal/domain/entity"
	"gamecatalog/internal/domain/service"

	"github.com/viccon/sturdyc"
	"go.uber.org/fx"
)

// Params defines the dependencies of the memo constructors.
type Params struct {
	fx.In

	Config *config.Config
}

// Memo wraps a typed sturdyc client.
type Memo[T any] struct {
	client *sturdyc.Client[T]
}

// New creates a memo whose entries live for ttl.
func New[T any](cfg *config.MemoConfig, ttl time.Duration) *Memo[T] {
	return &Memo[T]{
		client: sturdyc.New[T](cfg.Capacity, cfg.NumShards, ttl, cfg.EvictionPercentage),
	}
}

// GetOrFetch returns the cached value for key or calls fetch, storing a successful result.
func (m *Memo[T]) GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	return m.client.GetOrFetch(ctx, key, fetch)
}

// Size is the number of live entries.
func (m *Memo[T]) Size() int {
	return m.client.Size()
}

// NewSuggestionMemo memoises autocomplete results.
func NewSuggestionMemo(params Params) service.Memo[[]entity.Suggestion] {
	return New[[]entity.Suggestion](params.Config.Memo, params.Config.Memo.SuggestionsTTL)
}

// NewStreamMemo memoises live stream listings.
func NewStreamMemo(params Params) service.Memo[[]entity.Stream] {
	return New[[]entity.Stream](params.Config.Memo, params.Config.Memo.StreamsTTL)
}
