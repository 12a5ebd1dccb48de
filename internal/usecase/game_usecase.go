// Package usecase declares the application operations exposed to the delivery layer.
package usecase

import (
	"context"
	"time"

	"gamecatalog/internal/domain/entity"
)

// GameUsecase serves game detail records through the freshness-gated cache.
type GameUsecase interface {
	// Get resolves a game with the configured default max age.
	Get(ctx context.Context, id int64) (*entity.Game, error)

	// GetOrRefresh returns the cached record when it is younger than maxAge,
	// otherwise refetches, normalises and persists it. A stale record is
	// returned when the refetch fails.
	GetOrRefresh(ctx context.Context, id int64, maxAge time.Duration) (*entity.Game, error)
}
