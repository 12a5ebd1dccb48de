package usecase

import (
	"context"

	"gamecatalog/internal/domain/entity"
)

// AnalyticsUsecase builds the live stream dashboard of a game.
type AnalyticsUsecase interface {
	StreamDashboard(ctx context.Context, gameID int64) (*entity.StreamDashboard, error)
}
