package service

import (
	"context"

	"gamecatalog/internal/domain/entity"
)

// LiveActivityProvider lists live streams of a game.
type LiveActivityProvider interface {
	FetchStreams(ctx context.Context, gameID int64) ([]entity.Stream, error)
}
