package usecase

import (
	"context"

	"gamecatalog/internal/domain/entity"
)

// ReviewInput is a rating submission. Comment is trimmed before validation.
type ReviewInput struct {
	UserID  int64  `json:"-" validate:"gt=0"`
	GameID  int64  `json:"-" validate:"gt=0"`
	Rating  int    `json:"rating" validate:"gte=0,lte=100"`
	Comment string `json:"comment" validate:"required,max=4000"`
}

// ReviewUsecase maintains one review per (user, game) and aggregates them per game.
type ReviewUsecase interface {
	// Upsert creates the user's review of a game or overwrites its rating and comment.
	Upsert(ctx context.Context, input ReviewInput) (*entity.Review, error)

	// Stats recomputes count and mean rating of a game on every call.
	Stats(ctx context.Context, gameID int64) (*entity.RatingStats, error)

	// ListByGame returns reviews of a game, newest first.
	ListByGame(ctx context.Context, gameID int64) ([]*entity.Review, error)
}
