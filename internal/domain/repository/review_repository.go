package repository

import (
	"context"
	"errors"

	"gamecatalog/internal/domain/entity"
)

var (
	// ErrReviewNotFound is returned when a user has not reviewed a game.
	ErrReviewNotFound = errors.New("review not found")

	// ErrDuplicateReview is returned when an insert collides with an existing (user, game) review.
	ErrDuplicateReview = errors.New("review already exists for user and game")
)

// ReviewRepository stores user reviews and computes their aggregate.
type ReviewRepository interface {
	FindByUserAndGame(ctx context.Context, userID, gameID int64) (*entity.Review, error)

	// Create inserts a new review and fills its generated fields.
	Create(ctx context.Context, review *entity.Review) error

	// Update changes rating and comment of an existing review. CreatedAt is left untouched.
	Update(ctx context.Context, review *entity.Review) error

	// ListByGame returns the reviews of a game, newest first.
	ListByGame(ctx context.Context, gameID int64) ([]*entity.Review, error)

	// Stats computes count and mean rating over all reviews of a game.
	Stats(ctx context.Context, gameID int64) (*entity.RatingStats, error)
}
