package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "gamecatalog/internal/delivery/context"
	"gamecatalog/internal/domain/entity"
	domainerrors "gamecatalog/internal/domain/errors"
	"gamecatalog/internal/domain/repository"
	"gamecatalog/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

type reviewService struct {
	reviewRepo repository.ReviewRepository
	games      usecase.GameUsecase
	validate   *validator.Validate
	logger     *slog.Logger
	now        func() time.Time
}

// NewReviewService creates the review aggregation service.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	games usecase.GameUsecase,
	logger *slog.Logger,
) usecase.ReviewUsecase {
	return &reviewService{
		reviewRepo: reviewRepo,
		games:      games,
		validate:   validator.New(),
		logger:     logger,
		now:        time.Now,
	}
}

func (s *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerOrDefault(ctx, s.logger)
}

func (s *reviewService) Upsert(ctx context.Context, input usecase.ReviewInput) (*entity.Review, error) {
	input.Comment = strings.TrimSpace(input.Comment)
	if err := s.validate.Struct(input); err != nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}

	// Resolving through the record cache lets a review target a game that was never viewed.
	if _, err := s.games.Get(ctx, input.GameID); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.FindByUserAndGame(ctx, input.UserID, input.GameID)
	switch {
	case err == nil:
		return s.update(ctx, review, input)
	case !errors.Is(err, repository.ErrReviewNotFound):
		return nil, errors.Wrap(err, "failed to look up review")
	}

	now := s.now()
	review = &entity.Review{
		UserID:    input.UserID,
		GameID:    input.GameID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.reviewRepo.Create(ctx, review)
	if err == nil {
		return review, nil
	}
	if !errors.Is(err, repository.ErrDuplicateReview) {
		return nil, err
	}

	// A concurrent submission won the insert.
	s.log(ctx).InfoContext(ctx, "Review inserted concurrently, retrying as update",
		slog.Int64("userID", input.UserID),
		slog.Int64("gameID", input.GameID),
	)

	existing, err := s.reviewRepo.FindByUserAndGame(ctx, input.UserID, input.GameID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload review after duplicate insert")
	}

	return s.update(ctx, existing, input)
}

func (s *reviewService) update(ctx context.Context, review *entity.Review, input usecase.ReviewInput) (*entity.Review, error) {
	review.Rating = input.Rating
	review.Comment = input.Comment
	review.UpdatedAt = s.now()

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

func (s *reviewService) Stats(ctx context.Context, gameID int64) (*entity.RatingStats, error) {
	stats, err := s.reviewRepo.Stats(ctx, gameID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute review stats")
	}

	return stats, nil
}

func (s *reviewService) ListByGame(ctx context.Context, gameID int64) ([]*entity.Review, error) {
	reviews, err := s.reviewRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	return reviews, nil
}
