package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"gamecatalog/internal/domain/entity"
	domainerrors "gamecatalog/internal/domain/errors"
	"gamecatalog/internal/domain/repository"
	"gamecatalog/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// reviewRepository implements the repository.ReviewRepository interface.
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{
		db: db,
	}
}

// FindByUserAndGame retrieves the review a user left on a game.
func (repo *reviewRepository) FindByUserAndGame(ctx context.Context, userID, gameID int64) (*entity.Review, error) {
	var reviewM model.ReviewModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		First(&reviewM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review by user and game")
	}

	return toReviewDomain(&reviewM), nil
}

// Create persists a new review.
func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)

	if err := repo.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(reviewM).Error; err != nil {
		// Convert driver errors to domain errors
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateReview
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("rating out of range")
		}
		if isForeignKeyConstraintViolation(err) {
			return repo.missingReference(ctx, review)
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create review")
	}

	review.ID = reviewM.ID
	review.CreatedAt = reviewM.CreatedAt
	review.UpdatedAt = reviewM.UpdatedAt

	return nil
}

// missingReference tells which side of a failed foreign key is absent. The
// violation itself does not name the constraint on SQLite.
func (repo *reviewRepository) missingReference(ctx context.Context, review *entity.Review) error {
	var users int64
	if err := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", review.UserID).
		Count(&users).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to look up review author")
	}
	if users == 0 {
		return domainerrors.ErrUserNotFound.WrapMessage(fmt.Sprintf("no user with id %d", review.UserID))
	}

	return domainerrors.ErrGameNotFound.WrapMessage(fmt.Sprintf("no game with id %d", review.GameID))
}

// Update overwrites rating and comment of an existing review.
func (repo *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	updates := map[string]any{
		"rating":  review.Rating,
		"comment": review.Comment,
	}
	if !review.UpdatedAt.IsZero() {
		updates["updated_at"] = review.UpdatedAt
	}

	result := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Where("id = ?", review.ID).
		Updates(updates)

	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("rating out of range")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update review")
	}

	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

// ListByGame returns all reviews of a game, newest first.
func (repo *reviewRepository) ListByGame(ctx context.Context, gameID int64) ([]*entity.Review, error) {
	var reviewModels []*model.ReviewModel

	if err := repo.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reviewModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list reviews by game")
	}

	reviews := make([]*entity.Review, 0, len(reviewModels))
	for _, reviewM := range reviewModels {
		reviews = append(reviews, toReviewDomain(reviewM))
	}

	return reviews, nil
}

// Stats counts the reviews of a game and averages their ratings in SQL.
func (repo *reviewRepository) Stats(ctx context.Context, gameID int64) (*entity.RatingStats, error) {
	var row reviewStatsRow

	if err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Select("COUNT(*) AS count, AVG(rating) AS mean").
		Where("game_id = ?", gameID).
		Scan(&row).Error; err != nil {
		return nil, errors.Wrap(err, "failed to aggregate reviews")
	}

	stats := &entity.RatingStats{GameID: gameID, Count: row.Count}
	if row.Count > 0 && row.Mean.Valid {
		mean := row.Mean.Float64
		stats.Mean = &mean
	}

	return stats, nil
}

type reviewStatsRow struct {
	Count int64
	Mean  sql.NullFloat64
}

// --- Mapper Functions ---

func toReviewDomain(data *model.ReviewModel) *entity.Review {
	if data == nil {
		return nil
	}

	return &entity.Review{
		ID:        data.ID,
		UserID:    data.UserID,
		GameID:    data.GameID,
		Rating:    data.Rating,
		Comment:   data.Comment,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	if data == nil {
		return nil
	}

	return &model.ReviewModel{
		ID:        data.ID,
		UserID:    data.UserID,
		GameID:    data.GameID,
		Rating:    data.Rating,
		Comment:   data.Comment,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
