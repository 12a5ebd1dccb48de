package postgres

import (
	"context"

	"gamecatalog/internal/domain/entity"
	domainerrors "gamecatalog/internal/domain/errors"
	"gamecatalog/internal/domain/repository"
	"gamecatalog/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gameRepository implements the repository.GameRepository interface.
type gameRepository struct {
	db *gorm.DB
}

// NewGameRepository is the constructor for gameRepository.
func NewGameRepository(db *gorm.DB) repository.GameRepository {
	return &gameRepository{
		db: db,
	}
}

// FindByID retrieves a cached game by its upstream id.
func (repo *gameRepository) FindByID(ctx context.Context, id int64) (*entity.Game, error) {
	var gameM model.GameModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&gameM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGameNotFound
		}

		return nil, errors.Wrap(err, "failed to find game by id")
	}

	return toGameDomain(&gameM), nil
}

// Upsert writes every column of the game, replacing an existing row with the same id.
func (repo *gameRepository) Upsert(ctx context.Context, game *entity.Game) error {
	gameM := fromGameDomain(game)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(gameM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert game")
	}

	return nil
}

// --- Mapper Functions ---

func toGameDomain(data *model.GameModel) *entity.Game {
	if data == nil {
		return nil
	}

	return &entity.Game{
		ID:          data.ID,
		Name:        data.Name,
		Summary:     data.Summary,
		Rating:      data.Rating,
		RatingCount: data.RatingCount,
		Genres:      data.Genres,
		Platforms:   data.Platforms,
		GameModes:   data.GameModes,
		Developers:  data.Developers,
		ReleaseDate: data.ReleaseDate,
		ImageURL:    data.ImageURL,
		RefreshedAt: data.RefreshedAt,
	}
}

func fromGameDomain(data *entity.Game) *model.GameModel {
	if data == nil {
		return nil
	}

	return &model.GameModel{
		ID:          data.ID,
		Name:        data.Name,
		Summary:     data.Summary,
		Rating:      data.Rating,
		RatingCount: data.RatingCount,
		Genres:      data.Genres,
		Platforms:   data.Platforms,
		GameModes:   data.GameModes,
		Developers:  data.Developers,
		ReleaseDate: data.ReleaseDate,
		ImageURL:    data.ImageURL,
		RefreshedAt: data.RefreshedAt,
	}
}
