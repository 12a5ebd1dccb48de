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

type translationRepository struct {
	db *gorm.DB
}

// NewTranslationRepository is the constructor for translationRepository.
func NewTranslationRepository(db *gorm.DB) repository.TranslationRepository {
	return &translationRepository{
		db: db,
	}
}

func (repo *translationRepository) FindByHash(ctx context.Context, hash string) (*entity.TranslationMemo, error) {
	var memoM model.TranslationMemoModel

	if err := repo.db.WithContext(ctx).
		Where("source_hash = ?", hash).
		First(&memoM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTranslationMemoNotFound
		}

		return nil, errors.Wrap(err, "failed to find translation memo")
	}

	return &entity.TranslationMemo{
		ID:             memoM.ID,
		SourceHash:     memoM.SourceHash,
		SourceText:     memoM.SourceText,
		TranslatedText: memoM.TranslatedText,
		SourceLang:     memoM.SourceLang,
		TargetLang:     memoM.TargetLang,
		CreatedAt:      memoM.CreatedAt,
	}, nil
}

// Save stores memo unless a row with the same hash exists already.
func (repo *translationRepository) Save(ctx context.Context, memo *entity.TranslationMemo) error {
	memoM := &model.TranslationMemoModel{
		SourceHash:     memo.SourceHash,
		SourceText:     memo.SourceText,
		TranslatedText: memo.TranslatedText,
		SourceLang:     memo.SourceLang,
		TargetLang:     memo.TargetLang,
		CreatedAt:      memo.CreatedAt,
	}

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "source_hash"}}, DoNothing: true}).
		Create(memoM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to save translation memo")
	}

	memo.ID = memoM.ID

	return nil
}
