package repository

import (
	"context"
	"errors"

	"gamecatalog/internal/domain/entity"
)

// ErrTranslationMemoNotFound is returned on a translation memo miss.
var ErrTranslationMemoNotFound = errors.New("translation memo not found")

// TranslationRepository persists completed translations keyed by a hash of the request.
type TranslationRepository interface {
	FindByHash(ctx context.Context, hash string) (*entity.TranslationMemo, error)

	// Save stores the memo. An existing row with the same hash is kept.
	Save(ctx context.Context, memo *entity.TranslationMemo) error
}
