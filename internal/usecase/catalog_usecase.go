package usecase

import (
	"context"

	"gamecatalog/internal/domain/entity"
)

// CatalogUsecase lists games straight from upstream. Upstream failures yield empty results.
type CatalogUsecase interface {
	Page(ctx context.Context, query entity.CatalogQuery) (*entity.CatalogPage, error)
	Suggestions(ctx context.Context, term string) ([]entity.Suggestion, error)
}
