package usecase

import (
	"context"

	"gamecatalog/internal/domain/entity"
)

// FacetUsecase serves the filter taxonomy, seeding it from upstream when the store is empty.
type FacetUsecase interface {
	List(ctx context.Context) (*entity.FacetSet, error)
}
