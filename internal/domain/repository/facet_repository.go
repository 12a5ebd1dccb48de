package repository

import (
	"context"

	"gamecatalog/internal/domain/entity"
)

// FacetRepository stores the filter taxonomy.
type FacetRepository interface {
	// ListAll returns every facet ordered by kind, then name.
	ListAll(ctx context.Context) ([]*entity.FilterFacet, error)

	// InsertIgnore inserts facets, skipping any whose (upstream_id, kind) already exists.
	InsertIgnore(ctx context.Context, facets []*entity.FilterFacet) error

	// Upsert inserts facets or refreshes the name and refreshed_at of existing (upstream_id, kind) rows.
	Upsert(ctx context.Context, facets []*entity.FilterFacet) error
}
