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

const facetBatchSize = 200

// facetRepository implements the repository.FacetRepository interface.
type facetRepository struct {
	db *gorm.DB
}

// NewFacetRepository is the constructor for facetRepository.
func NewFacetRepository(db *gorm.DB) repository.FacetRepository {
	return &facetRepository{
		db: db,
	}
}

// ListAll returns every facet ordered by kind, then name.
func (repo *facetRepository) ListAll(ctx context.Context) ([]*entity.FilterFacet, error) {
	var facetModels []*model.FilterFacetModel

	if err := repo.db.WithContext(ctx).
		Order("kind ASC").
		Order("name ASC").
		Find(&facetModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list filter facets")
	}

	facets := make([]*entity.FilterFacet, 0, len(facetModels))
	for _, facetM := range facetModels {
		facets = append(facets, toFacetDomain(facetM))
	}

	return facets, nil
}

// InsertIgnore inserts facets, leaving rows whose (upstream_id, kind) already exists untouched.
func (repo *facetRepository) InsertIgnore(ctx context.Context, facets []*entity.FilterFacet) error {
	if len(facets) == 0 {
		return nil
	}

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(fromFacetsDomain(facets), facetBatchSize).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to insert filter facets")
	}

	return nil
}

// Upsert inserts facets or refreshes name and refreshed_at of existing ones.
func (repo *facetRepository) Upsert(ctx context.Context, facets []*entity.FilterFacet) error {
	if len(facets) == 0 {
		return nil
	}

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "upstream_id"}, {Name: "kind"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "refreshed_at"}),
		}).
		CreateInBatches(fromFacetsDomain(facets), facetBatchSize).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert filter facets")
	}

	return nil
}

// --- Mapper Functions ---

func toFacetDomain(data *model.FilterFacetModel) *entity.FilterFacet {
	if data == nil {
		return nil
	}

	return &entity.FilterFacet{
		ID:          data.ID,
		UpstreamID:  data.UpstreamID,
		Kind:        entity.FacetKind(data.Kind),
		Name:        data.Name,
		RefreshedAt: data.RefreshedAt,
	}
}

func fromFacetsDomain(facets []*entity.FilterFacet) []*model.FilterFacetModel {
	models := make([]*model.FilterFacetModel, 0, len(facets))
	for _, facet := range facets {
		models = append(models, &model.FilterFacetModel{
			ID:          facet.ID,
			UpstreamID:  facet.UpstreamID,
			Kind:        string(facet.Kind),
			Name:        facet.Name,
			RefreshedAt: facet.RefreshedAt,
		})
	}

	return models
}
