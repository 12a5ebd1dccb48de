package impl

import (
	"context"
	"log/slog"
	"time"

	"gamecatalog/config"
	"gamecatalog/internal/domain/entity"
	domainerrors "gamecatalog/internal/domain/errors"
	"gamecatalog/internal/domain/repository"
	"gamecatalog/internal/domain/service"
	"gamecatalog/internal/usecase"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

const facetSeedKey = "facets"

type facetService struct {
	facetRepo repository.FacetRepository
	txManager repository.TransactionManager
	metadata  service.MetadataProvider
	config    *config.Config
	logger    *slog.Logger
	now       func() time.Time

	seeds singleflight.Group
}

// NewFacetService creates the facet cache. With facets.maxAge unset the table is seeded once.
func NewFacetService(
	facetRepo repository.FacetRepository,
	txManager repository.TransactionManager,
	metadata service.MetadataProvider,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.FacetUsecase {
	return &facetService{
		facetRepo: facetRepo,
		txManager: txManager,
		metadata:  metadata,
		config:    cfg,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *facetService) List(ctx context.Context) (*entity.FacetSet, error) {
	facets, err := s.facetRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list facets")
	}

	if len(facets) > 0 && !s.expired(facets) {
		return groupFacets(facets), nil
	}

	v, err, _ := s.seeds.Do(facetSeedKey, func() (any, error) {
		return s.seed(context.WithoutCancel(ctx), len(facets) > 0)
	})
	if err != nil {
		return nil, err
	}
	seeded := v.([]*entity.FilterFacet)

	// Keep serving what we have when the reseed produced nothing.
	if len(seeded) == 0 && len(facets) > 0 {
		return groupFacets(facets), nil
	}

	return groupFacets(seeded), nil
}

// expired reports whether the oldest facet exceeds facets.maxAge. A zero maxAge never expires.
func (s *facetService) expired(facets []*entity.FilterFacet) bool {
	maxAge := s.config.Facets.MaxAge
	if maxAge <= 0 {
		return false
	}

	oldest := facets[0].RefreshedAt
	for _, f := range facets[1:] {
		if f.RefreshedAt.Before(oldest) {
			oldest = f.RefreshedAt
		}
	}

	return s.now().Sub(oldest) >= maxAge
}

// seed fetches every kind, persists what arrived and returns the stored taxonomy.
// Kinds that fail are skipped; a credential failure stops the whole seed.
func (s *facetService) seed(ctx context.Context, reseed bool) ([]*entity.FilterFacet, error) {
	now := s.now()
	fetched := make([]*entity.FilterFacet, 0)

	for _, kind := range entity.FacetKinds {
		refs, err := s.metadata.FetchFacets(ctx, kind)
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to fetch facets", slog.String("kind", string(kind)), slog.Any("error", err))
			if errors.Is(err, domainerrors.ErrAuth) {
				break
			}

			continue
		}

		for _, ref := range refs {
			if ref.ID == 0 || ref.Name == "" {
				continue
			}
			fetched = append(fetched, &entity.FilterFacet{
				UpstreamID:  ref.ID,
				Kind:        kind,
				Name:        ref.Name,
				RefreshedAt: now,
			})
		}
	}

	if len(fetched) == 0 {
		return fetched, nil
	}

	if err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		repo := factory.NewFacetRepository()
		if reseed {
			return repo.Upsert(ctx, fetched)
		}

		return repo.InsertIgnore(ctx, fetched)
	}); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist facets", slog.Any("error", err))

		return fetched, nil
	}

	s.logger.InfoContext(ctx, "Facets seeded", slog.Int("count", len(fetched)), slog.Bool("reseed", reseed))

	stored, err := s.facetRepo.ListAll(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to reload facets", slog.Any("error", err))

		return fetched, nil
	}

	return stored, nil
}

func groupFacets(facets []*entity.FilterFacet) *entity.FacetSet {
	set := entity.NewFacetSet()
	for _, f := range facets {
		set.Add(f.Kind, f.Name)
	}

	return set
}
