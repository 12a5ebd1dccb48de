package impl

import (
	"context"
	"testing"
	"time"

	"gamecatalog/config"
	"gamecatalog/internal/domain/entity"
	domainerrors "gamecatalog/internal/domain/errors"
	"gamecatalog/internal/domain/repository"
	"gamecatalog/internal/domain/service"
	"gamecatalog/internal/infra/persistence/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type facetServiceFixture struct {
	service  *facetService
	repo     repository.FacetRepository
	metadata *mockMetadata
	config   *config.Config
	now      time.Time
}

func createTestFacetService(t *testing.T) *facetServiceFixture {
	t.Helper()

	db := newTestDB(t)
	repo := postgres.NewFacetRepository(db)
	metadata := &mockMetadata{pageSize: 500}
	cfg := newTestConfig()

	fx := &facetServiceFixture{repo: repo, metadata: metadata, config: cfg, now: fixedNow}
	svc := NewFacetService(repo, postgres.NewTransactionManager(db), metadata, cfg, newTestLogger()).(*facetService)
	svc.now = func() time.Time { return fx.now }
	fx.service = svc

	return fx
}

func (fx *facetServiceFixture) expectFacets(kind entity.FacetKind, refs ...service.NamedRef) *mock.Call {
	return fx.metadata.On("FetchFacets", mock.Anything, kind).Return(refs, nil)
}

func TestFacetService_SeedsOnceAndServesFromStore(t *testing.T) {
	fx := createTestFacetService(t)
	ctx := context.Background()

	fx.expectFacets(entity.FacetKindPlatform, service.NamedRef{ID: 6, Name: "PC (Microsoft Windows)"}, service.NamedRef{ID: 48, Name: "PlayStation 4"}).Once()
	fx.expectFacets(entity.FacetKindGenre, service.NamedRef{ID: 12, Name: "Role-playing (RPG)"}).Once()
	fx.expectFacets(entity.FacetKindMode, service.NamedRef{ID: 1, Name: "Single player"}).Once()
	fx.expectFacets(entity.FacetKindDeveloper, service.NamedRef{ID: 70, Name: "Ion Storm"}, service.NamedRef{ID: 0, Name: "ignored"}).Once()

	first, err := fx.service.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"PC (Microsoft Windows)", "PlayStation 4"}, first.Platforms)
	assert.Equal(t, []string{"Role-playing (RPG)"}, first.Genres)
	assert.Equal(t, []string{"Single player"}, first.Modes)
	assert.Equal(t, []string{"Ion Storm"}, first.Developers)

	second, err := fx.service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	fx.metadata.AssertNumberOfCalls(t, "FetchFacets", len(entity.FacetKinds))
}

func TestFacetService_FailedKindIsSkipped(t *testing.T) {
	fx := createTestFacetService(t)

	fx.expectFacets(entity.FacetKindPlatform, service.NamedRef{ID: 6, Name: "PC (Microsoft Windows)"})
	fx.metadata.On("FetchFacets", mock.Anything, entity.FacetKindGenre).
		Return(nil, domainerrors.ErrUpstreamUnavailable.WrapMessage("status 500"))
	fx.expectFacets(entity.FacetKindMode, service.NamedRef{ID: 1, Name: "Single player"})
	fx.expectFacets(entity.FacetKindDeveloper)

	set, err := fx.service.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"PC (Microsoft Windows)"}, set.Platforms)
	assert.Empty(t, set.Genres)
	assert.Equal(t, []string{"Single player"}, set.Modes)
	assert.Empty(t, set.Developers)
}

func TestFacetService_AuthFailureStopsSeeding(t *testing.T) {
	fx := createTestFacetService(t)

	fx.metadata.On("FetchFacets", mock.Anything, entity.FacetKindPlatform).
		Return(nil, domainerrors.ErrAuth.WrapMessage("invalid client"))

	set, err := fx.service.List(context.Background())
	require.NoError(t, err)

	assert.Zero(t, set.Len())
	assert.NotNil(t, set.Platforms)
	fx.metadata.AssertNumberOfCalls(t, "FetchFacets", 1)
}

func TestFacetService_EmptyStoreRetriesSeeding(t *testing.T) {
	fx := createTestFacetService(t)
	ctx := context.Background()

	for _, kind := range entity.FacetKinds {
		fx.expectFacets(kind)
	}

	_, err := fx.service.List(ctx)
	require.NoError(t, err)
	_, err = fx.service.List(ctx)
	require.NoError(t, err)

	fx.metadata.AssertNumberOfCalls(t, "FetchFacets", 2*len(entity.FacetKinds))
}

func TestFacetService_ReseedsAfterMaxAge(t *testing.T) {
	fx := createTestFacetService(t)
	fx.config.Facets.MaxAge = time.Hour
	ctx := context.Background()

	fx.expectFacets(entity.FacetKindPlatform, service.NamedRef{ID: 6, Name: "PC"}).Once()
	fx.expectFacets(entity.FacetKindGenre).Once()
	fx.expectFacets(entity.FacetKindMode).Once()
	fx.expectFacets(entity.FacetKindDeveloper).Once()

	set, err := fx.service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"PC"}, set.Platforms)

	// Within maxAge the store is served as is.
	fx.now = fixedNow.Add(30 * time.Minute)
	set, err = fx.service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"PC"}, set.Platforms)

	fx.now = fixedNow.Add(2 * time.Hour)
	fx.expectFacets(entity.FacetKindPlatform, service.NamedRef{ID: 6, Name: "PC (Microsoft Windows)"}).Once()
	fx.expectFacets(entity.FacetKindGenre).Once()
	fx.expectFacets(entity.FacetKindMode).Once()
	fx.expectFacets(entity.FacetKindDeveloper).Once()

	set, err = fx.service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"PC (Microsoft Windows)"}, set.Platforms)

	stored, err := fx.repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, fx.now.Equal(stored[0].RefreshedAt))
}
