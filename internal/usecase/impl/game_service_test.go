package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"gamecatalog/internal/domain/entity"
	domainerrors "gamecatalog/internal/domain/errors"
	"gamecatalog/internal/domain/repository"
	"gamecatalog/internal/domain/service"
	"gamecatalog/internal/infra/persistence/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type gameServiceFixture struct {
	service  *gameService
	repo     repository.GameRepository
	metadata *mockMetadata
}

func createTestGameService(t *testing.T) *gameServiceFixture {
	t.Helper()

	repo := postgres.NewGameRepository(newTestDB(t))
	metadata := &mockMetadata{pageSize: 500}

	svc := NewGameService(repo, metadata, prefixTranslator{}, newTestConfig(), newTestLogger()).(*gameService)
	svc.now = func() time.Time { return fixedNow }

	return &gameServiceFixture{
		service:  svc,
		repo:     repo,
		metadata: metadata,
	}
}

func deusEx() *service.RawGame {
	return &service.RawGame{
		ID:               1942,
		Name:             "Deus Ex",
		Summary:          "A cyberpunk action RPG.",
		TotalRating:      ptr(87.3),
		TotalRatingCount: ptr(412),
		Genres:           []service.NamedRef{{ID: 12, Name: "RPG"}},
		Platforms:        []service.NamedRef{{ID: 6, Name: "PC (Microsoft Windows)"}, {ID: 14, Name: "Mac"}},
		InvolvedCompanies: []service.InvolvedCompany{
			{Company: service.NamedRef{ID: 1, Name: "Ion Storm"}, Developer: true},
			{Company: service.NamedRef{ID: 2, Name: "Eidos Interactive"}, Developer: false},
		},
		Cover:            &service.Cover{URL: "//images.igdb.com/igdb/image/upload/t_thumb/co1r7h.jpg"},
		FirstReleaseDate: ptr(int64(946684800)),
	}
}

func TestGameService_MissFetchesNormalizesAndPersists(t *testing.T) {
	fx := createTestGameService(t)
	ctx := context.Background()

	fx.metadata.On("FetchGame", mock.Anything, int64(1942)).Return(deusEx(), nil).Once()

	game, err := fx.service.Get(ctx, 1942)
	require.NoError(t, err)

	assert.Equal(t, "Deus Ex", game.Name)
	assert.Equal(t, "pt:A cyberpunk action RPG.", game.Summary)
	require.NotNil(t, game.Rating)
	assert.InDelta(t, 87.3, *game.Rating, 0.0001)
	assert.Equal(t, "RPG", game.Genres)
	assert.Equal(t, "PC (Microsoft Windows), Mac", game.Platforms)
	assert.Equal(t, "Ion Storm", game.Developers)
	assert.Equal(t, "https://images.igdb.com/igdb/image/upload/t_cover_big/co1r7h.jpg", game.ImageURL)
	require.NotNil(t, game.ReleaseDate)
	assert.True(t, time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC).Equal(*game.ReleaseDate))

	stored, err := fx.repo.FindByID(ctx, 1942)
	require.NoError(t, err)
	assert.Equal(t, "Deus Ex", stored.Name)
	assert.Equal(t, "RPG", stored.Genres)
	assert.True(t, fixedNow.Equal(stored.RefreshedAt))
	require.NotNil(t, stored.ReleaseDate)
	assert.Equal(t, "2000-01-01", stored.ReleaseDate.UTC().Format(time.DateOnly))

	fx.metadata.AssertExpectations(t)
}

func TestGameService_FreshRecordSkipsUpstream(t *testing.T) {
	fx := createTestGameService(t)
	ctx := context.Background()

	seededAt := fixedNow.Add(-time.Hour)
	require.NoError(t, fx.repo.Upsert(ctx, &entity.Game{
		ID:          1942,
		Name:        "Deus Ex",
		RefreshedAt: seededAt,
	}))

	game, err := fx.service.GetOrRefresh(ctx, 1942, 24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "Deus Ex", game.Name)
	assert.True(t, seededAt.Equal(game.RefreshedAt))
	fx.metadata.AssertNotCalled(t, "FetchGame", mock.Anything, mock.Anything)

	stored, err := fx.repo.FindByID(ctx, 1942)
	require.NoError(t, err)
	assert.True(t, seededAt.Equal(stored.RefreshedAt))
}

func TestGameService_RepeatedReadsFetchOnce(t *testing.T) {
	fx := createTestGameService(t)
	ctx := context.Background()

	fx.metadata.On("FetchGame", mock.Anything, int64(1942)).Return(deusEx(), nil).Once()

	first, err := fx.service.Get(ctx, 1942)
	require.NoError(t, err)
	second, err := fx.service.Get(ctx, 1942)
	require.NoError(t, err)

	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, first.Genres, second.Genres)
	fx.metadata.AssertNumberOfCalls(t, "FetchGame", 1)
}

func TestGameService_StaleRecordIsRefreshed(t *testing.T) {
	fx := createTestGameService(t)
	ctx := context.Background()

	require.NoError(t, fx.repo.Upsert(ctx, &entity.Game{
		ID:          1942,
		Name:        "Deus Ex (old)",
		RefreshedAt: fixedNow.Add(-48 * time.Hour),
	}))
	fx.metadata.On("FetchGame", mock.Anything, int64(1942)).Return(deusEx(), nil).Once()

	game, err := fx.service.Get(ctx, 1942)
	require.NoError(t, err)
	assert.Equal(t, "Deus Ex", game.Name)

	stored, err := fx.repo.FindByID(ctx, 1942)
	require.NoError(t, err)
	assert.Equal(t, "Deus Ex", stored.Name)
	assert.True(t, fixedNow.Equal(stored.RefreshedAt))
}

func TestGameService_StaleRecordServedWhenRefreshFails(t *testing.T) {
	fx := createTestGameService(t)
	ctx := context.Background()

	staleAt := fixedNow.Add(-48 * time.Hour)
	require.NoError(t, fx.repo.Upsert(ctx, &entity.Game{
		ID:          1942,
		Name:        "Deus Ex",
		Genres:      "RPG",
		RefreshedAt: staleAt,
	}))
	fx.metadata.On("FetchGame", mock.Anything, int64(1942)).
		Return(nil, domainerrors.ErrUpstreamUnavailable.WrapMessage("igdb returned status 500")).Once()

	game, err := fx.service.Get(ctx, 1942)
	require.NoError(t, err)
	assert.Equal(t, "Deus Ex", game.Name)
	assert.True(t, staleAt.Equal(game.RefreshedAt))

	stored, err := fx.repo.FindByID(ctx, 1942)
	require.NoError(t, err)
	assert.True(t, staleAt.Equal(stored.RefreshedAt), "a failed refresh must not restamp the record")
}

func TestGameService_UnknownGameIsNotFound(t *testing.T) {
	fx := createTestGameService(t)

	fx.metadata.On("FetchGame", mock.Anything, int64(999999)).Return(nil, service.ErrUpstreamRecordNotFound).Once()

	game, err := fx.service.Get(context.Background(), 999999)

	assert.Nil(t, game)
	assert.ErrorIs(t, err, domainerrors.ErrGameNotFound)

	_, err = fx.repo.FindByID(context.Background(), 999999)
	assert.ErrorIs(t, err, repository.ErrGameNotFound)
}

func TestGameService_UpstreamOutageWithoutRecordIsNotFound(t *testing.T) {
	fx := createTestGameService(t)

	fx.metadata.On("FetchGame", mock.Anything, int64(7)).
		Return(nil, domainerrors.ErrUpstreamUnavailable.WrapMessage("timeout")).Once()

	_, err := fx.service.Get(context.Background(), 7)

	assert.ErrorIs(t, err, domainerrors.ErrGameNotFound)
}

func TestGameService_AuthFailureWithoutRecordPropagates(t *testing.T) {
	fx := createTestGameService(t)

	fx.metadata.On("FetchGame", mock.Anything, int64(7)).
		Return(nil, domainerrors.ErrAuth.WrapMessage("token endpoint returned 400")).Once()

	_, err := fx.service.Get(context.Background(), 7)

	assert.ErrorIs(t, err, domainerrors.ErrAuth)
}

func TestGameService_InvalidIDSkipsUpstream(t *testing.T) {
	fx := createTestGameService(t)

	for _, id := range []int64{0, -5} {
		_, err := fx.service.Get(context.Background(), id)
		assert.ErrorIs(t, err, domainerrors.ErrGameNotFound)
	}

	fx.metadata.AssertNotCalled(t, "FetchGame", mock.Anything, mock.Anything)
}

func TestGameService_ConcurrentMissesShareOneFetch(t *testing.T) {
	fx := createTestGameService(t)

	release := make(chan time.Time)
	fx.metadata.On("FetchGame", mock.Anything, int64(1942)).
		WaitUntil(release).
		Return(deusEx(), nil)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.service.Get(context.Background(), 1942)
			errs <- err
		}()
	}

	// Give every caller time to join the in-flight refresh.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	fx.metadata.AssertNumberOfCalls(t, "FetchGame", 1)
}
