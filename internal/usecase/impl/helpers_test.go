package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"gamecatalog/config"
	"gamecatalog/internal/domain/entity"
	"gamecatalog/internal/domain/service"
	"gamecatalog/internal/infra/persistence/postgres"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Cache:     &config.CacheConfig{GameMaxAge: 24 * time.Hour},
		Facets:    &config.FacetsConfig{},
		Translate: &config.TranslateConfig{Source: "en", Target: "pt"},
		Memo: &config.MemoConfig{
			Capacity:           100,
			NumShards:          4,
			EvictionPercentage: 10,
			SuggestionsTTL:     time.Minute,
			StreamsTTL:         30 * time.Second,
		},
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := postgres.Open(&config.DatabaseConfig{
		Driver: config.DriverSQLite,
		SQLite: config.SQLiteConfig{Path: ":memory:"},
	}, nil, false)
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(context.Background(), db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func ptr[T any](v T) *T {
	return &v
}

// mockMetadata is a testify mock of service.MetadataProvider.
type mockMetadata struct {
	mock.Mock
	pageSize int
}

func (m *mockMetadata) FetchGame(ctx context.Context, id int64) (*service.RawGame, error) {
	args := m.Called(ctx, id)
	game, _ := args.Get(0).(*service.RawGame)

	return game, args.Error(1)
}

func (m *mockMetadata) FetchCatalogPage(ctx context.Context, query entity.CatalogQuery) ([]service.RawGame, error) {
	args := m.Called(ctx, query)
	games, _ := args.Get(0).([]service.RawGame)

	return games, args.Error(1)
}

func (m *mockMetadata) FetchSuggestions(ctx context.Context, term string) ([]service.RawGame, error) {
	args := m.Called(ctx, term)
	games, _ := args.Get(0).([]service.RawGame)

	return games, args.Error(1)
}

func (m *mockMetadata) FetchFacets(ctx context.Context, kind entity.FacetKind) ([]service.NamedRef, error) {
	args := m.Called(ctx, kind)
	refs, _ := args.Get(0).([]service.NamedRef)

	return refs, args.Error(1)
}

func (m *mockMetadata) FetchGameName(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)

	return args.String(0), args.Error(1)
}

func (m *mockMetadata) PageSize() int {
	return m.pageSize
}

type mockLiveActivity struct {
	mock.Mock
}

func (m *mockLiveActivity) FetchStreams(ctx context.Context, gameID int64) ([]entity.Stream, error) {
	args := m.Called(ctx, gameID)
	streams, _ := args.Get(0).([]entity.Stream)

	return streams, args.Error(1)
}

// prefixTranslator marks translated text so tests can see the adapter ran.
type prefixTranslator struct{}

func (prefixTranslator) Translate(_ context.Context, text, _, target string) string {
	if text == "" {
		return text
	}

	return target + ":" + text
}
