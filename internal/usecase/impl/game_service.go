package impl

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"gamecatalog/config"
	deliverycontext "gamecatalog/internal/delivery/context"
	"gamecatalog/internal/domain/entity"
	domainerrors "gamecatalog/internal/domain/errors"
	"gamecatalog/internal/domain/repository"
	"gamecatalog/internal/domain/service"
	"gamecatalog/internal/usecase"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

type gameService struct {
	gameRepo   repository.GameRepository
	metadata   service.MetadataProvider
	translator service.Translator
	config     *config.Config
	logger     *slog.Logger
	now        func() time.Time

	// refreshes collapses concurrent refreshes of the same id.
	refreshes singleflight.Group
}

// NewGameService creates the freshness-gated game record cache.
func NewGameService(
	gameRepo repository.GameRepository,
	metadata service.MetadataProvider,
	translator service.Translator,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.GameUsecase {
	return &gameService{
		gameRepo:   gameRepo,
		metadata:   metadata,
		translator: translator,
		config:     cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (s *gameService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerOrDefault(ctx, s.logger)
}

func (s *gameService) Get(ctx context.Context, id int64) (*entity.Game, error) {
	return s.GetOrRefresh(ctx, id, s.config.Cache.GameMaxAge)
}

func (s *gameService) GetOrRefresh(ctx context.Context, id int64, maxAge time.Duration) (*entity.Game, error) {
	if id <= 0 {
		return nil, domainerrors.ErrGameNotFound
	}

	cached, err := s.gameRepo.FindByID(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		return nil, errors.Wrap(err, "failed to read cached game")
	}

	if cached.IsFresh(s.now(), maxAge) {
		return cached, nil
	}

	v, err, _ := s.refreshes.Do(strconv.FormatInt(id, 10), func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx), id)
	})
	if err == nil {
		return v.(*entity.Game), nil
	}

	if cached != nil {
		s.log(ctx).WarnContext(ctx, "Serving stale game after failed refresh",
			slog.Int64("gameID", id),
			slog.Time("refreshedAt", cached.RefreshedAt),
			slog.Any("error", err),
		)

		return cached, nil
	}

	// Credential failures abort the request; every other upstream outcome means the game is unknown.
	if errors.Is(err, domainerrors.ErrAuth) {
		return nil, err
	}

	s.log(ctx).InfoContext(ctx, "Game not found locally or upstream", slog.Int64("gameID", id), slog.Any("error", err))

	return nil, domainerrors.ErrGameNotFound
}

func (s *gameService) refresh(ctx context.Context, id int64) (*entity.Game, error) {
	raw, err := s.metadata.FetchGame(ctx, id)
	if err != nil {
		return nil, err
	}

	game := NormalizeGame(raw)
	game.ID = id
	game.Summary = s.translator.Translate(ctx, game.Summary, s.config.Translate.Source, s.config.Translate.Target)
	game.RefreshedAt = s.now()

	if err := s.gameRepo.Upsert(ctx, game); err != nil {
		// The fetched record is still correct; the next request retries the write.
		s.log(ctx).ErrorContext(ctx, "Failed to persist refreshed game", slog.Int64("gameID", id), slog.Any("error", err))
	}

	return game, nil
}
