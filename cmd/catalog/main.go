package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"gamecatalog/config"
	"gamecatalog/internal/delivery"
	"gamecatalog/internal/delivery/api"
	"gamecatalog/internal/delivery/api/middleware"
	"gamecatalog/internal/delivery/api/router/handler"
	"gamecatalog/internal/infra/auth"
	"gamecatalog/internal/infra/helix"
	"gamecatalog/internal/infra/igdb"
	logs "gamecatalog/internal/infra/log"
	"gamecatalog/internal/infra/memcache"
	"gamecatalog/internal/infra/persistence/postgres"
	"gamecatalog/internal/infra/translate"
	"gamecatalog/internal/infra/twitch"
	"gamecatalog/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		newUpstreamHTTPClient,
	)
}

// newUpstreamHTTPClient is shared by the token endpoint, IGDB and Helix.
// Per-call deadlines come from upstream.timeout; this is the outer bound.
func newUpstreamHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.Upstream.Timeout}
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewGameRepository,
			postgres.NewFacetRepository,
			postgres.NewReviewRepository,
			postgres.NewTranslationRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			twitch.New,
			igdb.New,
			helix.New,
			translate.New,
			auth.NewJWTVerifier,
			memcache.NewSuggestionMemo,
			memcache.NewStreamMemo,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewGameService,
			impl.NewFacetService,
			impl.NewReviewService,
			impl.NewCatalogService,
			impl.NewAnalyticsService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewGameHandler,
			handler.NewReviewHandler,
			handler.NewFacetHandler,
			handler.NewAnalyticsHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
