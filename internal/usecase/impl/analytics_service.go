package impl

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"strconv"
	"sync"

	"gamecatalog/internal/domain/entity"
	"gamecatalog/internal/domain/service"
	"gamecatalog/internal/usecase"
)

// Bounds of the placeholder per-stream rating shown until real stream ratings exist.
const (
	minSimulatedRating = 3.0
	maxSimulatedRating = 5.0
)

type analyticsService struct {
	metadata service.MetadataProvider
	live     service.LiveActivityProvider
	streams  service.Memo[[]entity.Stream]
	logger   *slog.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewAnalyticsService creates the stream dashboard service.
func NewAnalyticsService(
	metadata service.MetadataProvider,
	live service.LiveActivityProvider,
	streams service.Memo[[]entity.Stream],
	logger *slog.Logger,
) usecase.AnalyticsUsecase {
	return newAnalyticsService(metadata, live, streams, logger, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

func newAnalyticsService(
	metadata service.MetadataProvider,
	live service.LiveActivityProvider,
	streams service.Memo[[]entity.Stream],
	logger *slog.Logger,
	rnd *rand.Rand,
) *analyticsService {
	return &analyticsService{
		metadata: metadata,
		live:     live,
		streams:  streams,
		logger:   logger,
		rnd:      rnd,
	}
}

func (s *analyticsService) StreamDashboard(ctx context.Context, gameID int64) (*entity.StreamDashboard, error) {
	name := unknownGame
	if gameID > 0 {
		fetched, err := s.metadata.FetchGameName(ctx, gameID)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "Game name unavailable", slog.Int64("gameID", gameID), slog.Any("error", err))
		case fetched != "":
			name = fetched
		}
	}

	dashboard := &entity.StreamDashboard{
		Labels:           []string{},
		SimulatedRatings: []float64{},
		ViewerCounts:     []int{},
		Title:            streamsTitlePrefix + name,
	}

	if gameID <= 0 {
		return dashboard, nil
	}

	streams, err := s.streams.GetOrFetch(ctx, strconv.FormatInt(gameID, 10), func(ctx context.Context) ([]entity.Stream, error) {
		return s.live.FetchStreams(ctx, gameID)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Live streams unavailable", slog.Int64("gameID", gameID), slog.Any("error", err))

		return dashboard, nil
	}

	for _, stream := range streams {
		label := stream.Title
		if label == "" {
			label = untitledStream
		}
		dashboard.Labels = append(dashboard.Labels, label)
		dashboard.ViewerCounts = append(dashboard.ViewerCounts, stream.ViewerCount)
		dashboard.SimulatedRatings = append(dashboard.SimulatedRatings, s.simulatedRating())
	}

	return dashboard, nil
}

// simulatedRating draws uniformly from [3.0, 5.0] rounded to one decimal.
func (s *analyticsService) simulatedRating() float64 {
	s.mu.Lock()
	f := s.rnd.Float64()
	s.mu.Unlock()

	v := minSimulatedRating + f*(maxSimulatedRating-minSimulatedRating)

	return math.Round(v*10) / 10
}
