package impl

import (
	"context"
	"log/slog"
	"strings"

	"gamecatalog/internal/domain/entity"
	"gamecatalog/internal/domain/service"
	"gamecatalog/internal/usecase"
)

type catalogService struct {
	metadata    service.MetadataProvider
	suggestions service.Memo[[]entity.Suggestion]
	logger      *slog.Logger
}

// NewCatalogService creates the catalog listing service. Listings are never persisted.
func NewCatalogService(
	metadata service.MetadataProvider,
	suggestions service.Memo[[]entity.Suggestion],
	logger *slog.Logger,
) usecase.CatalogUsecase {
	return &catalogService{
		metadata:    metadata,
		suggestions: suggestions,
		logger:      logger,
	}
}

func (s *catalogService) Page(ctx context.Context, query entity.CatalogQuery) (*entity.CatalogPage, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	query.Search = strings.TrimSpace(query.Search)

	page := &entity.CatalogPage{
		Page:   query.Page,
		Search: query.Search,
		Items:  []entity.CatalogItem{},
	}

	raw, err := s.metadata.FetchCatalogPage(ctx, query)
	if err != nil {
		s.logger.WarnContext(ctx, "Catalog page unavailable",
			slog.Int("page", query.Page),
			slog.String("search", query.Search),
			slog.Any("error", err),
		)

		return page, nil
	}

	for _, g := range raw {
		if g.ID == 0 {
			continue
		}

		title := g.Name
		if title == "" {
			title = untitledGame
		}

		page.Items = append(page.Items, entity.CatalogItem{
			ID:       g.ID,
			Title:    title,
			ImageURL: coverURL(g.Cover, coverBigSize, coverPlaceholder),
		})
	}
	page.HasNext = len(raw) == s.metadata.PageSize()

	return page, nil
}

func (s *catalogService) Suggestions(ctx context.Context, term string) ([]entity.Suggestion, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []entity.Suggestion{}, nil
	}

	suggestions, err := s.suggestions.GetOrFetch(ctx, strings.ToLower(term), func(ctx context.Context) ([]entity.Suggestion, error) {
		raw, err := s.metadata.FetchSuggestions(ctx, term)
		if err != nil {
			return nil, err
		}

		out := make([]entity.Suggestion, 0, len(raw))
		for _, g := range raw {
			if g.ID == 0 {
				continue
			}
			out = append(out, entity.Suggestion{
				Name:  g.Name,
				ID:    g.ID,
				Image: coverURL(g.Cover, coverSmallSize, thumbPlaceholder),
			})
		}

		return out, nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Suggestions unavailable", slog.String("term", term), slog.Any("error", err))

		return []entity.Suggestion{}, nil
	}

	return suggestions, nil
}
