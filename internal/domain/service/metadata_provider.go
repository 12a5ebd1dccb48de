// Package service declares the external collaborators the use cases depend on.
package service

import (
	"context"
	"errors"

	"gamecatalog/internal/domain/entity"
)

// ErrUpstreamRecordNotFound is returned when the metadata provider answers with no record for an id.
var ErrUpstreamRecordNotFound = errors.New("upstream record not found")

// NamedRef is a related entity reduced to its display name.
type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Cover is a game's cover art reference. URL is protocol relative and points at a thumbnail.
type Cover struct {
	URL string `json:"url"`
}

// InvolvedCompany links a company to a game with its role.
type InvolvedCompany struct {
	Company   NamedRef `json:"company"`
	Developer bool     `json:"developer"`
}

// RawGame is a game record exactly as the metadata provider returns it.
// Optional fields are pointers so absence can be told apart from zero.
type RawGame struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	Summary           string            `json:"summary"`
	TotalRating       *float64          `json:"total_rating"`
	TotalRatingCount  *int              `json:"total_rating_count"`
	AggregatedRating  *float64          `json:"aggregated_rating"`
	Genres            []NamedRef        `json:"genres"`
	Platforms         []NamedRef        `json:"platforms"`
	GameModes         []NamedRef        `json:"game_modes"`
	InvolvedCompanies []InvolvedCompany `json:"involved_companies"`
	Cover             *Cover            `json:"cover"`
	FirstReleaseDate  *int64            `json:"first_release_date"`
}

// HasRatingSignal reports whether either rating field carries a non-zero value.
func (g RawGame) HasRatingSignal() bool {
	return (g.TotalRating != nil && *g.TotalRating != 0) ||
		(g.AggregatedRating != nil && *g.AggregatedRating != 0)
}

// MetadataProvider queries the external game metadata API.
// Errors wrap domainerrors.ErrAuth or domainerrors.ErrUpstreamUnavailable.
type MetadataProvider interface {
	// FetchGame returns the full record for id, or ErrUpstreamRecordNotFound.
	FetchGame(ctx context.Context, id int64) (*RawGame, error)

	// FetchCatalogPage returns one page of the catalog listing for query.
	FetchCatalogPage(ctx context.Context, query entity.CatalogQuery) ([]RawGame, error)

	// FetchSuggestions returns up to ten name matches for term, most rated first.
	FetchSuggestions(ctx context.Context, term string) ([]RawGame, error)

	// FetchFacets returns the names available for one facet kind.
	FetchFacets(ctx context.Context, kind entity.FacetKind) ([]NamedRef, error)

	// FetchGameName returns only the display name of a game.
	FetchGameName(ctx context.Context, id int64) (string, error)

	// PageSize is the number of records requested per catalog page.
	PageSize() int
}
