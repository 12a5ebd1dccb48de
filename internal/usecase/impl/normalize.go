package impl

import (
	"strings"
	"time"

	"gamecatalog/internal/domain/entity"
	"gamecatalog/internal/domain/service"
)

// IGDB image size tokens and the placeholders used when a cover is missing.
const (
	thumbSize          = "t_thumb"
	coverBigSize       = "t_cover_big"
	coverSmallSize     = "t_cover_small"
	coverPlaceholder   = "https://via.placeholder.com/300x400?text=Sem+Imagem"
	thumbPlaceholder   = "https://via.placeholder.com/30x30?text=I"
	untitledGame       = "Jogo Sem Nome"
	unknownGame        = "Jogo Desconhecido"
	untitledStream     = "Stream Sem Título"
	streamsTitlePrefix = "Streams Ativas de: "
	listSeparator      = ", "
)

// NormalizeGame flattens a raw upstream record into the cached shape.
// It does not translate the summary or stamp RefreshedAt.
func NormalizeGame(raw *service.RawGame) *entity.Game {
	game := &entity.Game{
		ID:          raw.ID,
		Name:        raw.Name,
		Summary:     raw.Summary,
		Rating:      raw.TotalRating,
		RatingCount: raw.TotalRatingCount,
		Genres:      joinNames(raw.Genres),
		Platforms:   joinNames(raw.Platforms),
		GameModes:   joinNames(raw.GameModes),
		Developers:  joinDevelopers(raw.InvolvedCompanies),
		ImageURL:    coverURL(raw.Cover, coverBigSize, coverPlaceholder),
	}

	if raw.FirstReleaseDate != nil {
		t := time.Unix(*raw.FirstReleaseDate, 0).UTC()
		release := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		game.ReleaseDate = &release
	}

	return game
}

func joinNames(refs []service.NamedRef) string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.Name != "" {
			names = append(names, ref.Name)
		}
	}

	return strings.Join(names, listSeparator)
}

func joinDevelopers(companies []service.InvolvedCompany) string {
	names := make([]string, 0, len(companies))
	for _, ic := range companies {
		if ic.Developer && ic.Company.Name != "" {
			names = append(names, ic.Company.Name)
		}
	}

	return strings.Join(names, listSeparator)
}

// coverURL swaps the thumbnail size token for size and makes protocol-relative URLs absolute.
func coverURL(cover *service.Cover, size, placeholder string) string {
	if cover == nil || cover.URL == "" {
		return placeholder
	}

	url := strings.ReplaceAll(cover.URL, thumbSize, size)
	if strings.HasPrefix(url, "//") {
		url = "https:" + url
	}

	return url
}
