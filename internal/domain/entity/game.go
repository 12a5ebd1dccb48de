// Package entity contains the core business objects of the project.
package entity

import "time"

// Game is the locally cached representation of an upstream game record.
type Game struct {
	ID          int64      `json:"id"`           // Upstream (IGDB) identifier, assigned externally.
	Name        string     `json:"name"`         // Display name.
	Summary     string     `json:"summary"`      // Summary text after translation.
	Rating      *float64   `json:"rating"`       // Upstream total rating (0-100), nil when unrated.
	RatingCount *int       `json:"rating_count"` // Number of upstream ratings behind Rating.
	Genres      string     `json:"genres"`       // Comma separated genre names.
	Platforms   string     `json:"platforms"`    // Comma separated platform names.
	GameModes   string     `json:"game_modes"`   // Comma separated game mode names.
	Developers  string     `json:"developers"`   // Comma separated developer company names.
	ReleaseDate *time.Time `json:"release_date"` // First release date (UTC, date precision).
	ImageURL    string     `json:"image_url"`    // Cover image URL or placeholder.
	RefreshedAt time.Time  `json:"refreshed_at"` // When the record was last written from upstream.
}

// IsFresh reports whether the record was refreshed less than maxAge before now.
func (g *Game) IsFresh(now time.Time, maxAge time.Duration) bool {
	if g == nil || g.RefreshedAt.IsZero() || maxAge <= 0 {
		return false
	}

	return now.Sub(g.RefreshedAt) < maxAge
}
