package entity

import "time"

// Rating bounds accepted for a user review.
const (
	MinReviewRating = 0
	MaxReviewRating = 100
)

// Review is a user's rating of a game. There is at most one per (UserID, GameID).
type Review struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	GameID    int64     `json:"game_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingStats aggregates the reviews of a single game. Mean is nil when Count is zero.
type RatingStats struct {
	GameID int64    `json:"game_id"`
	Mean   *float64 `json:"mean"`
	Count  int64    `json:"count"`
}
