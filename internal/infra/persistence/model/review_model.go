package model

import "time"

// ReviewModel is the GORM-specific struct for the 'reviews' table.
// A user has at most one review per game, enforced by unique_user_game_review.
type ReviewModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	UserID    int64  `gorm:"not null;uniqueIndex:unique_user_game_review"`
	GameID    int64  `gorm:"not null;uniqueIndex:unique_user_game_review;index"`
	Rating    int    `gorm:"not null;check:chk_reviews_rating,rating >= 0 AND rating <= 100"`
	Comment   string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Game GameModel `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (ReviewModel) TableName() string {
	return "reviews"
}
