package model

import "time"

// GameModel is the GORM-specific struct for the 'games' table.
// The primary key is the upstream id and is never generated locally.
type GameModel struct {
	ID          int64      `gorm:"primaryKey;autoIncrement:false"`
	Name        string     `gorm:"type:varchar(255);not null"`
	Summary     string     `gorm:"type:text"`
	Rating      *float64   `gorm:"type:double precision"`
	RatingCount *int       `gorm:"type:integer"`
	Genres      string     `gorm:"type:text"`
	Platforms   string     `gorm:"type:text"`
	GameModes   string     `gorm:"type:text"`
	Developers  string     `gorm:"type:text"`
	ReleaseDate *time.Time `gorm:"type:date"`
	ImageURL    string     `gorm:"type:varchar(512)"`
	RefreshedAt time.Time  `gorm:"not null;index"`
}

// TableName explicitly sets the table name for GORM.
func (GameModel) TableName() string {
	return "games"
}
