package model

import "time"

// TranslationMemoModel is the GORM-specific struct for the 'translation_memos' table.
type TranslationMemoModel struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	SourceHash     string `gorm:"type:char(64);not null;uniqueIndex"`
	SourceText     string `gorm:"type:text;not null"`
	TranslatedText string `gorm:"type:text;not null"`
	SourceLang     string `gorm:"type:varchar(8);not null"`
	TargetLang     string `gorm:"type:varchar(8);not null"`
	CreatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (TranslationMemoModel) TableName() string {
	return "translation_memos"
}
