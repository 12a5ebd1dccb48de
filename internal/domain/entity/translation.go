package entity

import "time"

// TranslationMemo remembers a completed translation so the same text is never sent twice.
type TranslationMemo struct {
	ID             int64
	SourceHash     string
	SourceText     string
	TranslatedText string
	SourceLang     string
	TargetLang     string
	CreatedAt      time.Time
}
