package service

import "context"

// Translator converts text between languages. It never fails: on any error the
// input is returned unchanged.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) string
}
