package service

import "context"

// TokenSource hands out the application access token shared by the upstream clients.
type TokenSource interface {
	// Token returns a valid bearer token or an error wrapping domainerrors.ErrAuth.
	Token(ctx context.Context) (string, error)

	// Invalidate drops the cached token so the next Token call requests a new one.
	Invalidate()
}
