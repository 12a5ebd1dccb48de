package service

// AccessTokenVerifier validates bearer tokens issued by the external auth collaborator.
type AccessTokenVerifier interface {
	// Verify returns the user id carried in the token subject.
	Verify(token string) (int64, error)
}
