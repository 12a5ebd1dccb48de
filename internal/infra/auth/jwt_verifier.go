// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strconv"

	"gamecatalog/config"
	domainerrors "gamecatalog/internal/domain/errors"
	"gamecatalog/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// jwtVerifier validates HS256 access tokens whose subject is a numeric user id.
type jwtVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTVerifier is the constructor for jwtVerifier.
func NewJWTVerifier(cfg *config.Config) (service.AccessTokenVerifier, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("access token secret must be provided")
	}

	return &jwtVerifier{
		secret: []byte(cfg.SecretKey.Access),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}, nil
}

// Verify checks signature and expiry and returns the user id from the subject claim.
func (v *jwtVerifier) Verify(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, domainerrors.ErrUnauthorized.WrapMessage("invalid or expired token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, domainerrors.ErrUnauthorized.WrapMessage("token subject is not a user id")
	}

	return userID, nil
}
