package auth

import (
	"testing"
	"time"

	"gamecatalog/config"
	domainerrors "gamecatalog/internal/domain/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_access_secret_key_very_long_for_testing"

func newTestVerifier(t *testing.T) *jwtVerifier {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = testSecret

	verifier, err := NewJWTVerifier(cfg)
	require.NoError(t, err)

	return verifier.(*jwtVerifier)
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return token
}

func TestNewJWTVerifier_RequiresSecret(t *testing.T) {
	_, err := NewJWTVerifier(&config.Config{})
	assert.Error(t, err)
}

func TestJWTVerifier_ValidToken(t *testing.T) {
	verifier := newTestVerifier(t)

	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	userID, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
}

func TestJWTVerifier_Rejects(t *testing.T) {
	verifier := newTestVerifier(t)
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "wrong secret",
			token: sign(t, jwt.SigningMethodHS256, []byte("another-secret"), jwt.RegisteredClaims{Subject: "7", ExpiresAt: future}),
		},
		{
			name:  "expired",
			token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "7", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}),
		},
		{
			name:  "non numeric subject",
			token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "alice", ExpiresAt: future}),
		},
		{
			name:  "other hmac algorithm",
			token: sign(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.RegisteredClaims{Subject: "7", ExpiresAt: future}),
		},
		{
			name:  "garbage",
			token: "not-a-jwt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(tt.token)
			assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
		})
	}
}
