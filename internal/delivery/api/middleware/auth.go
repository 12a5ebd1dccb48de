package middleware

import (
	"strings"

	"gamecatalog/internal/delivery/api/response"
	deliverycontext "gamecatalog/internal/delivery/context"
	"gamecatalog/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware authenticates review submissions with a bearer access token.
type AuthMiddleware struct {
	verifier service.AccessTokenVerifier
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(verifier service.AccessTokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate rejects requests without a valid token and stores the user id on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "UNAUTHORIZED", "Authorization header is missing")
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			return response.Unauthorized(c, "UNAUTHORIZED", "Invalid token format, must be Bearer token")
		}

		userID, err := m.verifier.Verify(tokenString)
		if err != nil {
			return response.Unauthorized(c, "UNAUTHORIZED", "Invalid or expired token")
		}

		deliverycontext.SetUserID(c, userID)

		return next(c)
	}
}
