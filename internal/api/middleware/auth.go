package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/ports"
)

const (
	KeyIdentity = "identity"
	KeyToken    = "token"
	KeyAdmin    = "admin"
)

// Auth verifies the bearer token with the auth provider and injects the
// identity into context. Browsers cannot set headers on a websocket upgrade,
// so a token query parameter is accepted there.
func Auth(provider ports.AuthProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}

			identity, err := provider.Verify(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(KeyIdentity, identity)
			c.Set(KeyToken, token)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		if t := c.QueryParam("token"); t != "" && c.IsWebSocket() {
			return t, nil
		}
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}

// Identity returns the identity set by Auth.
func Identity(c echo.Context) (*domain.Identity, bool) {
	id, ok := c.Get(KeyIdentity).(*domain.Identity)
	return id, ok && id != nil
}
