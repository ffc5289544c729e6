package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/ports"
)

// AdminOnly lets through identities whose profile grants dashboard access.
// It must run after Auth.
func AdminOnly(admins ports.AdminService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := Identity(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			profile, err := admins.Authorize(c.Request().Context(), id.UID)
			if err != nil {
				return err
			}

			c.Set(KeyAdmin, profile)
			return next(c)
		}
	}
}

// Admin returns the profile set by AdminOnly.
func Admin(c echo.Context) (*domain.User, bool) {
	u, ok := c.Get(KeyAdmin).(*domain.User)
	return u, ok && u != nil
}
