package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dashblogger/admin-console/internal/api/middleware"
	"github.com/dashblogger/admin-console/internal/core/domain"
)

// ctxAdmin extracts the admin profile injected by the AdminOnly middleware.
// A missing profile means the route was mounted without it.
func ctxAdmin(c echo.Context) (*domain.User, error) {
	admin, ok := middleware.Admin(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return admin, nil
}

// ctxSession returns the identity and raw token set by the Auth middleware.
func ctxSession(c echo.Context) (*domain.Identity, string, error) {
	id, ok := middleware.Identity(c)
	if !ok {
		return nil, "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	token, _ := c.Get(middleware.KeyToken).(string)
	return id, token, nil
}

// bindValid binds the request body into req and runs the registered validator.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
