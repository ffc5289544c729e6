package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/ports"
)

type AuthHandler struct {
	admins ports.AdminService
}

func NewAuthHandler(admins ports.AdminService) *AuthHandler {
	return &AuthHandler{admins: admins}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token     string       `json:"token,omitempty"`
	ExpiresAt time.Time    `json:"expiresAt,omitempty"`
	User      *domain.User `json:"user,omitempty"`
}

// Login authenticates an administrator and returns a session token.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	session, profile, err := h.admins.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: session.Token, ExpiresAt: session.ExpiresAt, User: profile})
}

// Logout revokes the session token and closes the admin's live dashboard.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	id, token, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.admins.Logout(c.Request().Context(), id.UID, token); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
