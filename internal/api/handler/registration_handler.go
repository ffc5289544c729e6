package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dashblogger/admin-console/internal/core/password"
	"github.com/dashblogger/admin-console/internal/core/ports"
)

// RegistrationHandler serves the public sign-up form.
type RegistrationHandler struct {
	service ports.RegistrationService
}

func NewRegistrationHandler(service ports.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

type checkFieldRequest struct {
	ports.RegistrationForm
	Field string `json:"field"`
}

type strengthRequest struct {
	Password string `json:"password"`
}

// Register creates an account from the email sign-up form.
//
// @Summary      Register with email
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        body  body      ports.RegistrationForm  true  "Sign-up form"
// @Success      201   {object}  ports.RegistrationResult
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/register [post]
func (h *RegistrationHandler) Register(c echo.Context) error {
	var form ports.RegistrationForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	form.UserAgent = c.Request().UserAgent()

	result, err := h.service.RegisterWithEmail(c.Request().Context(), form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

// Federated signs in or registers with an identity-provider token.
//
// @Summary      Sign in with identity provider
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        body  body      ports.FederatedRequest  true  "Provider token"
// @Success      200   {object}  ports.RegistrationResult
// @Success      201   {object}  ports.RegistrationResult
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/federated [post]
func (h *RegistrationHandler) Federated(c echo.Context) error {
	var req ports.FederatedRequest
	if err := c.Bind(&req); err != nil || req.IDToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.UserAgent = c.Request().UserAgent()

	result, err := h.service.RegisterWithFederated(c.Request().Context(), req)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if result.NewAccount {
		status = http.StatusCreated
	}
	return c.JSON(status, result)
}

// CheckField validates a single form field.
//
// @Summary      Validate one sign-up field
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        body  body      checkFieldRequest  true  "Form and field name"
// @Success      200   {object}  ports.FieldCheck
// @Failure      400   {object}  map[string]string
// @Router       /auth/check-field [post]
func (h *RegistrationHandler) CheckField(c echo.Context) error {
	var req checkFieldRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	check, err := h.service.CheckField(req.RegistrationForm, req.Field)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, check)
}

// PasswordStrength scores a candidate password.
//
// @Summary      Estimate password strength
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        body  body      strengthRequest  true  "Password"
// @Success      200   {object}  password.Strength
// @Router       /auth/password-strength [post]
func (h *RegistrationHandler) PasswordStrength(c echo.Context) error {
	var req strengthRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.JSON(http.StatusOK, password.Estimate(req.Password))
}
