package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/service"
	"github.com/dashblogger/admin-console/internal/core/stats"
	"github.com/dashblogger/admin-console/internal/core/view"
)

const (
	msgForbidden     = "Access denied. Admin privileges required."
	msgGenericFailed = "Registration failed. Please try again."
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error      string            `json:"error"`
	Code       string            `json:"code,omitempty"`
	Field      string            `json:"field,omitempty"`
	FieldError string            `json:"fieldError,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	Redirect   string            `json:"redirect,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Sends expired sessions back to loginURL.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger, loginURL string) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, loginURL, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, loginURL string, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: verr.Fields}
	}

	if errors.Is(err, domain.ErrSessionExpired) {
		msg := domain.DescribeAuthError(domain.AuthUserTokenExpired, "")
		return http.StatusUnauthorized, errorResponse{
			Error:    msg.Form,
			Code:     string(domain.AuthUserTokenExpired),
			Redirect: loginURL,
		}
	}

	var aerr *domain.AuthError
	if errors.As(err, &aerr) {
		if aerr.Code == domain.AuthNetworkFailed {
			log.Warn().Err(err).Str("path", c.Path()).Msg("auth provider unreachable")
		}
		msg := domain.DescribeAuthError(aerr.Code, msgGenericFailed)
		return authStatus(aerr.Code), errorResponse{
			Error:      msg.Form,
			Code:       string(aerr.Code),
			Field:      msg.Field,
			FieldError: msg.FieldError,
		}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: msgForbidden}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusConflict, errorResponse{Error: "A user with this email already exists"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "user already exists"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, view.ErrInvalidStatus),
		errors.Is(err, service.ErrUnknownField):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, stats.ErrUnknownReport),
		errors.Is(err, domain.ErrUnknownSection):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

func authStatus(code domain.AuthCode) int {
	switch code {
	case domain.AuthEmailInUse, domain.AuthDifferentCredential:
		return http.StatusConflict
	case domain.AuthInvalidEmail, domain.AuthWeakPassword:
		return http.StatusUnprocessableEntity
	case domain.AuthOperationNotAllowed:
		return http.StatusForbidden
	case domain.AuthNetworkFailed:
		return http.StatusServiceUnavailable
	case domain.AuthUserNotFound, domain.AuthWrongPassword, domain.AuthInvalidIDToken, domain.AuthUserTokenExpired:
		return http.StatusUnauthorized
	}
	return http.StatusBadRequest
}
