package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/stats"
	"github.com/dashblogger/admin-console/internal/core/view"
)

func handle(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop(), "/login.html")(err, c)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{echo.NewHTTPError(http.StatusBadRequest, "bad body"), http.StatusBadRequest},
		{domain.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("authorize: %w", domain.ErrUserNotFound), http.StatusNotFound},
		{domain.ErrEmailExists, http.StatusConflict},
		{view.ErrInvalidStatus, http.StatusBadRequest},
		{stats.ErrUnknownReport, http.StatusNotFound},
		{domain.ErrUnknownSection, http.StatusNotFound},
		{domain.NewAuthError(domain.AuthWrongPassword, nil), http.StatusUnauthorized},
		{domain.NewAuthError(domain.AuthNetworkFailed, errors.New("dial")), http.StatusServiceUnavailable},
		{domain.NewAuthError(domain.AuthPopupClosed, nil), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		code, _ := handle(t, tc.err)
		assert.Equal(t, tc.code, code, "error %v", tc.err)
	}
}

func TestErrorHandler_AuthErrorCarriesFieldMessage(t *testing.T) {
	code, body := handle(t, domain.NewAuthError(domain.AuthEmailInUse, nil))
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "auth/email-already-in-use", body.Code)
	assert.Equal(t, "email", body.Field)
	assert.Equal(t, "Email already in use", body.FieldError)
	assert.Contains(t, body.Error, "already registered")

	_, body = handle(t, domain.NewAuthError("auth/something-new", nil))
	assert.Equal(t, msgGenericFailed, body.Error)
}

func TestErrorHandler_ExpiredSessionRedirects(t *testing.T) {
	code, body := handle(t, domain.NewAuthError(domain.AuthUserTokenExpired, domain.ErrSessionExpired))
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "/login.html", body.Redirect)
}

func TestErrorHandler_ValidationFields(t *testing.T) {
	verr := &domain.ValidationError{}
	verr.Add("email", "Email is required")

	code, body := handle(t, verr)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, map[string]string{"email": "Email is required"}, body.Fields)
}

func TestErrorHandler_UnexpectedErrorIsGeneric(t *testing.T) {
	_, body := handle(t, errors.New("mongo: connection reset"))
	assert.Equal(t, "internal server error", body.Error)
}
