package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"github.com/dashblogger/admin-console/internal/api/handler"
	"github.com/dashblogger/admin-console/internal/api/middleware"
	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/ports"
	"github.com/dashblogger/admin-console/internal/infrastructure/http/handlers"
)

// rejectingProvider treats every token as expired.
type rejectingProvider struct{ ports.AuthProvider }

func (rejectingProvider) Verify(context.Context, string) (*domain.Identity, error) {
	return nil, domain.ErrSessionExpired
}

func newTestRouter() http.Handler {
	h := Handlers{
		Registration: handler.NewRegistrationHandler(nil),
		Health:       handlers.NewHealthHandler("test", nil),
		Ready:        handlers.NewHealthDependenciesHandler(nil),
	}
	return NewRouter(h, Options{
		Provider: rejectingProvider{},
		Limiter:  middleware.NewRateLimiter(100, 100),
		LoginURL: "/login.html",
		Log:      zerolog.Nop(),
	})
}

func serve(r http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicRoutes(t *testing.T) {
	r := newTestRouter()

	rec := serve(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, http.MethodPost, "/auth/password-strength", `{"password":"abc"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"level":"weak"`)
}

func TestRouter_AdminRequiresSession(t *testing.T) {
	r := newTestRouter()

	rec := serve(r, http.MethodGet, "/admin/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(r, http.MethodGet, "/admin/stats", "", map[string]string{"Authorization": "Bearer old"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect":"/login.html"`)
}

func TestRouter_UnknownRoute(t *testing.T) {
	rec := serve(newTestRouter(), http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

var pathParam = regexp.MustCompile(`:(\w+)`)

// The OpenAPI document is maintained by hand; it must list exactly the
// routes the router serves.
func TestRouter_RoutesMatchOpenAPIDocument(t *testing.T) {
	e := newTestRouter().(*echo.Echo)

	raw, err := swag.ReadDoc()
	require.NoError(t, err)
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	documented := make(map[string]bool)
	for path, ops := range doc.Paths {
		for method := range ops {
			documented[strings.ToUpper(method)+" "+path] = true
		}
	}

	served := make(map[string]bool)
	for _, rt := range e.Routes() {
		switch {
		case rt.Path == "/metrics", rt.Path == "/auth", rt.Path == "/admin", strings.HasSuffix(rt.Path, "*"):
			continue
		}
		switch rt.Method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			continue
		}
		served[rt.Method+" "+pathParam.ReplaceAllString(rt.Path, "{$1}")] = true
	}

	assert.Equal(t, documented, served)
}
