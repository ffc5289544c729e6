package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	require.NoError(t, NewHealthHandler("v1.2.0", func() int { return 3 }).Liveness(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body livenessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "v1.2.0", body.Version)
	require.NotNil(t, body.Users)
	assert.Equal(t, 3, *body.Users)
}

func TestSubscriptionCheck(t *testing.T) {
	subscribed := false
	check := SubscriptionCheck(func() bool { return subscribed })
	assert.ErrorIs(t, check(context.Background()), errNotSubscribed)

	subscribed = true
	assert.NoError(t, check(context.Background()))
}

func TestReadiness(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	checks := map[string]Check{"redis": RedisCheck(rdb)}
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)
	require.NoError(t, NewHealthDependenciesHandler(checks).Readiness(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	checks["amqp"] = func(context.Context) error { return errors.New("broker connection closed") }
	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)
	require.NoError(t, NewHealthDependenciesHandler(checks).Readiness(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body readinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "ok", body.Dependencies["redis"].Status)
	assert.Equal(t, "unhealthy", body.Dependencies["amqp"].Status)
}
