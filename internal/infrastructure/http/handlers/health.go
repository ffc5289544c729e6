// Package handlers serves the process probes that sit outside the API
// groups: liveness and dependency readiness.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const probeTimeout = 3 * time.Second

// HealthHandler answers GET /health while the process runs.
type HealthHandler struct {
	version string
	users   func() int
}

// NewHealthHandler reports version and, through users, the mirror size.
// users may be nil.
func NewHealthHandler(version string, users func() int) *HealthHandler {
	return &HealthHandler{version: version, users: users}
}

type livenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Users   *int   `json:"mirroredUsers,omitempty"`
}

// Liveness godoc
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200 {object} livenessResponse
// @Router   /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	res := livenessResponse{Status: "ok", Version: h.version}
	if h.users != nil {
		n := h.users()
		res.Users = &n
	}
	return c.JSON(http.StatusOK, res)
}

// Check probes one dependency.
type Check func(ctx context.Context) error

// MongoCheck pings the database.
func MongoCheck(db *mongo.Database) Check {
	return func(ctx context.Context) error {
		return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
	}
}

func RedisCheck(rdb *redis.Client) Check {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

var (
	errBrokerClosed  = errors.New("broker connection closed")
	errNotSubscribed = errors.New("change stream not subscribed")
)

func AMQPCheck(conn *amqp.Connection) Check {
	return func(context.Context) error {
		if conn.IsClosed() {
			return errBrokerClosed
		}
		return nil
	}
}

// SubscriptionCheck fails while no change stream feeds the mirror.
func SubscriptionCheck(subscribed func() bool) Check {
	return func(context.Context) error {
		if !subscribed() {
			return errNotSubscribed
		}
		return nil
	}
}

// HealthDependenciesHandler answers GET /health/ready. The service is
// ready only when every check passes.
type HealthDependenciesHandler struct {
	checks map[string]Check
}

func NewHealthDependenciesHandler(checks map[string]Check) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{checks: checks}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness godoc
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200 {object} readinessResponse
// @Failure  503 {object} readinessResponse
// @Router   /health/ready [get]
func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), probeTimeout)
	defer cancel()

	res := readinessResponse{Status: "ok", Dependencies: h.probe(ctx)}
	code := http.StatusOK
	for _, dep := range res.Dependencies {
		if dep.Status != "ok" {
			res.Status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}
	return c.JSON(code, res)
}

func (h *HealthDependenciesHandler) probe(ctx context.Context) map[string]dependencyStatus {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[string]dependencyStatus, len(h.checks))
	)
	for name, check := range h.checks {
		wg.Add(1)
		go func(name string, check Check) {
			defer wg.Done()
			st := dependencyStatus{Status: "ok"}
			if err := check(ctx); err != nil {
				st = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			}
			mu.Lock()
			out[name] = st
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()
	return out
}
