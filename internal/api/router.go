package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/dashblogger/admin-console/docs"
	"github.com/dashblogger/admin-console/internal/api/handler"
	"github.com/dashblogger/admin-console/internal/api/live"
	"github.com/dashblogger/admin-console/internal/api/middleware"
	"github.com/dashblogger/admin-console/internal/core/ports"
	"github.com/dashblogger/admin-console/internal/infrastructure/http/handlers"
)

// Handlers groups every route target.
type Handlers struct {
	Auth         *handler.AuthHandler
	Registration *handler.RegistrationHandler
	Users        *handler.UserHandler
	Dashboard    *handler.DashboardHandler
	Sections     *handler.SectionHandler
	Live         *live.Hub
	Health       *handlers.HealthHandler
	Ready        *handlers.HealthDependenciesHandler
}

// Options carries what the middleware chain needs.
type Options struct {
	Provider ports.AuthProvider
	Admins   ports.AdminService
	Limiter  *middleware.RateLimiter
	LoginURL string
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(h Handlers, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log, opts.LoginURL)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(opts.Log))

	// --- Public auth routes ---
	auth := e.Group("/auth")
	if opts.Limiter != nil {
		auth.Use(opts.Limiter.Middleware())
	}
	auth.POST("/register", h.Registration.Register)
	auth.POST("/federated", h.Registration.Federated)
	auth.POST("/check-field", h.Registration.CheckField)
	auth.POST("/password-strength", h.Registration.PasswordStrength)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout, middleware.Auth(opts.Provider))

	// --- Admin routes ---
	admin := e.Group("/admin", middleware.Auth(opts.Provider), middleware.AdminOnly(opts.Admins))

	admin.GET("/users", h.Users.List)
	admin.POST("/users", h.Users.Create)
	admin.GET("/users/export", h.Users.Export)
	admin.GET("/users/:id", h.Users.Get)
	admin.PATCH("/users/:id", h.Users.Update)
	admin.DELETE("/users/:id", h.Users.Delete)

	admin.GET("/stats", h.Dashboard.Stats)
	admin.GET("/reports/:kind", h.Dashboard.Report)
	admin.GET("/dashboard", h.Dashboard.Frame)
	admin.POST("/dashboard/filter", h.Dashboard.Filter)
	admin.POST("/dashboard/page", h.Dashboard.Page)
	admin.POST("/dashboard/section", h.Dashboard.Section)
	admin.GET("/dashboard/ws", h.Live.ServeWS)

	admin.GET("/sections/:name", h.Sections.Get)
	admin.POST("/packages", h.Sections.AddPackage)
	admin.POST("/backups", h.Sections.CreateBackup)
	admin.PUT("/settings", h.Sections.SaveSettings)

	e.GET("/health", h.Health.Liveness)
	e.GET("/health/ready", h.Ready.Readiness)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
