package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/streadway/amqp"

	"github.com/dashblogger/admin-console/internal/api"
	"github.com/dashblogger/admin-console/internal/api/handler"
	"github.com/dashblogger/admin-console/internal/api/live"
	"github.com/dashblogger/admin-console/internal/api/middleware"
	"github.com/dashblogger/admin-console/internal/core/mirror"
	"github.com/dashblogger/admin-console/internal/core/service"
	"github.com/dashblogger/admin-console/internal/infrastructure/config"
	mongodb "github.com/dashblogger/admin-console/internal/infrastructure/db/mongo"
	redisdb "github.com/dashblogger/admin-console/internal/infrastructure/db/redis"
	"github.com/dashblogger/admin-console/internal/infrastructure/http/handlers"
	"github.com/dashblogger/admin-console/internal/infrastructure/queue"
	"github.com/dashblogger/admin-console/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	amqpRetries     = 5
	amqpRetryDelay  = 2 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin console HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Development(), Service: "dashblogger"})
			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	log.Info().Str("env", cfg.Env).Str("version", version).Msg("starting dashblogger")

	// --- Storage ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return err
	}
	defer mongodb.Disconnect(client)

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongodb.NewUserStore(db, logger.Component("store"))
	creds := mongodb.NewCredentialRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := creds.EnsureIndexes(ctx); err != nil {
		return err
	}

	checks := map[string]handlers.Check{
		"mongo": handlers.MongoCheck(db),
		"redis": handlers.RedisCheck(rdb),
	}

	// --- Verification mail ---
	var publisher queue.Publisher = queue.NewLogPublisher(logger.Component("mail"))
	if cfg.AMQP.URL != "" {
		conn, ch, err := openBroker(cfg.AMQP.URL)
		if err != nil {
			return err
		}
		defer conn.Close()
		defer ch.Close()
		publisher = queue.NewAMQPPublisher(ch)
		checks["amqp"] = handlers.AMQPCheck(conn)
	}
	mail := queue.NewDispatcher(cfg.AMQP.Workers, publisher, logger.Component("mail"))
	mail.Start(ctx)
	defer mail.Stop()

	// --- Core ---
	m := mirror.New()
	syncer := mirror.NewSynchronizer(users, m, cfg.Dashboard.FallbackLimit, logger.Component("mirror"))

	auth := service.NewAuthService(
		creds,
		redisdb.NewRevocation(rdb),
		mail,
		service.NewFederatedVerifier(cfg.Auth.FederatedSecret, cfg.Auth.FederatedIssuer, cfg.Auth.FederatedAudience),
		cfg.JWTSecret,
		cfg.Auth.TokenTTL,
		logger.Component("auth"),
	)
	dash := service.NewDashboardService(m, cfg.Dashboard.PageSize)
	hub := live.NewHub(dash, dash, logger.Component("live"))
	admins := service.NewAdminService(auth, users, m, cfg.Auth.AdminBootstrap, log, dash, hub)
	registration := service.NewRegistrationService(auth, users, redisdb.NewRegistrationLog(rdb), log)
	userSvc := service.NewUserService(users, m, log)
	sections := service.NewSectionService(mongodb.NewSectionStore(db), log)

	res, err := syncer.Start(ctx)
	if err != nil {
		return err
	}
	log.Info().Int("users", res.Count).Str("mode", string(res.Mode)).Msg("mirror ready")
	defer syncer.Unsubscribe()
	checks["changes"] = handlers.SubscriptionCheck(syncer.Subscribed)
	go hub.Run(ctx, syncer.Updates())

	// --- HTTP ---
	e := api.NewRouter(api.Handlers{
		Auth:         handler.NewAuthHandler(admins),
		Registration: handler.NewRegistrationHandler(registration),
		Users:        handler.NewUserHandler(userSvc, dash),
		Dashboard:    handler.NewDashboardHandler(dash),
		Sections:     handler.NewSectionHandler(sections),
		Live:         hub,
		Health:       handlers.NewHealthHandler(version, m.Len),
		Ready:        handlers.NewHealthDependenciesHandler(checks),
	}, api.Options{
		Provider: auth,
		Admins:   admins,
		Limiter:  middleware.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst),
		LoginURL: cfg.Auth.LoginURL,
		Log:      log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}

func openBroker(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := queue.Connect(url, amqpRetries, amqpRetryDelay)
	if err != nil {
		return nil, nil, err
	}
	ch, err := queue.SetupChannel(conn)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}
