package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/teamtasks/internal/api"
	"github.com/phrazzld/teamtasks/internal/config"
	"github.com/phrazzld/teamtasks/internal/platform/metrics"
	"github.com/phrazzld/teamtasks/internal/platform/postgres"
	"github.com/phrazzld/teamtasks/internal/platform/redis"
	"github.com/phrazzld/teamtasks/internal/service"
	"github.com/phrazzld/teamtasks/internal/service/auth"
)

// application holds the shared dependencies of the running server so they
// can be released together on shutdown.
type application struct {
	config     *config.Config
	logger     *slog.Logger
	db         *sql.DB
	revocation *redis.RevocationStore
	metrics    *metrics.Metrics
	jwtService auth.JWTService

	accounts service.AccountService
	profiles service.ProfileService
	tasks    service.TaskService
}

// newApplication connects to PostgreSQL and Redis and builds the service
// graph. On error everything opened so far is closed again.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *application, err error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		metrics: metrics.New(),
	}
	defer func() {
		if err != nil {
			app.cleanup()
		}
	}()

	app.db, err = setupAppDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	app.revocation = redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		redis.WithPrefix(cfg.Redis.KeyPrefix),
		redis.WithLogger(logger))
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = app.revocation.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	users := postgres.NewPostgresUserStore(app.db, logger)
	profileStore := postgres.NewPostgresProfileStore(app.db, logger)
	teams := postgres.NewPostgresTeamStore(app.db, logger)
	taskStore := postgres.NewPostgresTaskStore(app.db, logger)

	app.accounts, err = service.NewAccountService(
		app.db,
		users,
		profileStore,
		auth.NewBcrypt(cfg.Auth.BcryptCost),
		app.jwtService,
		app.revocation,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account service: %w", err)
	}

	app.profiles, err = service.NewProfileService(profileStore, teams, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile service: %w", err)
	}

	app.tasks, err = service.NewTaskService(app.db, taskStore, profileStore, app.metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

func (app *application) sessionCookie() api.SessionCookie {
	return api.SessionCookie{
		Name:   app.config.Auth.CookieName,
		Secure: app.config.Auth.CookieSecure,
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases Redis and database connections.
func (app *application) cleanup() {
	if app.revocation != nil {
		if err := app.revocation.Close(); err != nil {
			app.logger.Error("error closing redis client", slog.String("error", err.Error()))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
