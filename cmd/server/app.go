package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/phrazzld/task-manager-api/internal/events"
	"github.com/phrazzld/task-manager-api/internal/notify"
	"github.com/phrazzld/task-manager-api/internal/platform/postgres"
	"github.com/phrazzld/task-manager-api/internal/service"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userService service.UserService
	taskService service.TaskService
}

// dependencies are the collaborators that differ between production and tests.
type dependencies struct {
	users  store.UserStore
	tasks  store.TaskStore
	tx     store.TxManager
	mailer notify.Mailer
	mail   []notify.HandlerOption
}

// newApplication wires the Postgres stores and the configured mailer.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app, err := buildApplication(cfg, logger, dependencies{
		users:  postgres.NewPostgresUserStore(db, logger),
		tasks:  postgres.NewPostgresTaskStore(db, logger),
		tx:     store.NewSQLTxManager(db),
		mailer: notify.NewMailer(cfg.Email, logger),
	})
	if err != nil {
		return nil, err
	}
	app.db = db
	return app, nil
}

// buildApplication creates the services from deps and the configuration.
func buildApplication(cfg *config.Config, logger *slog.Logger, deps dependencies) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_hours", cfg.Auth.TokenLifetimeHours)

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(notify.NewMailHandler(deps.mailer, logger, deps.mail...))

	userService, err := service.NewUserService(
		deps.users,
		deps.tasks,
		deps.tx,
		jwtService,
		hasher,
		emitter,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	taskService, err := service.NewTaskService(deps.tasks, deps.tx, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return &application{
		config:      cfg,
		logger:      logger,
		userService: userService,
		taskService: taskService,
	}, nil
}

// Run serves HTTP until ctx is canceled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
	app.logger.Info("Application shutdown completed")
}
