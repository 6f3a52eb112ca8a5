package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskerp-api/internal/audit"
	"github.com/phrazzld/taskerp-api/internal/config"
	"github.com/phrazzld/taskerp-api/internal/platform/postgres"
	"github.com/phrazzld/taskerp-api/internal/service"
	"github.com/phrazzld/taskerp-api/internal/service/auth"
	"github.com/phrazzld/taskerp-api/internal/store"
)

// storeSet is the persistence layer the application is built on.
type storeSet struct {
	users store.UserStore
	tasks store.TaskStore
	logs  store.ActionLogStore
	tx    store.Transactor
}

// postgresStores builds the PostgreSQL-backed stores over db.
func postgresStores(db *sql.DB, cfg *config.Config, logger *slog.Logger) storeSet {
	users := postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	tasks := postgres.NewPostgresTaskStore(db, logger)
	return storeSet{
		users: users,
		tasks: tasks,
		logs:  postgres.NewPostgresActionLogStore(db, logger),
		tx:    store.NewSQLTransactor(db, users, tasks),
	}
}

// application holds the wired dependencies of the API server.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when the stores are not database-backed.
	db       *sql.DB
	recorder *audit.Recorder

	jwtService  auth.JWTService
	taskService service.TaskService
	userService service.UserService
	logService  service.ActionLogService
}

// newApplication wires services over stores and starts the audit workers.
func newApplication(cfg *config.Config, logger *slog.Logger, stores storeSet) (*application, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	recorder := audit.NewRecorder(stores.logs, audit.RecorderConfig{
		QueueSize:   cfg.Audit.QueueSize,
		WorkerCount: cfg.Audit.WorkerCount,
	}, logger)

	taskService, err := service.NewTaskService(stores.tasks, stores.users, stores.tx, recorder, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize task service: %w", err)
	}

	userService, err := service.NewUserService(stores.users, auth.NewBcryptVerifier(), recorder, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize user service: %w", err)
	}

	logService, err := service.NewActionLogService(stores.logs, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize action log service: %w", err)
	}

	recorder.Start()

	return &application{
		config:      cfg,
		logger:      logger,
		recorder:    recorder,
		jwtService:  jwtService,
		taskService: taskService,
		userService: userService,
		logService:  logService,
	}, nil
}

// cleanup drains pending audit entries and closes the database.
func (app *application) cleanup(ctx context.Context) {
	if err := app.recorder.Stop(ctx); err != nil {
		app.logger.Error("failed to drain audit queue", slog.String("error", err.Error()))
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
		}
	}
}
