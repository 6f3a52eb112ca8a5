package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/phrazzld/taskerp-api/internal/config"
	"github.com/phrazzld/taskerp-api/internal/platform/logger"
	"github.com/phrazzld/taskerp-api/internal/platform/postgres"
	"github.com/phrazzld/taskerp-api/internal/service/auth"
	"github.com/spf13/cobra"
)

var migrateCommands = []string{"up", "down", "status", "version", "reset"}

// loadRuntime reads the configuration and builds the process logger.
func loadRuntime() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}
	return cfg, log, nil
}

// commandContext returns the command's context, which is nil when a RunE
// function is called outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		return err
	}

	if migrateOnStart {
		if err := postgres.Migrate(ctx, db, "up", log); err != nil {
			_ = db.Close()
			return err
		}
	}

	app, err := newApplication(cfg, log, postgresStores(db, cfg, log))
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("initialize application: %w", err)
	}
	app.db = db

	return app.startHTTPServer(ctx, app.setupRouter())
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Warn("failed to close database", slog.String("error", cerr.Error()))
		}
	}()

	return postgres.Migrate(ctx, db, args[0], log)
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	password, err := readPassword(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	hash, err := auth.NewBcryptHasher(hashCost).Hash(password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
	return err
}

// readPassword takes the password from the first argument, or else from the
// first line of in.
func readPassword(args []string, in io.Reader) (string, error) {
	if len(args) > 0 {
		if args[0] == "" {
			return "", errors.New("password must not be empty")
		}
		return args[0], nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	return password, nil
}
