package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/platform/logger"
	"github.com/phrazzld/taskerp-api/internal/store"
)

// PostgresActionLogStore implements store.ActionLogStore.
type PostgresActionLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresActionLogStore creates a new PostgreSQL implementation of the ActionLogStore interface.
func NewPostgresActionLogStore(db store.DBTX, logger *slog.Logger) *PostgresActionLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresActionLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "action_log_store")),
	}
}

var _ store.ActionLogStore = (*PostgresActionLogStore)(nil)

// Append implements store.ActionLogStore.Append
func (s *PostgresActionLogStore) Append(ctx context.Context, entry *domain.ActionLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	// A nil RawMessage must reach the database as NULL, not as an empty string.
	var details any
	if len(entry.Details) > 0 {
		details = []byte(entry.Details)
	}

	query := `
		INSERT INTO action_logs (user_id, action_type, details, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		entry.UserID,
		string(entry.ActionType),
		details,
		entry.Timestamp,
	).Scan(&entry.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to append action log",
			slog.String("error", err.Error()),
			slog.String("action_type", string(entry.ActionType)))
		return MapError(err)
	}
	return nil
}

// List implements store.ActionLogStore.List
func (s *PostgresActionLogStore) List(ctx context.Context, limit int) ([]*domain.ActionLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, action_type, details, timestamp
		FROM action_logs
		ORDER BY timestamp DESC, id DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, store.NormalizeLimit(limit))
	if err != nil {
		log.Error("failed to list action logs", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*domain.ActionLog, 0)
	for rows.Next() {
		var (
			e          domain.ActionLog
			actionType string
			details    []byte
		)
		if err := rows.Scan(&e.ID, &e.UserID, &actionType, &details, &e.Timestamp); err != nil {
			return nil, MapError(err)
		}
		e.ActionType = domain.ActionType(actionType)
		if len(details) > 0 {
			e.Details = details
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return entries, nil
}
