package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/platform/logger"
	"github.com/phrazzld/taskerp-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

const taskColumns = `t.id, t.title, t.description, t.status, t.due_date,
	t.assigned_to_id, t.created_by_id, t.created_at, t.updated_at`

const relationColumns = `,
	a.id, a.email, a.first_name, a.last_name, a.role, a.created_at, a.updated_at,
	c.id, c.email, c.first_name, c.last_name, c.role, c.created_at, c.updated_at`

const taskWithRelations = `SELECT ` + taskColumns + relationColumns + `
	FROM tasks t
	JOIN users a ON a.id = t.assigned_to_id
	JOIN users c ON c.id = t.created_by_id`

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create", slog.String("error", err.Error()))
		return err
	}

	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	task.UpdatedAt = task.CreatedAt

	query := `
		INSERT INTO tasks (title, description, status, due_date, assigned_to_id, created_by_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.DueDate,
		task.AssignedToID,
		task.CreatedByID,
		task.CreatedAt,
	).Scan(&task.ID)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("assigned_to_id", task.AssignedToID))
		return MapError(err)
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("assigned_to_id", task.AssignedToID))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx, taskWithRelations+` WHERE t.id = $1`, id)
	task, err := scanTask(row, true)
	if err != nil {
		return nil, s.mapGetError(ctx, err, id)
	}
	return task, nil
}

// GetByIDForUpdate implements store.TaskStore.GetByIDForUpdate
func (s *PostgresTaskStore) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1 FOR UPDATE`
	task, err := scanTask(s.db.QueryRowContext(ctx, query, id), false)
	if err != nil {
		return nil, s.mapGetError(ctx, err, id)
	}
	return task, nil
}

func (s *PostgresTaskStore) mapGetError(ctx context.Context, err error, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrTaskNotFound
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task",
		slog.String("error", err.Error()),
		slog.Int64("task_id", id))
	return MapError(err)
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	return s.query(ctx, taskWithRelations+` ORDER BY t.created_at DESC, t.id DESC`)
}

// ListByAssignee implements store.TaskStore.ListByAssignee
func (s *PostgresTaskStore) ListByAssignee(ctx context.Context, userID int64) ([]*domain.Task, error) {
	return s.query(ctx,
		taskWithRelations+` WHERE t.assigned_to_id = $1 ORDER BY t.created_at DESC, t.id DESC`,
		userID)
}

func (s *PostgresTaskStore) query(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows, true)
		if err != nil {
			log.Error("failed to scan task", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tasks, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update", slog.String("error", err.Error()))
		return err
	}

	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = time.Now().UTC()
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, due_date = $4, assigned_to_id = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.DueDate,
		task.AssignedToID,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, "task"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrTaskNotFound
		}
		return err
	}

	log.Debug("task updated", slog.Int64("task_id", task.ID), slog.String("status", string(task.Status)))
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, "task"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrTaskNotFound
		}
		return err
	}
	return nil
}

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner, withRelations bool) (*domain.Task, error) {
	var (
		t           domain.Task
		description sql.NullString
		dueDate     sql.NullTime
		status      string
	)
	dest := []any{
		&t.ID, &t.Title, &description, &status, &dueDate,
		&t.AssignedToID, &t.CreatedByID, &t.CreatedAt, &t.UpdatedAt,
	}

	var assignee, creator domain.User
	var assigneeRole, creatorRole string
	if withRelations {
		dest = append(dest,
			&assignee.ID, &assignee.Email, &assignee.FirstName, &assignee.LastName,
			&assigneeRole, &assignee.CreatedAt, &assignee.UpdatedAt,
			&creator.ID, &creator.Email, &creator.FirstName, &creator.LastName,
			&creatorRole, &creator.CreatedAt, &creator.UpdatedAt,
		)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	t.Status = domain.TaskStatus(status)
	if description.Valid {
		d := description.String
		t.Description = &d
	}
	if dueDate.Valid {
		d := dueDate.Time.UTC()
		t.DueDate = &d
	}
	if withRelations {
		assignee.Role = domain.Role(assigneeRole)
		creator.Role = domain.Role(creatorRole)
		t.AssignedTo = &assignee
		t.CreatedBy = &creator
	}
	return &t, nil
}
