package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/taskerp-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// Create saves a new task and sets its ID and timestamps.
	// Returns ErrReferenceMissing if the assignee or creator does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task with its AssignedTo and CreatedBy users.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// GetByIDForUpdate retrieves a task without relations and locks its row
	// until the surrounding transaction ends. Outside a transaction it
	// behaves like a plain read.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Task, error)

	// List returns every task with relations, newest first.
	List(ctx context.Context) ([]*domain.Task, error)

	// ListByAssignee returns the tasks assigned to userID with relations,
	// newest first.
	ListByAssignee(ctx context.Context, userID int64) ([]*domain.Task, error)

	// Update saves every mutable field of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task permanently.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a TaskStore that runs its queries on tx.
	WithTx(tx *sql.Tx) TaskStore
}
