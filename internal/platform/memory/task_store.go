package memory

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/store"
)

// TaskStore implements store.TaskStore in memory.
type TaskStore struct {
	db *DB
}

var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.checkReferencesLocked(task); err != nil {
		return err
	}

	s.db.nextTaskID++
	now := time.Now().UTC()
	task.ID = s.db.nextTaskID
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = task.CreatedAt

	s.db.tasks[task.ID] = copyTask(task)
	return nil
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	t, ok := s.db.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return s.withRelationsLocked(t), nil
}

// GetByIDForUpdate implements store.TaskStore. Locking is provided by
// DB.WithinTx.
func (s *TaskStore) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Task, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	t, ok := s.db.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return copyTask(t), nil
}

// List implements store.TaskStore.
func (s *TaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	return s.list(func(*domain.Task) bool { return true }), nil
}

// ListByAssignee implements store.TaskStore.
func (s *TaskStore) ListByAssignee(ctx context.Context, userID int64) ([]*domain.Task, error) {
	return s.list(func(t *domain.Task) bool { return t.AssignedToID == userID }), nil
}

// Update implements store.TaskStore.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.tasks[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}
	if err := s.checkReferencesLocked(task); err != nil {
		return err
	}

	task.CreatedAt = existing.CreatedAt
	task.CreatedByID = existing.CreatedByID
	s.db.tasks[task.ID] = copyTask(task)
	return nil
}

// Delete implements store.TaskStore.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.db.tasks, id)
	return nil
}

// WithTx implements store.TaskStore. Memory stores have no transactions of their own.
func (s *TaskStore) WithTx(*sql.Tx) store.TaskStore {
	return s
}

func (s *TaskStore) list(keep func(*domain.Task) bool) []*domain.Task {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := make([]*domain.Task, 0, len(s.db.tasks))
	for _, t := range s.db.tasks {
		if keep(t) {
			out = append(out, s.withRelationsLocked(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *TaskStore) withRelationsLocked(t *domain.Task) *domain.Task {
	c := copyTask(t)
	c.AssignedTo = copyUser(s.db.users[t.AssignedToID])
	c.CreatedBy = copyUser(s.db.users[t.CreatedByID])
	return c
}

func (s *TaskStore) checkReferencesLocked(t *domain.Task) error {
	if _, ok := s.db.users[t.AssignedToID]; !ok {
		return store.NewStoreError("task", "save", "assignee does not exist", store.ErrReferenceMissing)
	}
	if _, ok := s.db.users[t.CreatedByID]; !ok {
		return store.NewStoreError("task", "save", "creator does not exist", store.ErrReferenceMissing)
	}
	return nil
}
