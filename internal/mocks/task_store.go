package mocks

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/store"
)

// MockTaskStore is a testify mock of store.TaskStore.
type MockTaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*MockTaskStore)(nil)

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return taskResult(m.Called(ctx, id))
}

func (m *MockTaskStore) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Task, error) {
	return taskResult(m.Called(ctx, id))
}

func (m *MockTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	return tasksResult(m.Called(ctx))
}

func (m *MockTaskStore) ListByAssignee(ctx context.Context, userID int64) ([]*domain.Task, error) {
	return tasksResult(m.Called(ctx, userID))
}

func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// WithTx returns the mock itself; transactions are not simulated.
func (m *MockTaskStore) WithTx(*sql.Tx) store.TaskStore {
	return m
}

func taskResult(args mock.Arguments) (*domain.Task, error) {
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

func tasksResult(args mock.Arguments) ([]*domain.Task, error) {
	if tasks, ok := args.Get(0).([]*domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}
