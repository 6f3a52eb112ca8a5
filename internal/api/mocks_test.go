package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/service"
)

type mockTaskService struct {
	mock.Mock
}

var _ service.TaskService = (*mockTaskService)(nil)

func (m *mockTaskService) CreateTask(ctx context.Context, input service.CreateTaskInput, actor domain.Actor) (*domain.Task, error) {
	return taskResult(m.Called(ctx, input, actor))
}

func (m *mockTaskService) ListTasks(ctx context.Context, actor domain.Actor) ([]*domain.Task, error) {
	args := m.Called(ctx, actor)
	tasks, _ := args.Get(0).([]*domain.Task)
	return tasks, args.Error(1)
}

func (m *mockTaskService) GetTask(ctx context.Context, id int64, actor domain.Actor) (*domain.Task, error) {
	return taskResult(m.Called(ctx, id, actor))
}

func (m *mockTaskService) UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch, actor domain.Actor) (*domain.Task, error) {
	return taskResult(m.Called(ctx, id, patch, actor))
}

func (m *mockTaskService) UpdateTaskStatus(ctx context.Context, id int64, status string, actor domain.Actor) (*domain.Task, error) {
	return taskResult(m.Called(ctx, id, status, actor))
}

func (m *mockTaskService) AssignTask(ctx context.Context, id, assigneeID int64, actor domain.Actor) (*domain.Task, error) {
	return taskResult(m.Called(ctx, id, assigneeID, actor))
}

func (m *mockTaskService) DeleteTask(ctx context.Context, id int64, actor domain.Actor) error {
	return m.Called(ctx, id, actor).Error(0)
}

func taskResult(args mock.Arguments) (*domain.Task, error) {
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

var _ service.UserService = (*mockUserService)(nil)

func (m *mockUserService) CreateInitialAdmin(ctx context.Context, input service.RegisterInput) (*domain.User, error) {
	return userResult(m.Called(ctx, input))
}

func (m *mockUserService) Register(ctx context.Context, input service.RegisterInput, actor domain.Actor) (*domain.User, error) {
	return userResult(m.Called(ctx, input, actor))
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	return userResult(m.Called(ctx, email, password))
}

func (m *mockUserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return userResult(m.Called(ctx, id))
}

func userResult(args mock.Arguments) (*domain.User, error) {
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

type mockActionLogService struct {
	mock.Mock
}

func (m *mockActionLogService) ListActionLogs(ctx context.Context, limit int, actor domain.Actor) ([]*domain.ActionLog, error) {
	args := m.Called(ctx, limit, actor)
	entries, _ := args.Get(0).([]*domain.ActionLog)
	return entries, args.Error(1)
}
