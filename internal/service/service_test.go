package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskerp-api/internal/audit"
	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/platform/memory"
	"github.com/phrazzld/taskerp-api/internal/service/auth"
)

// fixture wires both services onto one in-memory database with a
// synchronous audit sink.
type fixture struct {
	db    *memory.DB
	tasks TaskService
	users UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := memory.NewDB()
	sink := audit.NewStoreSink(db.ActionLogs(), log)

	tasks, err := NewTaskService(db.Tasks(), db.Users(), db, sink, log)
	require.NoError(t, err)
	users, err := NewUserService(db.Users(), auth.NewBcryptVerifier(), sink, log)
	require.NoError(t, err)

	return &fixture{db: db, tasks: tasks, users: users}
}

func (f *fixture) addUser(t *testing.T, email string, role domain.Role) domain.Actor {
	t.Helper()
	u, err := domain.NewUser(email, "password123", "Test", "User", role)
	require.NoError(t, err)
	require.NoError(t, f.db.Users().Create(context.Background(), u))
	return u.Actor()
}

func (f *fixture) addTask(t *testing.T, title string, assignee, creator domain.Actor) *domain.Task {
	t.Helper()
	task, err := f.tasks.CreateTask(context.Background(), CreateTaskInput{
		Title:        title,
		AssignedToID: assignee.ID,
	}, creator)
	require.NoError(t, err)
	return task
}

// auditTrail returns the recorded actions, oldest first.
func (f *fixture) auditTrail(t *testing.T) []*domain.ActionLog {
	t.Helper()
	logs, err := f.db.ActionLogs().List(context.Background(), 0)
	require.NoError(t, err)
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	return logs
}

func details(t *testing.T, entry *domain.ActionLog) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(entry.Details, &m))
	return m
}
