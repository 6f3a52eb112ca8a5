package memory

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/store"
)

func newUser(t *testing.T, s *UserStore, email string, role domain.Role) *domain.User {
	t.Helper()
	u, err := domain.NewUser(email, "password123", "Test", "User", role)
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), u))
	return u
}

func TestUserStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	users := NewDB().Users()

	u := newUser(t, users, "Alice@Example.com", domain.RoleAdmin)
	assert.Equal(t, int64(1), u.ID)
	assert.Empty(t, u.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte("password123")))

	byID, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	byEmail, err := users.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	n, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = users.GetByID(ctx, 42)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserStore_DuplicateEmail(t *testing.T) {
	users := NewDB().Users()
	newUser(t, users, "dup@example.com", domain.RoleMember)

	u, err := domain.NewUser("dup@example.com", "password123", "Other", "User", domain.RoleMember)
	require.NoError(t, err)
	assert.ErrorIs(t, users.Create(context.Background(), u), store.ErrEmailExists)
}

func TestUserStore_Update(t *testing.T) {
	ctx := context.Background()
	users := NewDB().Users()
	u := newUser(t, users, "bob@example.com", domain.RoleMember)
	oldHash := u.HashedPassword

	u.FirstName = "Robert"
	u.Password = "newpassword1"
	require.NoError(t, users.Update(ctx, u))

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Robert", got.FirstName)
	assert.NotEqual(t, oldHash, got.HashedPassword)

	missing := *got
	missing.ID = 99
	assert.ErrorIs(t, users.Update(ctx, &missing), store.ErrUserNotFound)
}

func TestTaskStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	users, tasks := db.Users(), db.Tasks()
	admin := newUser(t, users, "admin@example.com", domain.RoleAdmin)
	member := newUser(t, users, "member@example.com", domain.RoleMember)

	first, err := domain.NewTask("first", nil, nil, member.ID, admin.ID)
	require.NoError(t, err)
	require.NoError(t, tasks.Create(ctx, first))
	second, err := domain.NewTask("second", nil, nil, admin.ID, admin.ID)
	require.NoError(t, err)
	require.NoError(t, tasks.Create(ctx, second))

	got, err := tasks.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AssignedTo)
	assert.Equal(t, member.Email, got.AssignedTo.Email)
	assert.Equal(t, admin.Email, got.CreatedBy.Email)

	all, err := tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	mine, err := tasks.ListByAssignee(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	locked, err := tasks.GetByIDForUpdate(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, locked.AssignedTo)
	locked.Status = domain.TaskStatusOngoing
	require.NoError(t, tasks.Update(ctx, locked))

	got, err = tasks.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusOngoing, got.Status)

	require.NoError(t, tasks.Delete(ctx, first.ID))
	_, err = tasks.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.ErrorIs(t, tasks.Delete(ctx, first.ID), store.ErrTaskNotFound)
}

func TestTaskStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	admin := newUser(t, db.Users(), "admin@example.com", domain.RoleAdmin)
	task, err := domain.NewTask("task", nil, nil, admin.ID, admin.ID)
	require.NoError(t, err)
	require.NoError(t, db.Tasks().Create(ctx, task))

	got, err := db.Tasks().GetByID(ctx, task.ID)
	require.NoError(t, err)
	got.Title = "mutated"

	again, err := db.Tasks().GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "task", again.Title)
}

func TestTaskStore_MissingReferences(t *testing.T) {
	task, err := domain.NewTask("orphan", nil, nil, 7, 8)
	require.NoError(t, err)

	err = NewDB().Tasks().Create(context.Background(), task)
	assert.ErrorIs(t, err, store.ErrReferenceMissing)
}

func TestActionLogStore_NewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	logs := NewDB().ActionLogs()

	for i := 0; i < 5; i++ {
		require.NoError(t, logs.Append(ctx, &domain.ActionLog{
			UserID:     1,
			ActionType: domain.ActionTaskCreated,
			Details:    json.RawMessage(`{"n":1}`),
		}))
	}

	got, err := logs.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(5), got[0].ID)
	assert.Equal(t, int64(3), got[2].ID)
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestDB_WithinTxSerializes(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	admin := newUser(t, db.Users(), "admin@example.com", domain.RoleAdmin)
	task, err := domain.NewTask("counter", nil, nil, admin.ID, admin.ID)
	require.NoError(t, err)
	require.NoError(t, db.Tasks().Create(ctx, task))

	// Each unit of work appends one character to the title; none may be lost.
	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.WithinTx(ctx, func(ctx context.Context, stores store.TxStores) error {
				current, err := stores.Tasks.GetByIDForUpdate(ctx, task.ID)
				if err != nil {
					return err
				}
				current.Title += "+"
				return stores.Tasks.Update(ctx, current)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := db.Tasks().GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, got.Title, len("counter")+workers)
}

func TestDB_WithinTxHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewDB().WithinTx(ctx, func(context.Context, store.TxStores) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
