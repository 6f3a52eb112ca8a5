package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/mocks"
	"github.com/phrazzld/taskerp-api/internal/service/auth"
	"github.com/phrazzld/taskerp-api/internal/store"
)

func adminInput(email string) RegisterInput {
	return RegisterInput{Email: email, Password: "password123", FirstName: "Ada", LastName: "Admin"}
}

func TestCreateInitialAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	admin, err := f.users.CreateInitialAdmin(ctx, adminInput("root@example.com"))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Empty(t, admin.Password)
	assert.NotEmpty(t, admin.HashedPassword)

	_, err = f.users.CreateInitialAdmin(ctx, adminInput("second@example.com"))
	assert.ErrorIs(t, err, ErrInitialAdminExists)

	trail := f.auditTrail(t)
	require.Len(t, trail, 1)
	assert.Equal(t, domain.ActionUserRegistered, trail[0].ActionType)
	assert.Equal(t, admin.ID, trail[0].UserID)
	assert.Equal(t, "ADMIN", details(t, trail[0])["role"])
}

func TestCreateInitialAdmin_InvalidInput(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.CreateInitialAdmin(context.Background(), RegisterInput{Email: "bad", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestRegister_RoleRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.addUser(t, "admin@example.com", domain.RoleAdmin)
	manager := f.addUser(t, "manager@example.com", domain.RoleManager)
	member := f.addUser(t, "member@example.com", domain.RoleMember)

	tests := []struct {
		name    string
		actor   domain.Actor
		role    string
		want    domain.Role
		wantErr error
	}{
		{"admin registers manager", admin, "MANAGER", domain.RoleManager, nil},
		{"admin registers admin", admin, "admin", domain.RoleAdmin, nil},
		{"manager registers member", manager, "MEMBER", domain.RoleMember, nil},
		{"member registers default role", member, "", domain.RoleMember, nil},
		{"manager cannot register admin", manager, "ADMIN", "", domain.ErrUnauthorized},
		{"member cannot register manager", member, "MANAGER", "", domain.ErrUnauthorized},
		{"unknown role", admin, "OWNER", "", domain.ErrValidation},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := RegisterInput{
				Email:     "user" + string(rune('a'+i)) + "@example.com",
				Password:  "password123",
				FirstName: "New",
				LastName:  "User",
				Role:      tt.role,
			}
			user, err := f.users.Register(ctx, input, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, user.Role)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.addUser(t, "admin@example.com", domain.RoleAdmin)

	input := RegisterInput{Email: "dup@example.com", Password: "password123", FirstName: "D", LastName: "Up"}
	_, err := f.users.Register(ctx, input, admin)
	require.NoError(t, err)

	input.Email = "DUP@example.com"
	_, err = f.users.Register(ctx, input, admin)
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.users.CreateInitialAdmin(ctx, adminInput("root@example.com"))
	require.NoError(t, err)

	user, err := f.users.Login(ctx, "ROOT@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "root@example.com", user.Email)

	_, err = f.users.Login(ctx, "root@example.com", "wrong-password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.users.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	trail := f.auditTrail(t)
	last := trail[len(trail)-1]
	assert.Equal(t, domain.ActionUserLogin, last.ActionType)
	assert.Equal(t, user.ID, last.UserID)
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	member := f.addUser(t, "member@example.com", domain.RoleMember)

	user, err := f.users.GetUser(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "member@example.com", user.Email)

	_, err = f.users.GetUser(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateInitialAdmin_CountError(t *testing.T) {
	users := &mocks.MockUserStore{}
	boom := errors.New("connection reset")
	users.On("Count", mock.Anything).Return(0, boom)

	svc, err := NewUserService(users, &mocks.MockPasswordVerifier{}, &mocks.MockSink{}, nil)
	require.NoError(t, err)

	_, err = svc.CreateInitialAdmin(context.Background(), adminInput("root@example.com"))
	assert.ErrorIs(t, err, boom)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_UsesVerifier(t *testing.T) {
	users := &mocks.MockUserStore{}
	users.On("GetByEmail", mock.Anything, "x@example.com").
		Return(&domain.User{ID: 3, Email: "x@example.com", HashedPassword: "stored-hash", Role: domain.RoleMember}, nil)
	verifier := &mocks.MockPasswordVerifier{ShouldSucceed: true}
	sink := &mocks.MockSink{}

	svc, err := NewUserService(users, verifier, sink, nil)
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), " x@example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, "stored-hash", verifier.CompareCalledWith.HashedPassword)
	assert.Equal(t, "secret", verifier.CompareCalledWith.Password)
	assert.Equal(t, []domain.ActionType{domain.ActionUserLogin}, sink.Actions())
}

func TestLogin_UnknownEmailStillComparesPassword(t *testing.T) {
	users := &mocks.MockUserStore{}
	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, store.ErrUserNotFound)
	// Even a verifier that accepts everything must not let an unknown email in.
	verifier := &mocks.MockPasswordVerifier{ShouldSucceed: true}
	sink := &mocks.MockSink{}

	svc, err := NewUserService(users, verifier, sink, nil)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ghost@example.com", "secret")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Equal(t, 1, verifier.CompareCallCount)
	assert.Equal(t, auth.TimingHash(), verifier.CompareCalledWith.HashedPassword)
	assert.Equal(t, "secret", verifier.CompareCalledWith.Password)
	assert.Empty(t, sink.Actions())
}
