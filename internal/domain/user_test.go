package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("valid user defaults to member", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("  Alice@Example.com ", "password123", "Alice", "Smith", "")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, RoleMember, user.Role)
		assert.Equal(t, "password123", user.Password)
		assert.False(t, user.CreatedAt.IsZero())
	})

	tests := []struct {
		name      string
		email     string
		password  string
		firstName string
		lastName  string
		role      Role
		wantErr   error
	}{
		{"empty email", "", "password123", "A", "B", RoleMember, ErrEmptyEmail},
		{"missing at", "alice.example.com", "password123", "A", "B", RoleMember, ErrInvalidEmail},
		{"missing domain dot", "alice@example", "password123", "A", "B", RoleMember, ErrInvalidEmail},
		{"display name form", "Alice <alice@example.com>", "password123", "A", "B", RoleMember, ErrInvalidEmail},
		{"missing names", "alice@example.com", "password123", "", "B", RoleMember, ErrEmptyName},
		{"short password", "alice@example.com", "short", "A", "B", RoleMember, ErrPasswordTooShort},
		{"long password", "alice@example.com", strings.Repeat("x", 73), "A", "B", RoleMember, ErrPasswordTooLong},
		{"empty password", "alice@example.com", "", "A", "B", RoleMember, ErrEmptyPassword},
		{"bogus role", "alice@example.com", "password123", "A", "B", Role("OWNER"), ErrInvalidRole},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tc.email, tc.password, tc.firstName, tc.lastName, tc.role)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUserValidate_StoredUser(t *testing.T) {
	t.Parallel()

	user := &User{
		ID:             1,
		Email:          "bob@example.com",
		FirstName:      "Bob",
		LastName:       "Jones",
		Role:           RoleManager,
		HashedPassword: "$2a$10$hash",
	}
	assert.NoError(t, user.Validate())
	assert.Equal(t, Actor{ID: 1, Role: RoleManager}, user.Actor())
}

func TestRole(t *testing.T) {
	t.Parallel()

	assert.True(t, RoleAdmin.IsElevated())
	assert.True(t, RoleManager.IsElevated())
	assert.False(t, RoleMember.IsElevated())
	assert.False(t, Role("").Valid())

	role, err := ParseRole("manager")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, role)

	_, err = ParseRole("root")
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, ErrInvalidRole)
}
