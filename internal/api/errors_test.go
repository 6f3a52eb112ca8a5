package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/service"
	"github.com/phrazzld/taskerp-api/internal/service/auth"
	"github.com/phrazzld/taskerp-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	wrapNotFound := fmt.Errorf("%w: %w", domain.ErrNotFound, store.ErrTaskNotFound)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.NewValidationError("title", "is required", domain.ErrEmptyTaskTitle), http.StatusBadRequest},
		{"invalid id", domain.NewValidationError("id", "must be a positive integer", domain.ErrInvalidID), http.StatusBadRequest},
		{"not found", service.NewTaskServiceError("get_task", "task not found", wrapNotFound), http.StatusNotFound},
		{"unauthorized", service.NewTaskServiceError("delete_task", "denied", domain.ErrUnauthorized), http.StatusForbidden},
		{"invalid transition", service.NewTaskServiceError("update_task", "bad move", domain.ErrInvalidTransition), http.StatusConflict},
		{"duplicate email", service.NewUserServiceError("register", "dup", store.ErrEmailExists), http.StatusConflict},
		{"initial admin exists", service.ErrInitialAdminExists, http.StatusConflict},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"bad credentials", service.NewUserServiceError("login", "nope", auth.ErrInvalidCredentials), http.StatusUnauthorized},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestUnauthorizedAndInvalidTransitionAreDistinct(t *testing.T) {
	denied := service.NewTaskServiceError("update_task", "denied", domain.ErrUnauthorized)
	rejected := service.NewTaskServiceError("update_task", "rejected", domain.ErrInvalidTransition)

	assert.NotEqual(t, MapErrorToStatusCode(denied), MapErrorToStatusCode(rejected))
	assert.NotEqual(t, GetSafeErrorMessage(denied), GetSafeErrorMessage(rejected))
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"validation with field", domain.NewValidationError("title", "is required", domain.ErrEmptyTaskTitle), "Validation error: title is required"},
		{"missing user", fmt.Errorf("%w: %w", domain.ErrNotFound, store.ErrUserNotFound), "User not found"},
		{"missing task", fmt.Errorf("%w: %w", domain.ErrNotFound, store.ErrTaskNotFound), "Task not found"},
		{"transition", domain.ErrInvalidTransition, "Invalid status transition"},
		{"expired token", auth.ErrExpiredToken, "Token expired"},
		{"internal details hidden", errors.New("pq: relation \"tasks\" does not exist"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	v := validator.New()

	err := v.Struct(CreateTaskRequest{Title: "ok"})
	assert.Equal(t, "Invalid assigned_to_id: required field", SanitizeValidationError(err))

	err = v.Struct(RegisterRequest{Email: "not-an-email", Password: "password123", FirstName: "A", LastName: "B"})
	assert.Equal(t, "Invalid email: invalid email format", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}

func TestJSONFieldName(t *testing.T) {
	assert.Equal(t, "assigned_to_id", jsonFieldName("AssignedToID"))
	assert.Equal(t, "first_name", jsonFieldName("FirstName"))
	assert.Equal(t, "email", jsonFieldName("Email"))
}
