package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/phrazzld/taskerp-api/internal/domain"
)

// dueDateLayout is the calendar-date form accepted for due dates.
const dueDateLayout = "2006-01-02"

// RegisterRequest defines the payload for the registration and initial-admin endpoints.
type RegisterRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
	Role      string `json:"role"       validate:"omitempty,max=20"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        int64       `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	User UserResponse `json:"user"`

	// AccessToken is the JWT used for API authorization.
	AccessToken string `json:"token"`

	// RefreshToken is the JWT used to obtain new access tokens.
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the RFC 3339 timestamp when the access token expires.
	ExpiresAt string `json:"expires_at"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title        string  `json:"title"          validate:"required,max=255"`
	Description  *string `json:"description"`
	DueDate      *string `json:"due_date"`
	AssignedToID int64   `json:"assigned_to_id" validate:"required,gt=0"`
}

// UpdateTaskRequest defines the payload for a partial task update. Absent
// fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitempty,max=255"`
	Description *string `json:"description"`
	Status      *string `json:"status"`

	// DueDate stays raw so an absent field (unchanged) and null (clear) differ.
	DueDate json.RawMessage `json:"due_date"`
}

// AssignTaskRequest defines the payload for reassigning a task.
type AssignTaskRequest struct {
	AssignedToID int64 `json:"assigned_to_id" validate:"required,gt=0"`
}

// UpdateTaskStatusRequest defines the payload for a status change.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Status      domain.TaskStatus `json:"status"`
	DueDate     *string           `json:"due_date"`
	AssignedTo  *UserResponse     `json:"assigned_to,omitempty"`
	CreatedBy   *UserResponse     `json:"created_by,omitempty"`

	AssignedToID int64     `json:"assigned_to_id"`
	CreatedByID  int64     `json:"created_by_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ActionLogResponse is the public view of an audit entry.
type ActionLogResponse struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	ActionType domain.ActionType `json:"action_type"`
	Details    json.RawMessage   `json:"details,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func newUserResponsePtr(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	resp := newUserResponse(u)
	return &resp
}

func newTaskResponse(t *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       t.Status,
		AssignedTo:   newUserResponsePtr(t.AssignedTo),
		CreatedBy:    newUserResponsePtr(t.CreatedBy),
		AssignedToID: t.AssignedToID,
		CreatedByID:  t.CreatedByID,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if t.DueDate != nil {
		d := t.DueDate.Format(dueDateLayout)
		resp.DueDate = &d
	}
	return resp
}

func newTaskResponses(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = newTaskResponse(t)
	}
	return out
}

func newActionLogResponses(entries []*domain.ActionLog) []ActionLogResponse {
	out := make([]ActionLogResponse, len(entries))
	for i, e := range entries {
		out[i] = ActionLogResponse{
			ID:         e.ID,
			UserID:     e.UserID,
			ActionType: e.ActionType,
			Details:    e.Details,
			Timestamp:  e.Timestamp,
		}
	}
	return out
}

// parseDueDate accepts YYYY-MM-DD or an RFC 3339 timestamp. Nil and blank
// values yield nil.
func parseDueDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	if t, err := time.Parse(dueDateLayout, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, domain.NewValidationError("due_date", "must be a date in YYYY-MM-DD format", domain.ErrValidation)
	}
	return &t, nil
}

// parseDueDateField reads the due_date of an update. An absent field leaves
// the date unchanged; null or a blank string clears it.
func parseDueDateField(raw json.RawMessage) (due *time.Time, clearDue bool, err error) {
	if len(raw) == 0 {
		return nil, false, nil
	}
	if string(raw) == "null" {
		return nil, true, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, domain.NewValidationError("due_date", "must be a date in YYYY-MM-DD format", domain.ErrValidation)
	}
	if strings.TrimSpace(s) == "" {
		return nil, true, nil
	}

	due, err = parseDueDate(&s)
	return due, false, err
}

// toPatch converts the request into a domain patch.
func (req UpdateTaskRequest) toPatch() (domain.TaskPatch, error) {
	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}

	due, clearDue, err := parseDueDateField(req.DueDate)
	if err != nil {
		return domain.TaskPatch{}, err
	}
	patch.DueDate = due
	patch.ClearDueDate = clearDue

	if req.Status != nil {
		status, err := domain.ParseTaskStatus(*req.Status)
		if err != nil {
			return domain.TaskPatch{}, err
		}
		patch.Status = &status
	}
	return patch, nil
}
