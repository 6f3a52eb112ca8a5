package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

// The four task statuses. No other value is ever valid.
const (
	TaskStatusPending   TaskStatus = "Pending"
	TaskStatusOngoing   TaskStatus = "Ongoing"
	TaskStatusInReview  TaskStatus = "In review"
	TaskStatusCompleted TaskStatus = "Completed"
)

// maxTitleLength matches the varchar(255) title column.
const maxTitleLength = 255

// Common validation errors for Task
var (
	ErrEmptyTaskTitle    = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong  = errors.New("task title must be at most 255 characters")
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrInvalidAssignee   = errors.New("assigned user ID must be positive")
	ErrInvalidCreator    = errors.New("creating user ID must be positive")
	ErrEmptyTaskPatch    = errors.New("no fields to update")
)

// AllTaskStatuses returns the statuses in lifecycle order.
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusPending,
		TaskStatusOngoing,
		TaskStatusInReview,
		TaskStatusCompleted,
	}
}

// Valid reports whether s is one of the four task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusOngoing, TaskStatusInReview, TaskStatusCompleted:
		return true
	}
	return false
}

// ParseTaskStatus accepts the wire value ("In review") or the constant
// spelling ("IN_REVIEW"), case-insensitively.
func ParseTaskStatus(s string) (TaskStatus, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", " "))
	for _, status := range AllTaskStatuses() {
		if strings.ToLower(string(status)) == norm {
			return status, nil
		}
	}
	return "", NewValidationError("status", "must be one of Pending, Ongoing, In review, Completed", ErrInvalidTaskStatus)
}

// Task is a unit of work assigned to a user.
type Task struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	Status       TaskStatus `json:"status"`
	DueDate      *time.Time `json:"due_date"`
	AssignedToID int64      `json:"assigned_to_id"`
	CreatedByID  int64      `json:"created_by_id"`

	// Populated when the task is loaded together with its related users.
	AssignedTo *User `json:"assigned_to,omitempty"`
	CreatedBy  *User `json:"created_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTask creates a validated task. The status is always PENDING.
func NewTask(title string, description *string, dueDate *time.Time, assignedToID, createdByID int64) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		Title:        strings.TrimSpace(title),
		Description:  normalizeDescription(description),
		Status:       TaskStatusPending,
		DueDate:      truncateDate(dueDate),
		AssignedToID: assignedToID,
		CreatedByID:  createdByID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if err := validateTitle(t.Title); err != nil {
		return err
	}
	if !t.Status.Valid() {
		return NewValidationError("status", "is not a valid task status", ErrInvalidTaskStatus)
	}
	if t.AssignedToID <= 0 {
		return NewValidationError("assigned_to_id", "must be a positive integer", ErrInvalidAssignee)
	}
	if t.CreatedByID <= 0 {
		return NewValidationError("created_by_id", "must be a positive integer", ErrInvalidCreator)
	}
	return nil
}

// IsAssignedTo reports whether userID is the task's current assignee.
func (t *Task) IsAssignedTo(userID int64) bool {
	return t.AssignedToID == userID
}

// TaskPatch carries the fields of an update request. Nil fields are left
// untouched. An empty description clears it; ClearDueDate removes the due date.
type TaskPatch struct {
	Title        *string     `json:"title,omitempty"`
	Description  *string     `json:"description,omitempty"`
	DueDate      *time.Time  `json:"due_date,omitempty"`
	ClearDueDate bool        `json:"clear_due_date,omitempty"`
	Status       *TaskStatus `json:"status,omitempty"`
}

// ErrConflictingDueDate is returned for a patch that both sets and clears the due date.
var ErrConflictingDueDate = errors.New("due date cannot be both set and cleared")

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil && !p.ClearDueDate && p.Status == nil
}

// Validate checks the fields that are present.
func (p TaskPatch) Validate() error {
	if p.IsEmpty() {
		return NewValidationError("", ErrEmptyTaskPatch.Error(), ErrEmptyTaskPatch)
	}
	if p.Title != nil {
		if err := validateTitle(strings.TrimSpace(*p.Title)); err != nil {
			return err
		}
	}
	if p.DueDate != nil && p.ClearDueDate {
		return NewValidationError("due_date", ErrConflictingDueDate.Error(), ErrConflictingDueDate)
	}
	if p.Status != nil && !p.Status.Valid() {
		return NewValidationError("status", "is not a valid task status", ErrInvalidTaskStatus)
	}
	return nil
}

// ChangesStatus reports whether applying p to t would move it to a different status.
func (p TaskPatch) ChangesStatus(t *Task) bool {
	return p.Status != nil && *p.Status != t.Status
}

// Apply merges the patch into t and bumps UpdatedAt.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = normalizeDescription(p.Description)
	}
	switch {
	case p.ClearDueDate:
		t.DueDate = nil
	case p.DueDate != nil:
		t.DueDate = truncateDate(p.DueDate)
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	t.UpdatedAt = time.Now().UTC()
}

func validateTitle(title string) error {
	if title == "" {
		return NewValidationError("title", "is required", ErrEmptyTaskTitle)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return NewValidationError("title", "must be at most 255 characters", ErrTaskTitleTooLong)
	}
	return nil
}

func normalizeDescription(d *string) *string {
	if d == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*d)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// truncateDate drops the time of day; due dates are calendar dates. The date
// is read in d's own location, so 2026-12-01T01:00:00+05:00 stays December 1.
func truncateDate(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	y, m, day := d.Date()
	date := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return &date
}
