package domain

import (
	"encoding/json"
	"time"
)

// ActionType names an audited action.
type ActionType string

// Audited actions.
const (
	ActionTaskCreated    ActionType = "TASK_CREATED"
	ActionTaskUpdated    ActionType = "TASK_UPDATED"
	ActionTaskAssigned   ActionType = "TASK_ASSIGNED"
	ActionTaskDeleted    ActionType = "TASK_DELETED"
	ActionUserRegistered ActionType = "USER_REGISTERED"
	ActionUserLogin      ActionType = "USER_LOGIN"
)

// HTTPRequestAction returns the action type recorded for an authenticated
// request with the given method, e.g. HTTP_REQUEST_GET.
func HTTPRequestAction(method string) ActionType {
	return ActionType("HTTP_REQUEST_" + method)
}

// ActionLog is an immutable audit record.
type ActionLog struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	ActionType ActionType      `json:"action_type"`
	Details    json.RawMessage `json:"details,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}
