package access

import (
	"fmt"

	"github.com/phrazzld/taskerp-api/internal/domain"
)

// Operation is an action an actor asks to perform.
type Operation string

// Operations covered by the policy.
const (
	OpCreateTask     Operation = "create_task"
	OpListTasks      Operation = "list_tasks"
	OpViewTask       Operation = "view_task"
	OpUpdateTask     Operation = "update_task"
	OpAssignTask     Operation = "assign_task"
	OpDeleteTask     Operation = "delete_task"
	OpListActionLogs Operation = "list_action_logs"
	OpRegisterUser   Operation = "register_user"
)

// taskOperations are decided purely by role class and relationship.
var taskOperations = []Operation{
	OpCreateTask, OpListTasks, OpViewTask, OpUpdateTask, OpAssignTask, OpDeleteTask,
}

// Relationship is the actor's relation to the task in question.
type Relationship int

const (
	// Unrelated means the actor is not the task's assignee (or there is no task yet).
	Unrelated Relationship = iota
	// Assignee means the actor is, or asks to become, the task's assignee.
	Assignee
)

// Effect is the outcome of a decision.
type Effect int

const (
	// Allow permits the operation.
	Allow Effect = iota
	// Deny rejects the operation as unauthorized.
	Deny
	// Hide rejects a read by pretending the task does not exist.
	Hide
	// RejectTransition rejects a status change the actor may not make.
	RejectTransition
)

// String implements fmt.Stringer.
func (e Effect) String() string {
	switch e {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case Hide:
		return "hide"
	case RejectTransition:
		return "reject_transition"
	}
	return fmt.Sprintf("effect(%d)", int(e))
}

// Decision is the result of Decide.
type Decision struct {
	Effect Effect
	Reason string
}

// Allowed reports whether the operation may proceed.
func (d Decision) Allowed() bool {
	return d.Effect == Allow
}

// Err converts a rejection into the matching domain error, or nil when allowed.
func (d Decision) Err() error {
	switch d.Effect {
	case Allow:
		return nil
	case Hide:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, d.Reason)
	case RejectTransition:
		return fmt.Errorf("%w: %s", domain.ErrInvalidTransition, d.Reason)
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, d.Reason)
	}
}

func allow() Decision { return Decision{Effect: Allow} }

// Request describes the operation to decide on.
type Request struct {
	Actor     domain.Actor
	Operation Operation

	// Task is the existing task the operation targets. It is nil for
	// create, list, and for delete/assign checks made before the lookup.
	Task *domain.Task

	// AssigneeID is the requested assignee of a task being created.
	AssigneeID int64

	// NewStatus is the status requested by an update, if any.
	NewStatus *domain.TaskStatus

	// Role is the role requested for a user being registered.
	Role domain.Role
}

type ruleKey struct {
	class RoleClass
	op    Operation
	rel   Relationship
}

// rules maps (class, operation, relationship) to the entry decision. Status
// transitions are checked separately against the transition table.
var rules = buildRules()

func buildRules() map[ruleKey]Decision {
	table := map[ruleKey]Decision{
		{Restricted, OpCreateTask, Assignee}:  allow(),
		{Restricted, OpCreateTask, Unrelated}: {Deny, "members can only create tasks assigned to themselves"},
		{Restricted, OpListTasks, Assignee}:   allow(),
		{Restricted, OpListTasks, Unrelated}:  allow(),
		{Restricted, OpViewTask, Assignee}:    allow(),
		{Restricted, OpViewTask, Unrelated}:   {Hide, "task not found"},
		{Restricted, OpUpdateTask, Assignee}:  allow(),
		{Restricted, OpUpdateTask, Unrelated}: {Deny, "unauthorized to update this task"},
		{Restricted, OpAssignTask, Assignee}:  {Deny, "unauthorized to assign tasks"},
		{Restricted, OpAssignTask, Unrelated}: {Deny, "unauthorized to assign tasks"},
		{Restricted, OpDeleteTask, Assignee}:  {Deny, "unauthorized to delete tasks"},
		{Restricted, OpDeleteTask, Unrelated}: {Deny, "unauthorized to delete tasks"},
	}

	for _, op := range taskOperations {
		table[ruleKey{Elevated, op, Assignee}] = allow()
		table[ruleKey{Elevated, op, Unrelated}] = allow()
	}
	return table
}

// RelationshipOf returns the actor's relationship to the request's task.
func RelationshipOf(req Request) Relationship {
	if req.Operation == OpCreateTask {
		if req.AssigneeID == req.Actor.ID {
			return Assignee
		}
		return Unrelated
	}
	if req.Task != nil && req.Task.IsAssignedTo(req.Actor.ID) {
		return Assignee
	}
	return Unrelated
}

// Decide returns whether the actor may perform the requested operation.
func Decide(req Request) Decision {
	switch req.Operation {
	case OpListActionLogs:
		if req.Actor.Role == domain.RoleAdmin {
			return allow()
		}
		return Decision{Deny, "only admins can view action logs"}
	case OpRegisterUser:
		return decideRegistration(req)
	}

	class := ClassOf(req.Actor.Role)
	entry, ok := rules[ruleKey{class, req.Operation, RelationshipOf(req)}]
	if !ok {
		return Decision{Deny, fmt.Sprintf("operation %q is not permitted", req.Operation)}
	}
	if !entry.Allowed() {
		return entry
	}

	if req.Operation == OpUpdateTask && req.Task != nil && req.NewStatus != nil {
		from, to := req.Task.Status, *req.NewStatus
		// Re-sending the current status is a no-op, not a transition.
		if from != to && !CanTransition(class, from, to) {
			return Decision{
				Effect: RejectTransition,
				Reason: fmt.Sprintf("cannot move task from %s to %s as a %s", from, to, req.Actor.Role),
			}
		}
	}

	return entry
}

func decideRegistration(req Request) Decision {
	role := req.Role
	if role == "" {
		role = domain.DefaultRole
	}
	if !role.Valid() {
		return Decision{Deny, fmt.Sprintf("role %q does not exist", req.Role)}
	}
	if role != domain.DefaultRole && req.Actor.Role != domain.RoleAdmin {
		return Decision{Deny, "unauthorized to register users with this role"}
	}
	return allow()
}

// CanView reports whether the task is visible to the actor.
func CanView(actor domain.Actor, task *domain.Task) bool {
	return Decide(Request{Actor: actor, Operation: OpViewTask, Task: task}).Allowed()
}

// ListScope returns the assignee a task listing must be restricted to, or
// false when the actor may see every task.
func ListScope(actor domain.Actor) (assigneeID int64, restricted bool) {
	if ClassOf(actor.Role) == Elevated {
		return 0, false
	}
	return actor.ID, true
}
