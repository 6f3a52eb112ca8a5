package access

import "github.com/phrazzld/taskerp-api/internal/domain"

// RoleClass groups roles by privilege. Every task rule depends only on the class.
type RoleClass int

const (
	// Restricted is the MEMBER class: permissions scoped to own tasks.
	Restricted RoleClass = iota
	// Elevated is the ADMIN and MANAGER class: unrestricted task operations.
	Elevated
)

// String implements fmt.Stringer.
func (c RoleClass) String() string {
	if c == Elevated {
		return "elevated"
	}
	return "restricted"
}

// ClassOf returns the role class of r. Unknown roles are restricted.
func ClassOf(r domain.Role) RoleClass {
	if r.IsElevated() {
		return Elevated
	}
	return Restricted
}

type transitionKey struct {
	class RoleClass
	from  domain.TaskStatus
	to    domain.TaskStatus
}

// transitions lists every legal (class, from, to) triple. Absent triples are denied.
var transitions = buildTransitionTable()

func buildTransitionTable() map[transitionKey]bool {
	table := map[transitionKey]bool{
		{Restricted, domain.TaskStatusPending, domain.TaskStatusOngoing}:  true,
		{Restricted, domain.TaskStatusOngoing, domain.TaskStatusInReview}: true,
	}

	// Elevated roles may skip states and move backward.
	for _, from := range domain.AllTaskStatuses() {
		for _, to := range domain.AllTaskStatuses() {
			if from != to {
				table[transitionKey{Elevated, from, to}] = true
			}
		}
	}
	return table
}

// CanTransition reports whether the class may move a task from one status to
// another. A move to the same status is not a transition and reports false;
// callers skip the check in that case.
func CanTransition(class RoleClass, from, to domain.TaskStatus) bool {
	return transitions[transitionKey{class, from, to}]
}

// AllowedTransitions returns the statuses reachable from `from` for the class,
// in lifecycle order.
func AllowedTransitions(class RoleClass, from domain.TaskStatus) []domain.TaskStatus {
	var out []domain.TaskStatus
	for _, to := range domain.AllTaskStatuses() {
		if CanTransition(class, from, to) {
			out = append(out, to)
		}
	}
	return out
}
