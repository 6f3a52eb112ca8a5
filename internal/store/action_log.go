package store

import (
	"context"

	"github.com/phrazzld/taskerp-api/internal/domain"
)

// DefaultActionLogLimit is used when List is called with a non-positive limit.
const DefaultActionLogLimit = 100

// MaxActionLogLimit caps a single List call.
const MaxActionLogLimit = 1000

// ActionLogStore persists the append-only audit trail.
type ActionLogStore interface {
	// Append saves a new entry and sets its ID and Timestamp (if zero).
	Append(ctx context.Context, entry *domain.ActionLog) error

	// List returns up to limit entries, newest first.
	List(ctx context.Context, limit int) ([]*domain.ActionLog, error)
}

// NormalizeLimit clamps limit into [1, MaxActionLogLimit], mapping
// non-positive values to DefaultActionLogLimit.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultActionLogLimit
	}
	if limit > MaxActionLogLimit {
		return MaxActionLogLimit
	}
	return limit
}
