package memory

import (
	"context"
	"time"

	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/store"
)

// ActionLogStore implements store.ActionLogStore in memory.
type ActionLogStore struct {
	db *DB
}

var _ store.ActionLogStore = (*ActionLogStore)(nil)

// Append implements store.ActionLogStore.
func (s *ActionLogStore) Append(ctx context.Context, entry *domain.ActionLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.nextLogID++
	entry.ID = s.db.nextLogID
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	c := *entry
	c.Details = append([]byte(nil), entry.Details...)
	s.db.logs = append(s.db.logs, &c)
	return nil
}

// List implements store.ActionLogStore.
func (s *ActionLogStore) List(ctx context.Context, limit int) ([]*domain.ActionLog, error) {
	limit = store.NormalizeLimit(limit)

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := make([]*domain.ActionLog, 0, min(limit, len(s.db.logs)))
	for i := len(s.db.logs) - 1; i >= 0 && len(out) < limit; i-- {
		c := *s.db.logs[i]
		out = append(out, &c)
	}
	return out, nil
}
