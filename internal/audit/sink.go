package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/platform/logger"
	"github.com/phrazzld/taskerp-api/internal/store"
)

// Sink accepts audit entries. Callers treat a returned error as informational:
// the audited mutation has already happened and stands.
type Sink interface {
	Record(ctx context.Context, actorID int64, action domain.ActionType, details any) error
}

// NewEntry builds an action log entry, encoding details as JSON.
func NewEntry(actorID int64, action domain.ActionType, details any) (*domain.ActionLog, error) {
	entry := &domain.ActionLog{
		UserID:     actorID,
		ActionType: action,
		Timestamp:  time.Now().UTC(),
	}
	if details == nil {
		return entry, nil
	}

	raw, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s details: %w", action, err)
	}
	entry.Details = raw
	return entry, nil
}

// StoreSink writes entries synchronously.
type StoreSink struct {
	store  store.ActionLogStore
	logger *slog.Logger
}

// NewStoreSink creates a Sink that appends directly to s.
func NewStoreSink(s store.ActionLogStore, logger *slog.Logger) *StoreSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreSink{store: s, logger: logger.With(slog.String("component", "audit_sink"))}
}

// Record implements Sink.
func (s *StoreSink) Record(ctx context.Context, actorID int64, action domain.ActionType, details any) error {
	entry, err := NewEntry(actorID, action, details)
	if err != nil {
		return err
	}
	if err := s.store.Append(ctx, entry); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to write action log",
			slog.String("action_type", string(action)),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to write action log: %w", err)
	}
	return nil
}

// Discard drops every entry.
type Discard struct{}

// Record implements Sink.
func (Discard) Record(context.Context, int64, domain.ActionType, any) error { return nil }
