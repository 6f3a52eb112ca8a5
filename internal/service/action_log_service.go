package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/domain/access"
	"github.com/phrazzld/taskerp-api/internal/platform/logger"
	"github.com/phrazzld/taskerp-api/internal/store"
)

// ActionLogService exposes the audit trail to administrators.
type ActionLogService interface {
	// ListActionLogs returns the newest entries first. A non-positive limit
	// means store.DefaultActionLogLimit; larger limits are capped.
	ListActionLogs(ctx context.Context, limit int, actor domain.Actor) ([]*domain.ActionLog, error)
}

type actionLogServiceImpl struct {
	logs   store.ActionLogStore
	logger *slog.Logger
}

// NewActionLogService creates a new ActionLogService.
func NewActionLogService(logs store.ActionLogStore, logger *slog.Logger) (ActionLogService, error) {
	if logs == nil {
		return nil, domain.NewValidationError("logs", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &actionLogServiceImpl{
		logs:   logs,
		logger: logger.With(slog.String("component", "action_log_service")),
	}, nil
}

// ListActionLogs implements ActionLogService.ListActionLogs
func (s *actionLogServiceImpl) ListActionLogs(
	ctx context.Context,
	limit int,
	actor domain.Actor,
) ([]*domain.ActionLog, error) {
	decision := access.Decide(access.Request{Actor: actor, Operation: access.OpListActionLogs})
	if !decision.Allowed() {
		return nil, NewUserServiceError("list_action_logs", decision.Reason, decision.Err())
	}

	entries, err := s.logs.List(ctx, store.NormalizeLimit(limit))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list action logs",
			slog.String("error", err.Error()))
		return nil, NewUserServiceError("list_action_logs", "failed to list action logs", err)
	}
	return entries, nil
}
