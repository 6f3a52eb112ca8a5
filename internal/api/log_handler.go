package api

import (
	"net/http"
	"strconv"

	"github.com/phrazzld/taskerp-api/internal/api/shared"
	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/service"
)

// ActionLogHandler serves the audit trail.
type ActionLogHandler struct {
	logs service.ActionLogService
}

// NewActionLogHandler creates a new ActionLogHandler.
func NewActionLogHandler(logs service.ActionLogService) *ActionLogHandler {
	return &ActionLogHandler{logs: logs}
}

// ListActionLogs handles GET /api/logs?limit=N.
func (h *ActionLogHandler) ListActionLogs(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			HandleAPIError(w, r, domain.NewValidationError("limit", "must be a positive integer", domain.ErrValidation), "")
			return
		}
		limit = n
	}

	entries, err := h.logs.ListActionLogs(r.Context(), limit, actor)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "Action logs retrieved successfully", newActionLogResponses(entries))
}
