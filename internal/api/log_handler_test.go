package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/service"
)

func TestActionLogHandler_List(t *testing.T) {
	svc := &mockActionLogService{}
	svc.On("ListActionLogs", mock.Anything, 25, adminUser.Actor()).Return([]*domain.ActionLog{
		{ID: 2, UserID: 1, ActionType: domain.ActionTaskCreated, Details: json.RawMessage(`{"taskId":1}`)},
	}, nil)

	rec := httptest.NewRecorder()
	NewActionLogHandler(svc).ListActionLogs(rec, newRequest(http.MethodGet, "/api/logs?limit=25", "", adminUser, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var entries []ActionLogResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionTaskCreated, entries[0].ActionType)
	assert.JSONEq(t, `{"taskId":1}`, string(entries[0].Details))
	svc.AssertExpectations(t)
}

func TestActionLogHandler_DefaultLimitAndErrors(t *testing.T) {
	svc := &mockActionLogService{}
	svc.On("ListActionLogs", mock.Anything, 0, memberUser.Actor()).
		Return(nil, service.NewUserServiceError("list_action_logs", "admins only", domain.ErrUnauthorized))

	rec := httptest.NewRecorder()
	NewActionLogHandler(svc).ListActionLogs(rec, newRequest(http.MethodGet, "/api/logs", "", memberUser, nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	NewActionLogHandler(svc).ListActionLogs(rec, newRequest(http.MethodGet, "/api/logs?limit=abc", "", adminUser, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
