package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskerp-api/internal/api/shared"
	"github.com/phrazzld/taskerp-api/internal/domain"
)

var (
	adminUser  = &domain.User{ID: 1, Email: "admin@example.com", FirstName: "Ada", LastName: "Admin", Role: domain.RoleAdmin}
	memberUser = &domain.User{ID: 3, Email: "member@example.com", FirstName: "Mo", LastName: "Member", Role: domain.RoleMember}
)

// newRequest builds a request with optional JSON body, authenticated user and
// chi URL params.
func newRequest(method, target, body string, user *domain.User, params map[string]string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)

	ctx := req.Context()
	if user != nil {
		ctx = shared.WithUser(ctx, user)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}
