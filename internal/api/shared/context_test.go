package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskerp-api/internal/domain"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx), "Expected empty trace ID in original context")

	ctxWithTrace := SetTraceID(ctx)
	traceID := GetTraceID(ctxWithTrace)
	assert.Len(t, traceID, TraceIDLength)

	_, err := hex.DecodeString(traceID)
	assert.NoError(t, err, "Expected valid hex string")

	assert.Empty(t, GetTraceID(ctx), "Expected original context to remain unchanged")
}

func TestGetTraceIDWithInvalidContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(ctx))
}

func TestNewTraceID_Unique(t *testing.T) {
	const iterations = 1000
	seen := make(map[string]bool, iterations)
	for range iterations {
		id := NewTraceID()
		require.Len(t, id, TraceIDLength)
		assert.False(t, seen[id], "Expected all trace IDs to be unique")
		seen[id] = true
	}
}

func TestUserContext(t *testing.T) {
	ctx := context.Background()

	_, ok := UserFromContext(ctx)
	assert.False(t, ok)
	_, ok = ActorFromContext(ctx)
	assert.False(t, ok)

	_, ok = UserFromContext(WithUser(ctx, &domain.User{}))
	assert.False(t, ok, "users without an ID are not authenticated")

	user := &domain.User{ID: 5, Email: "m@example.com", Role: domain.RoleManager}
	ctx = WithUser(ctx, user)

	got, ok := UserFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, user, got)

	actor, ok := ActorFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, domain.Actor{ID: 5, Role: domain.RoleManager}, actor)
}
