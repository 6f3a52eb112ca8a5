package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/store"
)

// MockActionLogStore is a testify mock of store.ActionLogStore.
type MockActionLogStore struct {
	mock.Mock
}

var _ store.ActionLogStore = (*MockActionLogStore)(nil)

func (m *MockActionLogStore) Append(ctx context.Context, entry *domain.ActionLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockActionLogStore) List(ctx context.Context, limit int) ([]*domain.ActionLog, error) {
	args := m.Called(ctx, limit)
	if entries, ok := args.Get(0).([]*domain.ActionLog); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}
