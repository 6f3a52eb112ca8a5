package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/taskerp-api/internal/domain"
)

// RecordedAction is one call captured by MockSink.
type RecordedAction struct {
	ActorID int64
	Action  domain.ActionType
	Details any
}

// MockSink implements audit.Sink by capturing every call. It is safe for
// concurrent use.
type MockSink struct {
	mu      sync.Mutex
	records []RecordedAction

	// Err is returned from every Record call.
	Err error
}

// Record implements audit.Sink.
func (s *MockSink) Record(_ context.Context, actorID int64, action domain.ActionType, details any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, RecordedAction{ActorID: actorID, Action: action, Details: details})
	return s.Err
}

// Records returns a copy of the captured calls in order.
func (s *MockSink) Records() []RecordedAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedAction(nil), s.records...)
}

// Actions returns the captured action types in order.
func (s *MockSink) Actions() []domain.ActionType {
	records := s.Records()
	out := make([]domain.ActionType, len(records))
	for i, r := range records {
		out[i] = r.Action
	}
	return out
}
