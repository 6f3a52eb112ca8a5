package audit

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/taskerp-api/internal/domain"
)

// Common errors returned by the Queue
var (
	ErrQueueClosed = errors.New("audit queue is closed")
	ErrQueueFull   = errors.New("audit queue is full")
)

// Queue is a bounded buffer of pending entries.
type Queue struct {
	mu      sync.RWMutex
	entries chan *domain.ActionLog
	logger  *slog.Logger
	closed  bool
}

// NewQueue creates a queue holding at most size entries.
func NewQueue(size int, logger *slog.Logger) *Queue {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		entries: make(chan *domain.ActionLog, size),
		logger:  logger,
	}
}

// Enqueue adds an entry without blocking.
// Returns ErrQueueFull or ErrQueueClosed when it cannot.
func (q *Queue) Enqueue(entry *domain.ActionLog) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.entries <- entry:
		q.logger.Debug("audit entry enqueued",
			"action_type", entry.ActionType,
			"queue_len", len(q.entries),
			"queue_cap", cap(q.entries))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.entries))
	}
}

// Close stops accepting entries. Entries already queued remain readable.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.entries)
		q.logger.Info("audit queue closed")
	}
}

// Channel returns the read side of the queue.
func (q *Queue) Channel() <-chan *domain.ActionLog {
	return q.entries
}

// Len returns the number of queued entries.
func (q *Queue) Len() int {
	return len(q.entries)
}
