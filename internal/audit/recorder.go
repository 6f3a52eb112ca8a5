package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/platform/logger"
	"github.com/phrazzld/taskerp-api/internal/store"
)

// writeTimeout bounds a single append; the request that produced the entry
// has usually finished by the time a worker gets to it.
const writeTimeout = 5 * time.Second

// RecorderConfig sizes a Recorder.
type RecorderConfig struct {
	// QueueSize is the number of entries buffered before new ones are dropped.
	QueueSize int
	// WorkerCount is the number of goroutines writing to the store.
	// If zero or negative, defaults to 1.
	WorkerCount int
}

// DefaultRecorderConfig returns a RecorderConfig with reasonable defaults.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{QueueSize: 256, WorkerCount: 2}
}

// Recorder is an asynchronous Sink backed by a queue and a worker pool.
type Recorder struct {
	queue       *Queue
	store       store.ActionLogStore
	workerCount int
	logger      *slog.Logger

	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once

	// errorHandler is called when an append fails. If nil, errors are only logged.
	errorHandler func(entry *domain.ActionLog, err error)
}

// NewRecorder creates a Recorder writing to s. Call Start before use and
// Stop on shutdown.
func NewRecorder(s store.ActionLogStore, cfg RecorderConfig, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "audit_recorder"))

	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", cfg.WorkerCount,
			"default_count", 1)
	}

	return &Recorder{
		queue:       NewQueue(cfg.QueueSize, logger),
		store:       s,
		workerCount: workerCount,
		logger:      logger,
	}
}

// SetErrorHandler sets a callback for failed appends.
func (r *Recorder) SetErrorHandler(handler func(entry *domain.ActionLog, err error)) {
	r.errorHandler = handler
}

// Start launches the workers. Calling it more than once has no effect.
func (r *Recorder) Start() {
	r.startOnce.Do(func() {
		r.logger.Info("starting audit workers", "worker_count", r.workerCount)
		for i := 0; i < r.workerCount; i++ {
			r.wg.Add(1)
			go r.worker(i)
		}
	})
}

// Record implements Sink. It never blocks on the store.
func (r *Recorder) Record(ctx context.Context, actorID int64, action domain.ActionType, details any) error {
	entry, err := NewEntry(actorID, action, details)
	if err != nil {
		return err
	}

	if err := r.queue.Enqueue(entry); err != nil {
		level := slog.LevelWarn
		if errors.Is(err, ErrQueueClosed) {
			level = slog.LevelError
		}
		logger.FromContextOrDefault(ctx, r.logger).Log(ctx, level, "audit entry dropped",
			slog.String("action_type", string(action)),
			slog.Int64("user_id", actorID),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Stop closes the queue and waits for the workers to drain it, or for ctx
// to end.
func (r *Recorder) Stop(ctx context.Context) error {
	r.stopOnce.Do(r.queue.Close)

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("audit workers stopped")
		return nil
	case <-ctx.Done():
		r.logger.Warn("audit workers did not drain before shutdown deadline",
			"pending", r.queue.Len())
		return ctx.Err()
	}
}

func (r *Recorder) worker(id int) {
	defer r.wg.Done()
	log := r.logger.With("worker_id", id)

	for entry := range r.queue.Channel() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := r.store.Append(ctx, entry)
		cancel()

		if err != nil {
			log.Error("failed to write action log",
				slog.String("action_type", string(entry.ActionType)),
				slog.Int64("user_id", entry.UserID),
				slog.String("error", err.Error()))
			if r.errorHandler != nil {
				r.errorHandler(entry, err)
			}
			continue
		}
		log.Debug("action log written",
			slog.Int64("action_log_id", entry.ID),
			slog.String("action_type", string(entry.ActionType)))
	}
}

var (
	_ Sink = (*Recorder)(nil)
	_ Sink = (*StoreSink)(nil)
	_ Sink = Discard{}
)
