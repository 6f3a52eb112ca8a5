package memory

import (
	"context"
	"sync"

	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/store"
)

// DB holds the shared state behind the memory stores.
type DB struct {
	// txMu serializes units of work; mu guards the maps.
	txMu sync.Mutex
	mu   sync.RWMutex

	users map[int64]*domain.User
	tasks map[int64]*domain.Task
	logs  []*domain.ActionLog

	nextUserID int64
	nextTaskID int64
	nextLogID  int64

	bcryptCost int
}

// Option configures a DB.
type Option func(*DB)

// WithBCryptCost sets the cost used to hash passwords on Create and Update.
func WithBCryptCost(cost int) Option {
	return func(db *DB) { db.bcryptCost = cost }
}

// NewDB creates an empty in-memory database.
func NewDB(opts ...Option) *DB {
	db := &DB{
		users:      make(map[int64]*domain.User),
		tasks:      make(map[int64]*domain.Task),
		bcryptCost: minBCryptCost,
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Users returns a UserStore over db.
func (db *DB) Users() *UserStore { return &UserStore{db: db} }

// Tasks returns a TaskStore over db.
func (db *DB) Tasks() *TaskStore { return &TaskStore{db: db} }

// ActionLogs returns an ActionLogStore over db.
func (db *DB) ActionLogs() *ActionLogStore { return &ActionLogStore{db: db} }

// WithinTx implements store.Transactor. Units of work run one at a time.
// Writes are not rolled back when fn fails.
func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context, stores store.TxStores) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, store.TxStores{Users: db.Users(), Tasks: db.Tasks()})
}

var _ store.Transactor = (*DB)(nil)

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Password = ""
	return &c
}

func copyTask(t *domain.Task) *domain.Task {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	c.AssignedTo = nil
	c.CreatedBy = nil
	return &c
}
