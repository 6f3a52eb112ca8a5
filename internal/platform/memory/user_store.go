package memory

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/store"
)

const minBCryptCost = bcrypt.MinCost

// UserStore implements store.UserStore in memory.
type UserStore struct {
	db *DB
}

var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	if user.Password == "" {
		return domain.ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.db.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.emailTakenLocked(user.Email, 0) {
		return store.ErrEmailExists
	}

	s.db.nextUserID++
	now := time.Now().UTC()
	user.ID = s.db.nextUserID
	user.HashedPassword = string(hash)
	user.Password = ""
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	s.db.users[user.ID] = copyUser(user)
	return nil
}

// GetByID implements store.UserStore.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return copyUser(u), nil
}

// GetByEmail implements store.UserStore.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, u := range s.db.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Count implements store.UserStore.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return len(s.db.users), nil
}

// Update implements store.UserStore.
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	if user.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.db.bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = string(hash)
		user.Password = ""
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	if s.emailTakenLocked(user.Email, user.ID) {
		return store.ErrEmailExists
	}

	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	s.db.users[user.ID] = copyUser(user)
	return nil
}

// WithTx implements store.UserStore. Memory stores have no transactions of their own.
func (s *UserStore) WithTx(*sql.Tx) store.UserStore {
	return s
}

func (s *UserStore) emailTakenLocked(email string, exceptID int64) bool {
	for id, u := range s.db.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}
