package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/taskerp-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user and sets its ID.
	// It validates the user and hashes the plaintext password internally.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by email address (case-insensitive).
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Count returns the number of registered users.
	Count(ctx context.Context) (int, error)

	// Update saves an existing user's details. A non-empty plaintext
	// Password is hashed and replaces HashedPassword.
	// Returns ErrUserNotFound if the user does not exist and ErrEmailExists
	// if the new email is taken.
	Update(ctx context.Context, user *domain.User) error

	// WithTx returns a UserStore that runs its queries on tx.
	WithTx(tx *sql.Tx) UserStore
}
