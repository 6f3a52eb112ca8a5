package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskerp-api/internal/store"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// codeErrors maps a SQLSTATE to the store sentinel it becomes.
var codeErrors = map[string]error{
	uniqueViolationCode:     store.ErrDuplicate,
	foreignKeyViolationCode: store.ErrReferenceMissing,
	checkViolationCode:      store.ErrInvalidEntity,
	notNullViolationCode:    store.ErrInvalidEntity,
}

// constraintErrors refines codeErrors for constraints declared in the
// migrations whose violation has a more specific meaning.
var constraintErrors = map[string]error{
	"users_email_key":           store.ErrEmailExists,
	"tasks_assigned_to_id_fkey": fmt.Errorf("%w: assignee", store.ErrReferenceMissing),
	"tasks_created_by_id_fkey":  fmt.Errorf("%w: creator", store.ErrReferenceMissing),
}

// MapError translates a database error into a store sentinel, wrapping the
// original so the driver detail survives for logs. Unrecognized errors are
// returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	if sentinel, ok := constraintErrors[pgErr.ConstraintName]; ok {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	sentinel, ok := codeErrors[pgErr.Code]
	if !ok {
		return err
	}

	// Name the offending constraint or column when the server reported one.
	switch {
	case pgErr.ConstraintName != "":
		return fmt.Errorf("%w (%s): %v", sentinel, pgErr.ConstraintName, err)
	case pgErr.ColumnName != "":
		return fmt.Errorf("%w (%s): %v", sentinel, pgErr.ColumnName, err)
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

// IsUniqueViolation checks if the given error is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsNotFoundError checks if the given error represents a "not found" scenario.
// This handles both sql.ErrNoRows and errors that are or wrap store.ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, store.ErrNotFound)
}

// CheckRowsAffected returns store.ErrNotFound when an UPDATE or DELETE
// touched no rows.
func CheckRowsAffected(result sql.Result, entityName string) error {
	if result == nil {
		return errors.New("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if entityName == "" {
			return store.ErrNotFound
		}
		return fmt.Errorf("%w: %s not found", store.ErrNotFound, entityName)
	}

	return nil
}
