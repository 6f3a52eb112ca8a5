package testdb

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/taskerp-api/internal/config"
	"github.com/phrazzld/taskerp-api/internal/platform/postgres"
	"github.com/phrazzld/taskerp-api/internal/redact"
)

// Environment variables consulted, in order of precedence.
const (
	EnvTestDBURL   = "TASKERP_TEST_DB_URL"
	EnvDatabaseURL = "DATABASE_URL"
)

// ciEnvVars are set by the common CI providers.
var ciEnvVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

const setupTimeout = 30 * time.Second

// DatabaseURL returns the first non-empty test database URL, or "".
func DatabaseURL() string {
	for _, key := range []string{EnvTestDBURL, EnvDatabaseURL} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// IsCI reports whether the tests run under a CI provider.
func IsCI() bool {
	for _, key := range ciEnvVars {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

// Open connects to the test database and resets its schema with the embedded
// migrations. The connection is closed when the test ends.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	url := DatabaseURL()
	if url == "" {
		if IsCI() {
			t.Fatalf("%s or %s must be set in CI", EnvTestDBURL, EnvDatabaseURL)
		}
		t.Skipf("%s not set; skipping database test", EnvTestDBURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, config.DatabaseConfig{
		URL:          url,
		MaxOpenConns: 10,
		MaxIdleConns: 2,
	})
	if err != nil {
		t.Fatalf("connect to test database: %s", redact.Error(err))
	}
	t.Cleanup(func() { _ = db.Close() })

	for _, command := range []string{"reset", "up"} {
		if err := postgres.Migrate(ctx, db, command, nil); err != nil {
			t.Fatalf("migrate test database (%s): %s", command, redact.Error(err))
		}
	}
	return db
}

// WithTx runs fn inside a transaction that is rolled back afterwards, so
// the test leaves no rows behind.
func WithTx(t testing.TB, db *sql.DB, fn func(tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin test transaction: %s", redact.Error(err))
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Errorf("rollback test transaction: %s", redact.Error(err))
		}
	}()

	fn(tx)
}
