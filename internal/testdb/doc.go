// Package testdb provides PostgreSQL helpers for integration tests.
//
// Tests connect to the database named by TASKERP_TEST_DB_URL (or DATABASE_URL),
// get a freshly migrated schema, and can isolate their writes in a transaction
// that is always rolled back:
//
//	db := testdb.Open(t)
//	testdb.WithTx(t, db, func(tx *sql.Tx) {
//		users := postgres.NewPostgresUserStore(tx, 4, nil)
//		// ...
//	})
//
// Outside CI a missing URL skips the test. In CI it fails, so a misconfigured
// pipeline cannot silently pass.
package testdb
