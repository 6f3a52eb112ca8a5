// Package memory implements the store interfaces in process memory.
//
// It backs the service, audit and router tests. All stores created from one
// DB share state, and DB.WithinTx serializes units of work so read-modify-write
// sequences behave like row-locked transactions.
package memory
