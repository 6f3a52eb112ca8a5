// Package service contains the application use cases: the task lifecycle and
// the user account flows. Services orchestrate the authorization engine in
// internal/domain/access, the store interfaces in internal/store and the audit
// sink; they receive all of them through constructor injection and depend on
// no infrastructure implementation.
//
// Errors returned by services wrap the domain sentinels (domain.ErrNotFound,
// domain.ErrUnauthorized, domain.ErrInvalidTransition, domain.ErrValidation)
// so callers classify them with errors.Is.
package service
