// Package common defines shared constants and sentinel errors used across
// the client and server layers of devmatch. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// ErrUnavailable marks infrastructure failures (database, object storage).
	// It is the only category a caller may reasonably retry.
	ErrUnavailable = errors.New("unavailable")

	// Service-level errors.
	ErrorInternal        = errors.New("internal error")
	ErrorUnauthenticated = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("validation error")

	// Relationship graph errors.
	ErrSelfReference         = errors.New("cannot send a connection request to yourself")
	ErrDuplicateRelationship = errors.New("connection request already exists")
	ErrUnknownUser           = errors.New("user does not exist")
	ErrInvalidTransition     = errors.New("invalid status transition")

	// Pagination errors.
	ErrInvalidPagination = errors.New("page and limit must be positive integers")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
