// Package common defines shared constants and sentinel errors used across
// the client and server halves of LeadKeeper. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence failure")

	// Validation errors: malformed input to create/update. Never retried
	// automatically.
	ErrValidation = errors.New("validation error")

	// Sync/queue flow-control errors.
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrRemoteService      = errors.New("remote service error")
	ErrSyncInProgress     = errors.New("sync already in progress")
	ErrRetryExhausted     = errors.New("retry limit exhausted")
	ErrDrainInProgress    = errors.New("queue drain already in progress")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	ErrAlreadyExists = errors.New("already exists")
)
