// Package common defines shared constants and sentinel errors used across
// PrintDesk components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors raised at entity construction boundaries.
	ErrValidation = errors.New("validation error")

	// State-machine errors. ErrConflict means a precondition on current
	// state failed (task already claimed, actor is not the assignee).
	// ErrInvalidTransition means the requested status change is illegal
	// from the current status.
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid transition")

	// Lifecycle errors for sessions and verification codes.
	ErrExpired = errors.New("expired")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
