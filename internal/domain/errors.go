package domain

import "errors"

// Domain errors represent error conditions in the calcpad domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrInvalidEvent is returned when an input event cannot be built from
	// the given key, action or value.
	ErrInvalidEvent = errors.New("calcpad: invalid input event")

	// ErrUnknownOperator is returned when a symbol does not name an operator.
	ErrUnknownOperator = errors.New("calcpad: unknown operator")

	// ErrAlreadyRunning is returned when Start() is called on a running server.
	ErrAlreadyRunning = errors.New("calcpad: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped server.
	ErrNotRunning = errors.New("calcpad: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("calcpad: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("calcpad: invalid configuration")

	// ErrTooManySessions is returned when the session limit is reached.
	ErrTooManySessions = errors.New("calcpad: too many sessions")
)
