package calcpad

import "github.com/bft-labs/calcpad/internal/domain"

// Errors returned by this package. Check them with errors.Is.
var (
	ErrInvalidEvent    = domain.ErrInvalidEvent
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrShutdownTimeout = domain.ErrShutdownTimeout
	ErrInvalidConfig   = domain.ErrInvalidConfig
)
