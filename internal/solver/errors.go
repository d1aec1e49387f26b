package solver

import "errors"

// Per-attempt error kinds. These never escape Solve; they end up as
// AttemptRecord abort reasons. Only the programmer errors below propagate
// to the caller.
var (
	// ErrGeometryUnavailable means the slider or container element is
	// missing, zero-sized, or the handle reported itself detached while
	// probing.
	ErrGeometryUnavailable = errors.New("challenge geometry unavailable")

	// ErrFrameDetached means the challenge surface became unattached
	// mid-attempt. The handle is terminal for the attempt; recovery is a
	// fresh probe on the next attempt.
	ErrFrameDetached = errors.New("challenge frame detached")

	// ErrMovementTimeout means the attempt deadline elapsed during movement.
	ErrMovementTimeout = errors.New("movement deadline exceeded")

	// ErrValidationIndeterminate means the validator could not confirm
	// either outcome.
	ErrValidationIndeterminate = errors.New("validation indeterminate")
)

// Programmer errors. These are the only errors Solve returns directly.
var (
	ErrNilHandle     = errors.New("nil challenge handle")
	ErrNilDriver     = errors.New("nil pointer driver")
	ErrInvalidConfig = errors.New("invalid solver config")
)
