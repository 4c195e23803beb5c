package sim

import "errors"

var (
	// ErrNotInitialized indicates Run was called before Initialize.
	ErrNotInitialized = errors.New("sim: simulator not initialized")

	// ErrAlreadyCompleted indicates Run was called on a finished simulator.
	ErrAlreadyCompleted = errors.New("sim: simulation already completed")

	// ErrInvalidTransition indicates Initialize was called out of order.
	ErrInvalidTransition = errors.New("sim: invalid lifecycle transition")
)
