package simulator

import "errors"

var (
	// ErrUnknownSlot is returned for a slot id outside [1, N].
	ErrUnknownSlot = errors.New("simulator: unknown slot")

	// ErrNoBus is returned by New without a bus.
	ErrNoBus = errors.New("simulator: bus is required")
)
