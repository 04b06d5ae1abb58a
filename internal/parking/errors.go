package parking

import "errors"

// Domain errors for the parking package.
var (
	// ErrInvalidNamespace is returned when a topic root is empty or
	// contains MQTT wildcards.
	ErrInvalidNamespace = errors.New("parking: invalid topic namespace")

	// ErrInvalidCapacity is returned when the lot has fewer than one slot.
	ErrInvalidCapacity = errors.New("parking: capacity must be at least 1")

	// ErrMalformedTopic is returned when a slot-status topic does not
	// match <root>/Slots/{id}/Status with a numeric id.
	ErrMalformedTopic = errors.New("parking: malformed slot topic")

	// ErrMalformedPayload is returned when a slot-status payload is not "0" or "1".
	ErrMalformedPayload = errors.New("parking: malformed slot payload")

	// ErrSlotOutOfRange is returned when a slot id is outside [1, N].
	ErrSlotOutOfRange = errors.New("parking: slot id out of range")

	// ErrNoBus is returned by New without a bus.
	ErrNoBus = errors.New("parking: bus is required")

	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("parking: engine already running")

	// ErrStopped is returned when the engine no longer accepts messages.
	ErrStopped = errors.New("parking: engine stopped")
)
