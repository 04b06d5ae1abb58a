package audit

import "errors"

var (
	// ErrQueueFull is returned by Sink.Record when the write queue is full.
	// The entry is dropped.
	ErrQueueFull = errors.New("audit: queue full, entry dropped")

	// ErrClosed is returned by Sink.Record after Close.
	ErrClosed = errors.New("audit: sink closed")

	// ErrInvalidEntry is returned for an entry without topic or message.
	ErrInvalidEntry = errors.New("audit: topic and message are required")
)
