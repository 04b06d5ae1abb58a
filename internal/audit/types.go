package audit

import "time"

// Kind classifies an audit entry. Stored in the event_type column.
type Kind string

// Entry kinds written by the coordinator.
const (
	KindInfo             Kind = "INFO"
	KindAccessLog        Kind = "ACCESS_LOG"
	KindActuatorCmd      Kind = "ACTUATOR_CMD"
	KindActuatorFeedback Kind = "ACTUATOR_FEEDBACK"
)

// TimestampLayout is the format of the timestamp column.
const TimestampLayout = "2006-01-02 15:04:05"

// Entry is one row of system_logs.
type Entry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Topic     string    `json:"topic"`
	Message   string    `json:"message"`
	Kind      Kind      `json:"event_type"`
}

// Filter controls which entries List returns.
type Filter struct {
	Kind  Kind   // optional: exact event_type
	Topic string // optional: exact topic
	Limit int    // default 50, max 200
	// BeforeID pages backwards: only entries with id < BeforeID. Zero means newest.
	BeforeID int64
}

// ListResult is a page of entries, newest first.
type ListResult struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
	Limit   int     `json:"limit"`
}
