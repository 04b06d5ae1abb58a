// Package audit stores the parking audit trail in the system_logs table.
//
// SQLiteRepository appends and lists entries. Sink sits in front of it on
// the coordinator's hot path: Record only enqueues, and a single writer
// goroutine performs the inserts, so a slow or broken database never
// delays an access decision.
package audit
