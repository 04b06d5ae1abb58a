// Package stats keeps running counters of entry decisions in Redis.
//
// Layout (prefix defaults to "parking:access"):
//
//	<prefix>:total                 hash granted|denied, never expires
//	<prefix>:minute:YYYYMMDDhhmm   hash granted|denied, expires after ttl
//
// Recording is best effort. The coordinator logs a failed Record and
// carries on; counters are never read back into decisions.
package stats
