// Package parking is the coordination engine for one parking lot.
//
// It owns the authoritative slot occupancy, decides whether an entry
// request is granted, and emits the resulting gate commands, signage and
// alerts back onto the bus.
//
// # Message Flow
//
//	mqtt callback ──► Engine.HandleMessage ──► inbox ──► Engine.Run
//	                                                       │
//	                          Route ◄──────────────────────┘
//	                            │
//	      ┌─────────────────────┼──────────────────────┐
//	      ▼                     ▼                      ▼
//	  SlotStatus           EntryRequest         GateCommandEcho /
//	  Store.SetSlot        Decide(snapshot)     GateFeedback
//	  Broadcast            gate OPEN or alert   audit only
//
// Every inbound message gets one synchronous pass on the Run goroutine.
// The Store is only ever touched there, so it carries no lock.
//
// # Topic Namespace
//
// All topics hang off a deployment-unique root:
//
//	<root>/Slots/{id}/Status   "0" free, "1" occupied
//	<root>/Entrance/Button     any payload
//	<root>/Gate/Command        "OPEN" / "CLOSE"
//	<root>/Gate/Feedback       "OPEN" / "CLOSED"
//	<root>/Signage/Text        "FREE" / "FULL"
//	<root>/System/Alerts       free text
//	<root>/System/Status       retained online/offline (LWT)
//
// # Failure Handling
//
// Malformed or out-of-range telemetry is discarded and reported. Publish
// failures are logged and never roll back state. Audit, telemetry and
// counter failures are isolated from the decision path.
package parking
