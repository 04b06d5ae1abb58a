package parking

import "fmt"

// Payloads the coordinator publishes.
const (
	SignageFree = "FREE"
	SignageFull = "FULL"

	GateOpen   = "OPEN"
	GateClose  = "CLOSE"
	GateClosed = "CLOSED"
)

// Audit messages for access decisions.
const (
	MsgEntryGranted = "Entry Granted"
	MsgEntryDenied  = "Entry Denied (Full)"
)

// Outbound is one message to publish.
type Outbound struct {
	Topic   string
	Payload string
}

// Broadcast derives the status messages for a snapshot: signage FULL plus
// an alert carrying the count when the lot is full, signage FREE otherwise.
// It is called after every slot update, changed boundary or not.
func Broadcast(ns Namespace, s Snapshot) []Outbound {
	if s.Full() {
		return []Outbound{
			{Topic: ns.Signage(), Payload: SignageFull},
			{Topic: ns.Alerts(), Payload: fmt.Sprintf("Parking Full! (%d/%d)", s.Occupied, s.Capacity)},
		}
	}
	return []Outbound{{Topic: ns.Signage(), Payload: SignageFree}}
}

// DecisionMessages derives what a decision publishes: the gate command when
// granted, a denial alert when not.
func DecisionMessages(ns Namespace, d Decision) []Outbound {
	if d.Granted() {
		return []Outbound{{Topic: ns.GateCommand(), Payload: GateOpen}}
	}
	return []Outbound{{
		Topic:   ns.Alerts(),
		Payload: fmt.Sprintf("Entry Denied: Parking Full (%d/%d)", d.Occupied, d.Capacity),
	}}
}
