package parking

// Event is one classified inbound message. The concrete types are
// SlotStatus, EntryRequest, GateCommandEcho and GateFeedback.
type Event interface {
	eventKind() string
}

// SlotStatus reports a sensor reading.
type SlotStatus struct {
	SlotID   int
	Occupied bool
}

// EntryRequest is a press of the entrance button. Payload is informational.
type EntryRequest struct {
	Payload string
}

// GateCommandEcho is a gate command seen on the bus, ours or anyone's.
type GateCommandEcho struct {
	Command string
}

// GateFeedback is the state the gate actuator reports.
type GateFeedback struct {
	State string
}

func (SlotStatus) eventKind() string      { return "slot_status" }
func (EntryRequest) eventKind() string    { return "entry_request" }
func (GateCommandEcho) eventKind() string { return "gate_command" }
func (GateFeedback) eventKind() string    { return "gate_feedback" }
