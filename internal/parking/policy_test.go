package parking

import (
	"testing"

	"github.com/google/uuid"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		occupied int
		capacity int
		want     Outcome
	}{
		{"empty lot", 0, 4, Granted},
		{"one slot left", 3, 4, Granted},
		{"exactly full", 4, 4, Denied},
		{"single-slot lot free", 0, 1, Granted},
		{"single-slot lot full", 1, 1, Denied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(Snapshot{Occupied: tt.occupied, Capacity: tt.capacity})
			if d.Outcome != tt.want {
				t.Errorf("Decide(%d/%d) = %v, want %v", tt.occupied, tt.capacity, d.Outcome, tt.want)
			}
			if d.Granted() != (tt.want == Granted) {
				t.Errorf("Granted() = %v", d.Granted())
			}
			if d.Occupied != tt.occupied || d.Capacity != tt.capacity {
				t.Errorf("decision snapshot = %d/%d, want %d/%d", d.Occupied, d.Capacity, tt.occupied, tt.capacity)
			}
			if d.ID == uuid.Nil {
				t.Error("decision has no ID")
			}
		})
	}
}

func TestDecide_UniqueIDs(t *testing.T) {
	s := Snapshot{Capacity: 4}
	if Decide(s).ID == Decide(s).ID {
		t.Error("two decisions share an ID")
	}
}

func TestOutcome_String(t *testing.T) {
	if Granted.String() != "GRANTED" || Denied.String() != "DENIED" {
		t.Errorf("String() = %q, %q", Granted.String(), Denied.String())
	}
}

func TestBroadcast(t *testing.T) {
	ns := testNamespace(t)

	free := Broadcast(ns, Snapshot{Occupied: 3, Capacity: 4})
	if len(free) != 1 || free[0] != (Outbound{Topic: ns.Signage(), Payload: SignageFree}) {
		t.Errorf("Broadcast(3/4) = %+v, want single FREE", free)
	}

	full := Broadcast(ns, Snapshot{Occupied: 4, Capacity: 4})
	want := []Outbound{
		{Topic: ns.Signage(), Payload: SignageFull},
		{Topic: ns.Alerts(), Payload: "Parking Full! (4/4)"},
	}
	if len(full) != len(want) {
		t.Fatalf("Broadcast(4/4) = %+v, want %+v", full, want)
	}
	for i := range want {
		if full[i] != want[i] {
			t.Errorf("Broadcast(4/4)[%d] = %+v, want %+v", i, full[i], want[i])
		}
	}
}

func TestDecisionMessages(t *testing.T) {
	ns := testNamespace(t)

	granted := DecisionMessages(ns, Decision{Outcome: Granted, Occupied: 3, Capacity: 4})
	if len(granted) != 1 || granted[0] != (Outbound{Topic: ns.GateCommand(), Payload: GateOpen}) {
		t.Errorf("granted messages = %+v, want gate OPEN", granted)
	}

	denied := DecisionMessages(ns, Decision{Outcome: Denied, Occupied: 4, Capacity: 4})
	if len(denied) != 1 || denied[0].Topic != ns.Alerts() {
		t.Fatalf("denied messages = %+v, want one alert", denied)
	}
	if denied[0].Payload != "Entry Denied: Parking Full (4/4)" {
		t.Errorf("denied alert = %q", denied[0].Payload)
	}
}
