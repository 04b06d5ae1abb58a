package parking

import (
	"github.com/google/uuid"
)

// Outcome of an entry request.
type Outcome int

const (
	Denied Outcome = iota
	Granted
)

func (o Outcome) String() string {
	if o == Granted {
		return "GRANTED"
	}
	return "DENIED"
}

// Decision is the result of one entry request together with the
// occupancy it was decided against.
type Decision struct {
	ID       uuid.UUID
	Outcome  Outcome
	Occupied int
	Capacity int
}

// Granted reports whether the gate should open.
func (d Decision) Granted() bool { return d.Outcome == Granted }

// Decide grants entry iff at least one slot is free. There is no
// reservation: a granted car only counts once its slot sensor reports.
func Decide(s Snapshot) Decision {
	outcome := Denied
	if s.Occupied < s.Capacity {
		outcome = Granted
	}
	return Decision{
		ID:       uuid.New(),
		Outcome:  outcome,
		Occupied: s.Occupied,
		Capacity: s.Capacity,
	}
}
