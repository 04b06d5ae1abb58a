// Package simulator emulates the lot's field devices on the bus: one
// occupancy sensor per slot, the entrance button, the gate actuator and
// the signage display.
//
// The gate answers OPEN by reporting OPEN on its feedback topic after the
// configured open duration, then CLOSED after the auto-close delay. CLOSE
// reports CLOSED at once and cancels any running sequence.
//
// RunTraffic drives the devices at random: two steps in three toggle a
// slot, the rest press the button. A seeded *rand.Rand makes it repeatable.
package simulator
