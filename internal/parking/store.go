package parking

import (
	"fmt"
	"maps"
)

// Snapshot is a point-in-time view of the lot.
type Snapshot struct {
	Occupied int
	Capacity int
	// Slots maps every id in [1, Capacity] to its occupancy. It is a copy.
	Slots map[int]bool
}

// Full reports whether no slot is free.
func (s Snapshot) Full() bool { return s.Occupied >= s.Capacity }

// Free returns the number of free slots.
func (s Snapshot) Free() int { return s.Capacity - s.Occupied }

// Store holds per-slot occupancy for a fixed set of slots, all free at start.
//
// Thread Safety: none. The engine confines a Store to its Run goroutine.
type Store struct {
	capacity int
	slots    map[int]bool
	occupied int
}

// NewStore creates a store with slots 1..capacity.
func NewStore(capacity int) (*Store, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	slots := make(map[int]bool, capacity)
	for id := 1; id <= capacity; id++ {
		slots[id] = false
	}
	return &Store{capacity: capacity, slots: slots}, nil
}

// Capacity returns N.
func (s *Store) Capacity() int { return s.capacity }

// SetSlot overwrites one slot (last write wins) and recomputes the count.
func (s *Store) SetSlot(id int, occupied bool) error {
	if id < 1 || id > s.capacity {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrSlotOutOfRange, id, s.capacity)
	}

	s.slots[id] = occupied

	count := 0
	for _, v := range s.slots {
		if v {
			count++
		}
	}
	s.occupied = count

	return nil
}

// Occupied returns the current number of occupied slots.
func (s *Store) Occupied() int { return s.occupied }

// Snapshot copies the current state.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Occupied: s.occupied,
		Capacity: s.capacity,
		Slots:    maps.Clone(s.slots),
	}
}
