package simulator

import (
	"context"
	"time"
)

// Action is one random traffic step.
type Action struct {
	// Slot is the toggled slot, zero for a button press.
	Slot     int
	Occupied bool
}

// Pressed reports whether the step pressed the entrance button.
func (a Action) Pressed() bool { return a.Slot == 0 }

// Step performs one random action: with probability 2/3 a random slot is
// toggled, otherwise the button is pressed.
func (s *Simulator) Step() (Action, error) {
	s.mu.Lock()
	toggle := s.rng.IntN(3) < 2
	slot := s.rng.IntN(len(s.slots)) + 1
	s.mu.Unlock()

	if !toggle {
		s.logger.Info("driver pressed ticket button")
		return Action{}, s.PressButton()
	}

	occupied, err := s.ToggleSlot(slot)
	if occupied {
		s.logger.Info("car arrived", "slot", slot)
	} else {
		s.logger.Info("car left", "slot", slot)
	}
	return Action{Slot: slot, Occupied: occupied}, err
}

// RunTraffic calls Step every traffic interval until ctx is done.
// Step errors are already logged and do not stop the loop.
func (s *Simulator) RunTraffic(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.Step() //nolint:errcheck // logged by publish
		}
	}
}

// StartAuto runs RunTraffic in the background. It is a no-op when already running.
func (s *Simulator) StartAuto() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.autoCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.autoCancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.RunTraffic(ctx)
	}()
	s.logger.Info("auto traffic started", "interval", s.interval.String())
}

// StopAuto stops background traffic started by StartAuto.
func (s *Simulator) StopAuto() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.autoCancel == nil {
		return
	}
	s.autoCancel()
	s.autoCancel = nil
	s.logger.Info("auto traffic stopped")
}
