package simulator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/mqtt"
	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/parking"
)

// ButtonPayload is what the entrance button sends.
const ButtonPayload = "REQUEST"

// Gate states as shown by the emulator. Only GateOpen and GateClosed are
// ever published.
const (
	GateClosed  = parking.GateClosed
	GateOpening = "OPENING"
	GateOpen    = parking.GateOpen
)

const (
	defaultGateOpen      = 3 * time.Second
	defaultGateAutoClose = 2 * time.Second
	defaultTrafficEvery  = 3 * time.Second
)

// Bus is the transport the devices talk over. *mqtt.Client satisfies it.
type Bus interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Logger interface for optional logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}

// Options configures a Simulator. Zero durations use the defaults
// (3s open, 2s auto-close, 3s traffic interval).
type Options struct {
	Namespace parking.Namespace
	Slots     int
	QoS       byte
	Bus       Bus

	GateOpenDuration time.Duration
	GateAutoClose    time.Duration
	TrafficInterval  time.Duration

	// Rand drives RunTraffic. Nil seeds from the runtime.
	Rand   *rand.Rand
	Logger Logger
}

// Status is what the emulated devices currently show.
type Status struct {
	Slots   map[int]bool
	Gate    string
	Signage string
	Auto    bool
}

// OccupiedIDs returns the occupied slot ids in ascending order.
func (s Status) OccupiedIDs() []int {
	var ids []int
	for id, occupied := range s.Slots {
		if occupied {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// Simulator is a set of emulated devices sharing one bus connection.
//
// Thread Safety: All methods are safe for concurrent use.
type Simulator struct {
	ns     parking.Namespace
	qos    byte
	bus    Bus
	logger Logger

	openDuration time.Duration
	autoClose    time.Duration
	interval     time.Duration

	mu         sync.Mutex
	slots      map[int]bool
	gate       string
	signage    string
	rng        *rand.Rand
	gateCancel context.CancelFunc
	autoCancel context.CancelFunc

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates the devices with every slot free, the gate closed and the
// signage blank.
func New(opts Options) (*Simulator, error) {
	if opts.Bus == nil {
		return nil, ErrNoBus
	}
	if opts.Slots < 1 {
		return nil, fmt.Errorf("%w: lot needs at least one slot", ErrUnknownSlot)
	}

	s := &Simulator{
		ns:           opts.Namespace,
		qos:          opts.QoS,
		bus:          opts.Bus,
		logger:       opts.Logger,
		openDuration: orDefault(opts.GateOpenDuration, defaultGateOpen),
		autoClose:    orDefault(opts.GateAutoClose, defaultGateAutoClose),
		interval:     orDefault(opts.TrafficInterval, defaultTrafficEvery),
		slots:        make(map[int]bool, opts.Slots),
		gate:         GateClosed,
		rng:          opts.Rand,
	}
	if s.logger == nil {
		s.logger = nopLogger{}
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	for id := 1; id <= opts.Slots; id++ {
		s.slots[id] = false
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	return s, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// OnConnected subscribes the actuators: gate command and signage.
func (s *Simulator) OnConnected() {
	for _, topic := range []string{s.ns.GateCommand(), s.ns.Signage()} {
		if err := s.bus.Subscribe(topic, s.qos, s.HandleMessage); err != nil {
			s.logger.Warn("subscribe failed", "topic", topic, "error", err)
		}
	}
}

// HandleMessage feeds actuator input to the emulated devices.
func (s *Simulator) HandleMessage(topic string, payload []byte) error {
	switch topic {
	case s.ns.GateCommand():
		s.handleGateCommand(string(payload))
	case s.ns.Signage():
		s.mu.Lock()
		s.signage = string(payload)
		s.mu.Unlock()
		s.logger.Debug("signage", "text", string(payload))
	}
	return nil
}

func (s *Simulator) handleGateCommand(cmd string) {
	switch cmd {
	case parking.GateOpen:
		s.mu.Lock()
		if s.gateCancel != nil {
			s.gateCancel()
		}
		ctx, cancel := context.WithCancel(s.ctx)
		s.gateCancel = cancel
		s.gate = GateOpening
		s.wg.Add(1)
		s.mu.Unlock()

		s.logger.Info("gate opening")
		go s.runGate(ctx)

	case parking.GateClose:
		s.mu.Lock()
		if s.gateCancel != nil {
			s.gateCancel()
			s.gateCancel = nil
		}
		s.gate = GateClosed
		s.mu.Unlock()

		s.publish(s.ns.GateFeedback(), GateClosed)

	default:
		s.logger.Warn("unknown gate command", "command", cmd)
	}
}

// runGate plays the mechanical open/auto-close sequence.
func (s *Simulator) runGate(ctx context.Context) {
	defer s.wg.Done()

	if !sleep(ctx, s.openDuration) {
		return
	}
	s.setGate(GateOpen)
	s.publish(s.ns.GateFeedback(), GateOpen)

	if !sleep(ctx, s.autoClose) {
		return
	}
	s.setGate(GateClosed)
	s.publish(s.ns.GateFeedback(), GateClosed)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Simulator) setGate(state string) {
	s.mu.Lock()
	s.gate = state
	s.mu.Unlock()
}

// SetSlot sets a sensor and publishes its reading.
func (s *Simulator) SetSlot(id int, occupied bool) error {
	s.mu.Lock()
	_, ok := s.slots[id]
	if ok {
		s.slots[id] = occupied
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownSlot, id)
	}
	return s.publishSlot(id, occupied)
}

// ToggleSlot flips a sensor and returns its new state.
func (s *Simulator) ToggleSlot(id int) (bool, error) {
	s.mu.Lock()
	current, ok := s.slots[id]
	if ok {
		s.slots[id] = !current
	}
	s.mu.Unlock()

	if !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownSlot, id)
	}
	return !current, s.publishSlot(id, !current)
}

func (s *Simulator) publishSlot(id int, occupied bool) error {
	payload := "0"
	if occupied {
		payload = "1"
	}
	return s.publish(s.ns.SlotStatus(id), payload)
}

// PressButton sends an entry request.
func (s *Simulator) PressButton() error {
	return s.publish(s.ns.EntryButton(), ButtonPayload)
}

// Status copies the current device state.
func (s *Simulator) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := make(map[int]bool, len(s.slots))
	for id, v := range s.slots {
		slots[id] = v
	}
	return Status{
		Slots:   slots,
		Gate:    s.gate,
		Signage: s.signage,
		Auto:    s.autoCancel != nil,
	}
}

func (s *Simulator) publish(topic, payload string) error {
	if err := s.bus.Publish(topic, []byte(payload), s.qos, false); err != nil {
		s.logger.Warn("publish failed", "topic", topic, "error", err)
		return fmt.Errorf("publishing %s: %w", topic, err)
	}
	s.logger.Debug("tx", "topic", topic, "payload", payload)
	return nil
}

// Close stops the gate sequence and auto traffic and waits for them.
func (s *Simulator) Close() {
	s.cancel()
	s.wg.Wait()
}
