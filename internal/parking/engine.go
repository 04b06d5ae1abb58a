package parking

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/audit"
	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/mqtt"
)

const (
	defaultInboxSize = 256

	// statsTimeout bounds one counter update.
	statsTimeout = 2 * time.Second

	// Malformed telemetry warnings: burst of warnBurst, then one per warnEvery.
	warnEvery = time.Second
	warnBurst = 5
)

// Bus is the transport the engine publishes and subscribes on.
// *mqtt.Client satisfies it.
type Bus interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Auditor records significant events. *audit.Sink satisfies it.
// Record must not block.
type Auditor interface {
	Record(topic, message string, kind audit.Kind) error
}

// Telemetry receives occupancy and decision samples. *influxdb.Client
// satisfies it.
type Telemetry interface {
	WriteOccupancy(occupied, capacity int)
	WriteSlotState(slot int, occupied bool)
	WriteAccessDecision(granted bool, occupied, capacity int)
}

// Stats counts access decisions. *stats.RedisStore satisfies it.
type Stats interface {
	RecordDecision(ctx context.Context, granted bool, at time.Time) error
}

// Logger interface for optional logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Options configures an Engine. Namespace, Capacity and Bus are required.
type Options struct {
	Namespace Namespace
	Capacity  int
	QoS       byte

	// InboxSize bounds messages waiting for Run. Zero uses a default.
	InboxSize int

	Bus       Bus
	Audit     Auditor   // optional
	Telemetry Telemetry // optional
	Stats     Stats     // optional
	Logger    Logger    // optional
}

// message is either an inbound bus message or, when reply is set, a
// snapshot request. Both share the inbox so a snapshot reflects every
// message queued before it.
type message struct {
	topic   string
	payload []byte
	reply   chan Snapshot
}

// Engine coordinates one lot.
//
// HandleMessage may be called from any goroutine. Everything else that
// touches occupancy runs on the Run goroutine, one message at a time, in
// delivery order.
type Engine struct {
	ns    Namespace
	qos   byte
	store *Store

	bus       Bus
	auditor   Auditor
	telemetry Telemetry
	stats     Stats
	logger    Logger

	inbox   chan message
	stopped chan struct{}
	running atomic.Bool

	// Background counter updates, waited on when Run returns.
	wg sync.WaitGroup

	warnLimiter *rate.Limiter
	suppressed  atomic.Uint64

	now func() time.Time
}

// New builds an engine with every slot free.
func New(opts Options) (*Engine, error) {
	if opts.Namespace.Root() == "" {
		return nil, ErrInvalidNamespace
	}
	if opts.Bus == nil {
		return nil, ErrNoBus
	}

	store, err := NewStore(opts.Capacity)
	if err != nil {
		return nil, err
	}

	inboxSize := opts.InboxSize
	if inboxSize <= 0 {
		inboxSize = defaultInboxSize
	}

	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	return &Engine{
		ns:          opts.Namespace,
		qos:         opts.QoS,
		store:       store,
		bus:         opts.Bus,
		auditor:     opts.Audit,
		telemetry:   opts.Telemetry,
		stats:       opts.Stats,
		logger:      logger,
		inbox:       make(chan message, inboxSize),
		stopped:     make(chan struct{}),
		warnLimiter: rate.NewLimiter(rate.Every(warnEvery), warnBurst),
		now:         time.Now,
	}, nil
}

// Namespace returns the topics the engine owns.
func (e *Engine) Namespace() Namespace { return e.ns }

// OnConnected subscribes every namespace filter. Register it as the
// transport's on-connect hook. Failures are logged and skipped.
func (e *Engine) OnConnected() {
	for _, filter := range e.ns.Subscriptions() {
		if err := e.bus.Subscribe(filter, e.qos, e.HandleMessage); err != nil {
			e.logger.Warn("subscribe failed", "topic", filter, "error", err)
			continue
		}
		e.logger.Debug("subscribed", "topic", filter)
	}
}

// HandleMessage queues a message for Run. It blocks while the inbox is
// full and returns ErrStopped once Run has returned.
func (e *Engine) HandleMessage(topic string, payload []byte) error {
	msg := message{topic: topic, payload: append([]byte(nil), payload...)}

	select {
	case <-e.stopped:
		return ErrStopped
	default:
	}

	select {
	case e.inbox <- msg:
		return nil
	case <-e.stopped:
		return ErrStopped
	}
}

// Run processes queued messages until ctx is done. Messages still queued
// at that point are dropped.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(e.stopped)

	e.logger.Info("engine started",
		"root", e.ns.Root(),
		"capacity", e.store.Capacity(),
	)

	for {
		select {
		case <-ctx.Done():
			e.wg.Wait()
			e.logger.Info("engine stopped",
				"pending", len(e.inbox),
				"occupied", e.store.Occupied(),
			)
			return nil

		case msg := <-e.inbox:
			if msg.reply != nil {
				msg.reply <- e.store.Snapshot()
				continue
			}
			_ = e.Process(msg.topic, msg.payload) //nolint:errcheck // reported inside Process
		}
	}
}

// Snapshot asks the Run goroutine for the current occupancy. The answer
// includes every message HandleMessage accepted before the call.
func (e *Engine) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)

	select {
	case <-e.stopped:
		return Snapshot{}, ErrStopped
	default:
	}

	select {
	case e.inbox <- message{reply: reply}:
	case <-e.stopped:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	select {
	case s := <-reply:
		return s, nil
	case <-e.stopped:
		select {
		case s := <-reply:
			return s, nil
		default:
			return Snapshot{}, ErrStopped
		}
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Process runs one message through router, store, policy and emitters.
//
// It is not safe for concurrent use; Run is its only caller outside tests.
// The returned error is informational: discarded telemetry has already been
// reported and no failure leaves the store inconsistent.
func (e *Engine) Process(topic string, payload []byte) error {
	event, err := Route(e.ns, topic, payload)
	if err != nil {
		e.reportDiscarded(topic, payload, err)
		return err
	}

	switch ev := event.(type) {
	case SlotStatus:
		return e.applySlot(topic, ev)
	case EntryRequest:
		e.handleEntry(ev)
	case GateCommandEcho:
		e.record(topic, "Command: "+ev.Command, audit.KindActuatorCmd)
	case GateFeedback:
		e.record(topic, "Gate: "+ev.State, audit.KindActuatorFeedback)
	case nil:
		e.logger.Debug("message ignored", "topic", topic)
	}

	return nil
}

func (e *Engine) applySlot(topic string, ev SlotStatus) error {
	if err := e.store.SetSlot(ev.SlotID, ev.Occupied); err != nil {
		e.reportDiscarded(topic, nil, err)
		return err
	}

	snap := e.store.Snapshot()
	e.logger.Debug("occupancy updated",
		"slot", ev.SlotID,
		"occupied", ev.Occupied,
		"count", snap.Occupied,
		"capacity", snap.Capacity,
	)

	if e.telemetry != nil {
		e.telemetry.WriteSlotState(ev.SlotID, ev.Occupied)
		e.telemetry.WriteOccupancy(snap.Occupied, snap.Capacity)
	}

	e.emit(Broadcast(e.ns, snap))
	return nil
}

func (e *Engine) handleEntry(ev EntryRequest) {
	decision := Decide(e.store.Snapshot())

	e.logger.Info("entry request",
		"decision_id", decision.ID.String(),
		"outcome", decision.Outcome.String(),
		"occupied", decision.Occupied,
		"capacity", decision.Capacity,
		"payload", ev.Payload,
	)

	e.emit(DecisionMessages(e.ns, decision))

	msg := MsgEntryDenied
	if decision.Granted() {
		msg = MsgEntryGranted
	}
	e.record(e.ns.EntryButton(), msg, audit.KindAccessLog)

	if e.telemetry != nil {
		e.telemetry.WriteAccessDecision(decision.Granted(), decision.Occupied, decision.Capacity)
	}
	e.countDecision(decision)
}

// countDecision updates the counters off the processing path.
func (e *Engine) countDecision(d Decision) {
	if e.stats == nil {
		return
	}

	at := e.now()
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
		defer cancel()

		if err := e.stats.RecordDecision(ctx, d.Granted(), at); err != nil {
			e.logger.Warn("decision counter update failed",
				"decision_id", d.ID.String(),
				"error", err,
			)
		}
	}()
}

// emit publishes best-effort. A failed publish is logged and the state
// that produced it stands.
func (e *Engine) emit(out []Outbound) {
	for _, m := range out {
		if err := e.bus.Publish(m.Topic, []byte(m.Payload), e.qos, false); err != nil {
			if errors.Is(err, mqtt.ErrNotConnected) {
				e.logger.Warn("transport unavailable, message dropped", "topic", m.Topic, "payload", m.Payload)
				continue
			}
			e.logger.Warn("publish failed", "topic", m.Topic, "error", err)
			continue
		}

		if m.Topic == e.ns.GateCommand() || m.Topic == e.ns.Alerts() {
			e.logger.Info("tx", "topic", m.Topic, "payload", m.Payload)
		} else {
			e.logger.Debug("tx", "topic", m.Topic, "payload", m.Payload)
		}
	}
}

func (e *Engine) record(topic, message string, kind audit.Kind) {
	if e.auditor == nil {
		return
	}
	if err := e.auditor.Record(topic, message, kind); err != nil {
		e.logger.Debug("audit entry dropped", "topic", topic, "event_type", string(kind), "error", err)
	}
}

// reportDiscarded warns about dropped telemetry, rate limited so a
// misbehaving sensor cannot flood the log.
func (e *Engine) reportDiscarded(topic string, payload []byte, err error) {
	if !e.warnLimiter.Allow() {
		e.suppressed.Add(1)
		return
	}

	args := []any{"topic", topic, "error", err}
	if payload != nil {
		args = append(args, "payload", string(payload))
	}
	if n := e.suppressed.Swap(0); n > 0 {
		args = append(args, "suppressed", n)
	}
	e.logger.Warn("slot telemetry discarded", args...)
}
