package parking

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/mqtt"
)

// Topic path segments under the namespace root.
const (
	segSlots    = "Slots"
	segStatus   = "Status"
	segEntrance = "Entrance"
	segButton   = "Button"
	segGate     = "Gate"
	segCommand  = "Command"
	segFeedback = "Feedback"
	segSignage  = "Signage"
	segText     = "Text"
	segSystem   = "System"
	segAlerts   = "Alerts"

	separator = "/"
)

// Namespace is the immutable set of topics one deployment owns.
//
// Grammar:
//
//	topic      := root "/" path
//	slotStatus := root "/Slots/" id "/Status"     id is one base-10 segment
//
// Build it once with NewNamespace and pass it by value.
type Namespace struct {
	root string
}

// NewNamespace validates root and returns its namespace.
// A trailing separator is ignored.
func NewNamespace(root string) (Namespace, error) {
	root = strings.TrimRight(strings.TrimSpace(root), separator)
	if root == "" {
		return Namespace{}, fmt.Errorf("%w: empty root", ErrInvalidNamespace)
	}
	if strings.ContainsAny(root, "+#") {
		return Namespace{}, fmt.Errorf("%w: wildcard in root %q", ErrInvalidNamespace, root)
	}
	return Namespace{root: root}, nil
}

// Root returns the namespace root without a trailing separator.
func (n Namespace) Root() string { return n.root }

func (n Namespace) join(segments ...string) string {
	return n.root + separator + strings.Join(segments, separator)
}

// SlotStatusFilter is the wildcard filter matching every slot sensor.
func (n Namespace) SlotStatusFilter() string { return n.join(segSlots, "+", segStatus) }

// SlotStatus is the topic slot id publishes on.
func (n Namespace) SlotStatus(id int) string {
	return n.join(segSlots, strconv.Itoa(id), segStatus)
}

// SlotPrefix is the prefix shared by every slot topic, with trailing separator.
func (n Namespace) SlotPrefix() string { return n.root + separator + segSlots + separator }

func (n Namespace) EntryButton() string  { return n.join(segEntrance, segButton) }
func (n Namespace) GateCommand() string  { return n.join(segGate, segCommand) }
func (n Namespace) GateFeedback() string { return n.join(segGate, segFeedback) }
func (n Namespace) Signage() string      { return n.join(segSignage, segText) }
func (n Namespace) Alerts() string       { return n.join(segSystem, segAlerts) }

// SystemStatus carries the coordinator's retained online/offline document.
func (n Namespace) SystemStatus() string { return n.join(segSystem, segStatus) }

// Subscriptions returns the filters the engine listens on.
func (n Namespace) Subscriptions() []string {
	return []string{
		n.SlotStatusFilter(),
		n.EntryButton(),
		n.GateCommand(),
		n.GateFeedback(),
	}
}

// ParseSlotID extracts the id from <root>/Slots/{id}/Status.
// It does not check the id against the lot capacity.
func (n Namespace) ParseSlotID(topic string) (int, error) {
	rest, ok := strings.CutPrefix(topic, n.SlotPrefix())
	if !ok {
		return 0, fmt.Errorf("%w: %q outside %s", ErrMalformedTopic, topic, n.SlotPrefix())
	}

	if !mqtt.Match(n.SlotStatusFilter(), topic) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTopic, topic)
	}

	segment := strings.TrimSuffix(rest, separator+segStatus)
	id, err := strconv.Atoi(segment)
	if err != nil {
		return 0, fmt.Errorf("%w: slot id %q", ErrMalformedTopic, segment)
	}
	return id, nil
}
