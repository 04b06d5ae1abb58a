package parking

import (
	"fmt"
	"strconv"
	"strings"
)

// Route classifies an inbound message.
//
// Rules are applied in order: slot-status prefix, entry button, gate
// command, gate feedback. Anything else yields a nil Event and nil error.
// A slot-status message whose id or payload cannot be parsed returns
// ErrMalformedTopic or ErrMalformedPayload.
func Route(ns Namespace, topic string, payload []byte) (Event, error) {
	switch {
	case strings.HasPrefix(topic, ns.SlotPrefix()):
		id, err := ns.ParseSlotID(topic)
		if err != nil {
			return nil, err
		}
		occupied, err := parseOccupancy(payload)
		if err != nil {
			return nil, err
		}
		return SlotStatus{SlotID: id, Occupied: occupied}, nil

	case topic == ns.EntryButton():
		return EntryRequest{Payload: string(payload)}, nil

	case topic == ns.GateCommand():
		return GateCommandEcho{Command: string(payload)}, nil

	case topic == ns.GateFeedback():
		return GateFeedback{State: string(payload)}, nil
	}

	return nil, nil
}

func parseOccupancy(payload []byte) (bool, error) {
	v, err := strconv.Atoi(strings.TrimSpace(string(payload)))
	if err != nil || (v != 0 && v != 1) {
		return false, fmt.Errorf("%w: %q", ErrMalformedPayload, payload)
	}
	return v == 1, nil
}
