package mqtt

import (
	"fmt"
	"strings"
)

// Topic wildcards.
const (
	WildcardSingle = "+"
	WildcardMulti  = "#"
)

// ValidateTopic checks a concrete publish topic: non-empty and free of
// wildcard characters.
func ValidateTopic(topic string) error {
	if topic == "" {
		return fmt.Errorf("%w: topic cannot be empty", ErrInvalidTopic)
	}
	if strings.ContainsAny(topic, WildcardSingle+WildcardMulti) {
		return fmt.Errorf("%w: wildcard in publish topic %q", ErrInvalidTopic, topic)
	}
	return nil
}

// ValidateFilter checks a subscription filter. A wildcard must fill a
// whole level and # may only appear as the last level.
func ValidateFilter(filter string) error {
	if filter == "" {
		return fmt.Errorf("%w: topic cannot be empty", ErrInvalidTopic)
	}

	levels := strings.Split(filter, "/")
	for i, level := range levels {
		switch {
		case level == WildcardMulti:
			if i != len(levels)-1 {
				return fmt.Errorf("%w: %q must be the last level in %q", ErrInvalidTopic, WildcardMulti, filter)
			}
		case level == WildcardSingle:
		case strings.ContainsAny(level, WildcardSingle+WildcardMulti):
			return fmt.Errorf("%w: wildcard must occupy a whole level in %q", ErrInvalidTopic, filter)
		}
	}
	return nil
}

// Match reports whether topic matches filter using MQTT 3.1.1 rules.
//
// Examples:
//
//	Match("lot/Slots/+/Status", "lot/Slots/3/Status") // true
//	Match("lot/#", "lot")                              // true
//	Match("lot/+", "lot/Slots/3")                      // false
func Match(filter, topic string) bool {
	if filter == "" || topic == "" {
		return false
	}

	f := strings.Split(filter, "/")
	t := strings.Split(topic, "/")

	for i, level := range f {
		if level == WildcardMulti {
			return true
		}
		if i >= len(t) {
			return false
		}
		if level != WildcardSingle && level != t[i] {
			return false
		}
	}

	return len(f) == len(t)
}
