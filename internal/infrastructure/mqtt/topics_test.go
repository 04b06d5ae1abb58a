package mqtt

import (
	"errors"
	"testing"
)

func TestValidateTopic(t *testing.T) {
	tests := []struct {
		topic   string
		wantErr bool
	}{
		{"lot/Gate/Command", false},
		{"lot", false},
		{"", true},
		{"lot/Slots/+/Status", true},
		{"lot/#", true},
	}

	for _, tt := range tests {
		err := ValidateTopic(tt.topic)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateTopic(%q) error = %v, wantErr %v", tt.topic, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidTopic) {
			t.Errorf("ValidateTopic(%q) error = %v, want ErrInvalidTopic", tt.topic, err)
		}
	}
}

func TestValidateFilter(t *testing.T) {
	tests := []struct {
		filter  string
		wantErr bool
	}{
		{"lot/Slots/+/Status", false},
		{"lot/#", false},
		{"#", false},
		{"+/+", false},
		{"lot/Gate/Command", false},
		{"", true},
		{"lot/#/Status", true},
		{"lot/Slots/1+/Status", true},
		{"lot/Gate#", true},
	}

	for _, tt := range tests {
		err := ValidateFilter(tt.filter)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFilter(%q) error = %v, wantErr %v", tt.filter, err, tt.wantErr)
		}
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		filter string
		topic  string
		want   bool
	}{
		{"lot/Slots/+/Status", "lot/Slots/3/Status", true},
		{"lot/Slots/+/Status", "lot/Slots/3/Other", false},
		{"lot/Slots/+/Status", "lot/Slots/3/Status/x", false},
		{"lot/Slots/+/Status", "lot/Slots/Status", false},
		{"lot/Gate/Command", "lot/Gate/Command", true},
		{"lot/Gate/Command", "lot/Gate/Feedback", false},
		{"lot/#", "lot", true},
		{"lot/#", "lot/Slots/1/Status", true},
		{"#", "anything/at/all", true},
		{"lot/+", "lot/Slots/3", false},
		{"", "lot", false},
		{"lot", "", false},
	}

	for _, tt := range tests {
		if got := Match(tt.filter, tt.topic); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.filter, tt.topic, got, tt.want)
		}
	}
}
