package parking

import (
	"errors"
	"testing"
)

const testRoot = "SmartCity/Parking/test-lot"

func testNamespace(t *testing.T) Namespace {
	t.Helper()
	ns, err := NewNamespace(testRoot)
	if err != nil {
		t.Fatalf("NewNamespace() error = %v", err)
	}
	return ns
}

func TestNewNamespace(t *testing.T) {
	tests := []struct {
		name     string
		root     string
		wantRoot string
		wantErr  bool
	}{
		{name: "plain root", root: "SmartCity/Parking/lot", wantRoot: "SmartCity/Parking/lot"},
		{name: "trailing separator trimmed", root: "SmartCity/Parking/lot/", wantRoot: "SmartCity/Parking/lot"},
		{name: "surrounding space trimmed", root: "  lot  ", wantRoot: "lot"},
		{name: "empty", root: "", wantErr: true},
		{name: "only separators", root: "//", wantErr: true},
		{name: "single-level wildcard", root: "SmartCity/+/lot", wantErr: true},
		{name: "multi-level wildcard", root: "SmartCity/#", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns, err := NewNamespace(tt.root)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidNamespace) {
					t.Errorf("NewNamespace(%q) error = %v, want ErrInvalidNamespace", tt.root, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewNamespace(%q) error = %v", tt.root, err)
			}
			if ns.Root() != tt.wantRoot {
				t.Errorf("Root() = %q, want %q", ns.Root(), tt.wantRoot)
			}
		})
	}
}

func TestNamespace_Topics(t *testing.T) {
	ns := testNamespace(t)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"slot filter", ns.SlotStatusFilter(), testRoot + "/Slots/+/Status"},
		{"slot status", ns.SlotStatus(3), testRoot + "/Slots/3/Status"},
		{"slot prefix", ns.SlotPrefix(), testRoot + "/Slots/"},
		{"entry button", ns.EntryButton(), testRoot + "/Entrance/Button"},
		{"gate command", ns.GateCommand(), testRoot + "/Gate/Command"},
		{"gate feedback", ns.GateFeedback(), testRoot + "/Gate/Feedback"},
		{"signage", ns.Signage(), testRoot + "/Signage/Text"},
		{"alerts", ns.Alerts(), testRoot + "/System/Alerts"},
		{"system status", ns.SystemStatus(), testRoot + "/System/Status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestNamespace_Subscriptions(t *testing.T) {
	ns := testNamespace(t)

	want := []string{
		testRoot + "/Slots/+/Status",
		testRoot + "/Entrance/Button",
		testRoot + "/Gate/Command",
		testRoot + "/Gate/Feedback",
	}

	got := ns.Subscriptions()
	if len(got) != len(want) {
		t.Fatalf("Subscriptions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Subscriptions()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNamespace_ParseSlotID(t *testing.T) {
	ns := testNamespace(t)

	tests := []struct {
		name    string
		topic   string
		want    int
		wantErr bool
	}{
		{name: "valid", topic: testRoot + "/Slots/2/Status", want: 2},
		{name: "large id", topic: testRoot + "/Slots/120/Status", want: 120},
		{name: "zero parses, range is checked later", topic: testRoot + "/Slots/0/Status", want: 0},
		{name: "non-numeric id", topic: testRoot + "/Slots/abc/Status", wantErr: true},
		{name: "empty id", topic: testRoot + "/Slots//Status", wantErr: true},
		{name: "wrong suffix", topic: testRoot + "/Slots/2/Battery", wantErr: true},
		{name: "missing suffix", topic: testRoot + "/Slots/2", wantErr: true},
		{name: "extra segment", topic: testRoot + "/Slots/2/Status/raw", wantErr: true},
		{name: "nested id", topic: testRoot + "/Slots/a/2/Status", wantErr: true},
		{name: "other root", topic: "Other/Slots/2/Status", wantErr: true},
		{name: "bare prefix", topic: testRoot + "/Slots/", wantErr: true},
		{name: "wildcard id", topic: testRoot + "/Slots/+/Status", wantErr: true},
		{name: "signed id", topic: testRoot + "/Slots/+3/Status", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ns.ParseSlotID(tt.topic)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedTopic) {
					t.Errorf("ParseSlotID(%q) error = %v, want ErrMalformedTopic", tt.topic, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSlotID(%q) error = %v", tt.topic, err)
			}
			if got != tt.want {
				t.Errorf("ParseSlotID(%q) = %d, want %d", tt.topic, got, tt.want)
			}
		})
	}
}
