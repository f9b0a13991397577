package lock

import "testing"

func TestStateForEventCode(t *testing.T) {
	tests := []struct {
		code   string
		want   State
		wantOK bool
	}{
		{"1816", StateLocked, true},
		{"1815", StateUnlocked, true},
		{"1807", StateLocked, true},
		{"1801", StateUnlocked, true},
		{"1802", StateUnlocked, true},
		{"1602", "", false}, // informational, not a transition
		{"9999", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := stateForEventCode(tt.code)
			if ok != tt.wantOK {
				t.Fatalf("stateForEventCode(%q) ok = %v, want %v", tt.code, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("stateForEventCode(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestIsInformational(t *testing.T) {
	if !isInformational("1602") {
		t.Error("isInformational(1602) = false, want true")
	}
	if isInformational("1807") {
		t.Error("isInformational(1807) = true, want false")
	}
}

func TestStateForRaw(t *testing.T) {
	tests := []struct {
		raw  string
		want State
	}{
		{RawStateLocked, StateLocked},
		{RawStateUnlocked, StateUnlocked},
		{"device_status.jammed", StateUnknown},
		{"", StateUnknown},
	}

	for _, tt := range tests {
		if got := stateForRaw(tt.raw); got != tt.want {
			t.Errorf("stateForRaw(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
