package mqtt

import "testing"

func TestTopics(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"LockState", topics.LockState("lock-front-door"), "doorman/state/lock/lock-front-door"},
		{"LockEvent", topics.LockEvent("lock-front-door"), "doorman/event/lock/lock-front-door"},
		{"SystemStatus", topics.SystemStatus(), "doorman/system/status"},
		{"AllLockStates", topics.AllLockStates(), "doorman/state/lock/+"},
		{"AllLockEvents", topics.AllLockEvents(), "doorman/event/lock/+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
