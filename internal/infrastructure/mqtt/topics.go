package mqtt

import "fmt"

// Topic prefixes for the Doorman bridge.
//
// The flat scheme is doorman/{category}/lock/{device_id} for per-lock
// topics, plus doorman/system/* for bridge-level topics.
const (
	// TopicPrefix is the base for all bridge topics.
	TopicPrefix = "doorman"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "doorman/system"
)

// Topics provides builders for Doorman MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	stateTopic := topics.LockState("lock-front-door")
//	// Returns: "doorman/state/lock/lock-front-door"
type Topics struct{}

// LockState returns the topic carrying a lock's authoritative state.
// Published retained, so new subscribers see current state immediately.
//
// Example: doorman/state/lock/lock-front-door
func (Topics) LockState(deviceID string) string {
	return fmt.Sprintf("%s/state/lock/%s", TopicPrefix, deviceID)
}

// LockEvent returns the topic carrying a lock's history-derived
// transitions. Not retained: each message is one real event.
//
// Example: doorman/event/lock/lock-front-door
func (Topics) LockEvent(deviceID string) string {
	return fmt.Sprintf("%s/event/lock/%s", TopicPrefix, deviceID)
}

// SystemStatus returns the bridge status topic, used for the online
// payload and the LWT offline payload.
//
// Example: doorman/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllLockStates returns a pattern matching every lock state topic.
//
// Pattern: doorman/state/lock/+
func (Topics) AllLockStates() string {
	return fmt.Sprintf("%s/state/lock/+", TopicPrefix)
}

// AllLockEvents returns a pattern matching every lock event topic.
//
// Pattern: doorman/event/lock/+
func (Topics) AllLockEvents() string {
	return fmt.Sprintf("%s/event/lock/+", TopicPrefix)
}
