package lock

// Raw state tokens as the vendor reports them in status snapshots.
const (
	RawStateLocked   = "device_status.lock"
	RawStateUnlocked = "device_status.unlock"
)

// deviceTypeDoorLock is the event device class this entity consumes;
// events for other device classes are ignored entirely.
const deviceTypeDoorLock = "device_type.door_lock"

// State is the externally-visible lock state.
type State string

// State constants.
const (
	// StateUnknown covers both "no successful status read yet" and raw
	// vendor status strings that map to neither locked nor unlocked.
	StateUnknown State = "unknown"

	StateLocked   State = "locked"
	StateUnlocked State = "unlocked"
)

// eventStates maps vendor event-type codes to lock states.
// Static and read-only.
var eventStates = map[string]State{
	"1816": StateLocked,   // locked after a failed lock attempt
	"1815": StateUnlocked, // failed to lock
	"1807": StateLocked,   // auto-relocked
	"1801": StateUnlocked, // unlocked from inside
	"1802": StateUnlocked, // unlocked from outside, token or keypad
}

// informationalEvents marks event codes that are recognised and consumed
// (their report IDs are marked seen) but produce no state transition.
var informationalEvents = map[string]struct{}{
	"1602": {}, // periodic self-test
}

// stateForEventCode looks up the state transition for a vendor event
// code. ok is false when the code is absent from the mapping table.
func stateForEventCode(code string) (state State, ok bool) {
	state, ok = eventStates[code]
	return state, ok
}

// isInformational reports whether the code is a recognised
// informational-only event.
func isInformational(code string) bool {
	_, ok := informationalEvents[code]
	return ok
}

// stateForRaw maps a raw vendor status token to a State. Tokens that are
// neither the lock nor the unlock marker map to StateUnknown; the raw
// token itself is retained on the entity for diagnostics.
func stateForRaw(raw string) State {
	switch raw {
	case RawStateLocked:
		return StateLocked
	case RawStateUnlocked:
		return StateUnlocked
	default:
		return StateUnknown
	}
}
