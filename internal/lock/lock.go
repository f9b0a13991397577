package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/doorman-bridge/internal/yale"
)

// TokenSource produces a currently-valid bearer token, re-authenticating
// transparently when stale. Satisfied by *yale.SessionManager.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// VendorClient is the subset of the vendor API this entity polls.
// Satisfied by *yale.Client; mocked in tests.
type VendorClient interface {
	FetchStatus(ctx context.Context, token string) ([]yale.DeviceStatus, error)
	FetchHistory(ctx context.Context, token string) ([]yale.Event, error)
}

// Logger is the minimal logging interface used by this package.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// StateChange describes one observable state change on a lock.
//
// Intermediate changes replay real historical transitions recovered from
// the event feed, in feed order; the final change of a cycle carries the
// authoritative snapshot state.
type StateChange struct {
	DeviceID     string    `json:"device_id"`
	Name         string    `json:"name"`
	State        State     `json:"state"`
	RawState     string    `json:"raw_state"`
	Intermediate bool      `json:"intermediate"`
	Timestamp    time.Time `json:"timestamp"`
}

// Lock is one Yale Doorman lock entity.
//
// Identity (name, device ID) is frozen at discovery. The vendor is
// matched by name string on subsequent status polls, so an upstream
// rename silently drops the device out of matching — a known limitation
// of the vendor feed, deliberately not papered over.
//
// Thread Safety: Update must not run concurrently with itself (the
// poller serialises ticks per device); read accessors are safe to call
// from other goroutines at any time.
type Lock struct {
	name     string
	deviceID string

	tokens TokenSource
	vendor VendorClient
	logger Logger

	mu       sync.RWMutex
	state    State
	rawState string

	// seen holds every report ID already consumed; append-only for the
	// life of the entity, no eviction.
	seen map[int64]struct{}

	onChange func(StateChange)
}

// New creates a lock entity seeded with the raw state from the
// discovery-time status snapshot.
//
// Parameters:
//   - name: Device name as reported by the vendor (frozen)
//   - deviceID: Vendor-assigned device identifier (frozen)
//   - seedRaw: Raw state token from the discovery snapshot
//   - tokens: Session/token source for authenticated calls
//   - vendor: Vendor API client
//
// Returns:
//   - *Lock: Entity ready for polling
func New(name, deviceID, seedRaw string, tokens TokenSource, vendor VendorClient) *Lock {
	return &Lock{
		name:     name,
		deviceID: deviceID,
		tokens:   tokens,
		vendor:   vendor,
		state:    stateForRaw(seedRaw),
		rawState: seedRaw,
		seen:     make(map[int64]struct{}),
	}
}

// SetLogger sets an optional logger for cycle diagnostics.
func (l *Lock) SetLogger(logger Logger) {
	l.logger = logger
}

// SetOnStateChange registers the observer notified of every applied
// state change. Intermediate history transitions are delivered
// individually, in order, before the final snapshot state.
func (l *Lock) SetOnStateChange(fn func(StateChange)) {
	l.onChange = fn
}

// Name returns the device name.
func (l *Lock) Name() string {
	return l.name
}

// DeviceID returns the vendor-assigned device identifier.
func (l *Lock) DeviceID() string {
	return l.deviceID
}

// State returns the current lock state.
func (l *Lock) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// RawState returns the raw vendor status token behind the current state.
func (l *Lock) RawState() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rawState
}

// IsLocked reports whether the lock is currently locked. Unknown or
// unrecognised states count as not locked.
func (l *Lock) IsLocked() bool {
	return l.State() == StateLocked
}

// SeenReportCount returns the number of history events consumed so far.
func (l *Lock) SeenReportCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.seen)
}

// Lock sends a remote lock command.
//
// Returns:
//   - error: Always ErrNotImplemented; the vendor command path is unsupported.
func (l *Lock) Lock(_ context.Context) error {
	return ErrNotImplemented
}

// Unlock sends a remote unlock command.
//
// Returns:
//   - error: Always ErrNotImplemented; the vendor command path is unsupported.
func (l *Lock) Unlock(_ context.Context) error {
	return ErrNotImplemented
}

// Update runs one full update cycle:
//
//  1. Obtain a valid token (re-authenticating if stale) and fetch the
//     event history; apply each new history-derived transition in feed
//     order, notifying the observer per transition.
//  2. Obtain a valid token again and fetch the status snapshot; the
//     snapshot state is authoritative and overrides the history tail.
//
// Transport and logical failures degrade the affected fetch to "no
// update" and the cycle continues; only an authentication failure
// abandons the cycle. Prior state is never corrupted by a failed cycle.
//
// Parameters:
//   - ctx: Context bounding the whole cycle
//
// Returns:
//   - State: Final state after the cycle
//   - error: ErrAuthFailed (wrapped) if no authenticated call could proceed
func (l *Lock) Update(ctx context.Context) (State, error) {
	// History first: replay transitions that happened between polls.
	token, err := l.tokens.Token(ctx)
	if err != nil {
		return l.State(), fmt.Errorf("update cycle for %q: %w", l.name, err)
	}

	events, err := l.vendor.FetchHistory(ctx, token)
	if err != nil {
		if errors.Is(err, yale.ErrAuthFailed) {
			return l.State(), fmt.Errorf("update cycle for %q: %w", l.name, err)
		}
		// Degraded: no history this cycle, carry on with the snapshot.
		l.logWarn("history fetch degraded", "error", err)
		events = nil
	}

	for _, state := range l.reconcile(events) {
		l.applyState(state, rawForState(state), true)
	}

	// Token may have expired mid-cycle; check again before the snapshot.
	token, err = l.tokens.Token(ctx)
	if err != nil {
		return l.State(), fmt.Errorf("update cycle for %q: %w", l.name, err)
	}

	devices, err := l.vendor.FetchStatus(ctx, token)
	if err != nil {
		if errors.Is(err, yale.ErrAuthFailed) {
			return l.State(), fmt.Errorf("update cycle for %q: %w", l.name, err)
		}
		l.logWarn("status fetch degraded, retaining prior state", "error", err)
		return l.State(), nil
	}

	raw, found := l.matchStatus(devices)
	if !found {
		// Snapshot carried no entry for our name: prior state is retained,
		// never reverted to unknown.
		l.logWarn("no status entry matched device name, retaining prior state",
			"name", l.name)
		return l.State(), nil
	}

	// The snapshot is authoritative over whatever the history tail said.
	l.applyState(stateForRaw(raw), raw, false)
	return l.State(), nil
}

// reconcile walks the history feed in received order and returns the
// new state transitions for this cycle.
//
// Per event: non-door-lock device classes are ignored; already-seen
// report IDs produce nothing; fresh IDs are marked seen permanently,
// even when the event turns out to be informational or unrecognised;
// informational codes produce no transition; unrecognised codes are
// logged and skipped without aborting the batch.
func (l *Lock) reconcile(events []yale.Event) []State {
	var states []State

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, event := range events {
		if event.Type != deviceTypeDoorLock {
			continue
		}
		if _, dup := l.seen[event.ReportID]; dup {
			continue
		}
		l.seen[event.ReportID] = struct{}{}

		if isInformational(event.EventType) {
			continue
		}

		state, ok := stateForEventCode(event.EventType)
		if !ok {
			l.logWarn("skipping history event",
				"report_id", event.ReportID,
				"error", fmt.Errorf("%w: %q", ErrUnknownEventCode, event.EventType))
			continue
		}

		l.logInfo("parsed history event",
			"report_id", event.ReportID,
			"event_type", event.EventType,
			"state", state,
			"user", event.User)
		states = append(states, state)
	}

	return states
}

// matchStatus scans the snapshot for the entry whose name matches this
// entity (exact string match) and returns its raw state.
func (l *Lock) matchStatus(devices []yale.DeviceStatus) (raw string, found bool) {
	for _, device := range devices {
		if device.Name == l.name {
			return device.RawState(), true
		}
	}
	return "", false
}

// applyState records a state change and notifies the observer.
// Final (snapshot) states are only notified when something actually
// changed; intermediate transitions are always delivered since they
// represent real historical events.
func (l *Lock) applyState(state State, raw string, intermediate bool) {
	l.mu.Lock()
	changed := l.state != state || l.rawState != raw
	l.state = state
	l.rawState = raw
	l.mu.Unlock()

	if state == StateUnknown && raw != "" {
		l.logInfo("unrecognised raw state", "raw_state", raw)
	}

	if l.onChange == nil || (!intermediate && !changed) {
		return
	}
	l.onChange(StateChange{
		DeviceID:     l.deviceID,
		Name:         l.name,
		State:        state,
		RawState:     raw,
		Intermediate: intermediate,
		Timestamp:    time.Now().UTC(),
	})
}

// rawForState maps a history-derived state back to the vendor's raw
// token, keeping RawState consistent for observers between snapshots.
func rawForState(state State) string {
	switch state {
	case StateLocked:
		return RawStateLocked
	case StateUnlocked:
		return RawStateUnlocked
	default:
		return ""
	}
}

// logInfo logs at info level if a logger is configured.
func (l *Lock) logInfo(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Info(msg, args...)
	}
}

// logWarn logs at warn level if a logger is configured.
func (l *Lock) logWarn(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Warn(msg, args...)
	}
}
