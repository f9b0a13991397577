package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/doorman-bridge/internal/infrastructure/logging"
	"github.com/nerrad567/doorman-bridge/internal/infrastructure/mqtt"
	"github.com/nerrad567/doorman-bridge/internal/lock"
)

// defaultCycleTimeout bounds one device's update cycle so a hung vendor
// request cannot stall the whole loop.
const defaultCycleTimeout = 30 * time.Second

// Publisher is the subset of the MQTT client the poller publishes with.
// Satisfied by *mqtt.Client; mocked in tests.
type Publisher interface {
	PublishRetained(topic string, payload []byte) error
	PublishEvent(topic string, payload []byte) error
}

// Recorder is the optional time-series sink for lock history.
// Satisfied by *influxdb.Client.
type Recorder interface {
	WriteLockState(deviceID, name, state, rawState string, intermediate bool)
	WritePollCycle(deviceID string, duration time.Duration, success bool)
}

// Discover fetches the status snapshot and creates one lock entity per
// device entry, seeded with the device's current raw state.
//
// Parameters:
//   - ctx: Context bounding the discovery calls
//   - tokens: Session/token source shared by all entities
//   - vendor: Vendor API client shared by all entities
//   - logger: Logger attached to each entity
//
// Returns:
//   - []*lock.Lock: One entity per discovered device
//   - error: If the token or snapshot could not be obtained
func Discover(ctx context.Context, tokens lock.TokenSource, vendor lock.VendorClient, logger *logging.Logger) ([]*lock.Lock, error) {
	token, err := tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("discovering locks: %w", err)
	}

	devices, err := vendor.FetchStatus(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("discovering locks: %w", err)
	}

	locks := make([]*lock.Lock, 0, len(devices))
	for _, device := range devices {
		l := lock.New(device.Name, device.DeviceID, device.RawState(), tokens, vendor)
		l.SetLogger(logger.With("device_id", device.DeviceID, "name", device.Name))
		logger.Info("discovered lock",
			"device_id", device.DeviceID,
			"name", device.Name,
			"state", l.State(),
		)
		locks = append(locks, l)
	}

	return locks, nil
}

// Deps holds the dependencies required by the poller.
type Deps struct {
	Locks    []*lock.Lock
	Interval time.Duration
	Logger   *logging.Logger
	MQTT     Publisher // optional
	Recorder Recorder  // optional
}

// Poller runs the periodic update loop over discovered lock entities.
//
// Thread Safety: Run must be called once; the read accessors (Locks,
// Lock) are safe to call from other goroutines at any time since the
// entity set is frozen after New.
type Poller struct {
	locks    []*lock.Lock
	byID     map[string]*lock.Lock
	interval time.Duration
	logger   *logging.Logger
	mqtt     Publisher
	recorder Recorder
	topics   mqtt.Topics
}

// New creates a poller over the given lock entities.
//
// Each entity's state-change observer is wired to MQTT publishing and
// optional InfluxDB recording here; callers should not set their own
// observers on these entities afterwards.
//
// Returns:
//   - *Poller: Ready to Run
//   - error: If required dependencies are missing
func New(deps Deps) (*Poller, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Interval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}

	p := &Poller{
		locks:    deps.Locks,
		byID:     make(map[string]*lock.Lock, len(deps.Locks)),
		interval: deps.Interval,
		logger:   deps.Logger,
		mqtt:     deps.MQTT,
		recorder: deps.Recorder,
	}

	for _, l := range deps.Locks {
		p.byID[l.DeviceID()] = l
		l.SetOnStateChange(p.handleStateChange)
	}

	return p, nil
}

// Locks returns every managed lock entity.
func (p *Poller) Locks() []*lock.Lock {
	return p.locks
}

// Lock returns the lock entity with the given device ID.
func (p *Poller) Lock(deviceID string) (*lock.Lock, bool) {
	l, ok := p.byID[deviceID]
	return l, ok
}

// Run executes the polling loop until the context is cancelled.
//
// The first cycle runs immediately; subsequent cycles run every
// interval. Devices are updated sequentially within a cycle, each under
// its own timeout.
//
// Returns:
//   - error: The context's error once cancelled (never nil)
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller started",
		"interval", p.interval,
		"locks", len(p.locks),
	)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pollAll(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return ctx.Err()
		case <-ticker.C:
			p.pollAll(ctx)
		}
	}
}

// pollAll runs one update cycle for every managed lock.
func (p *Poller) pollAll(ctx context.Context) {
	for _, l := range p.locks {
		if ctx.Err() != nil {
			return
		}
		p.pollOne(ctx, l)
	}
}

// pollOne runs one device's update cycle under its own timeout and
// records the outcome.
func (p *Poller) pollOne(ctx context.Context, l *lock.Lock) {
	cycleCtx, cancel := context.WithTimeout(ctx, defaultCycleTimeout)
	defer cancel()

	start := time.Now()
	state, err := l.Update(cycleCtx)
	elapsed := time.Since(start)

	if err != nil {
		p.logger.Error("update cycle failed",
			"device_id", l.DeviceID(),
			"error", err,
		)
	} else {
		p.logger.Debug("update cycle complete",
			"device_id", l.DeviceID(),
			"state", state,
			"duration_ms", elapsed.Milliseconds(),
		)
	}

	if p.recorder != nil {
		p.recorder.WritePollCycle(l.DeviceID(), elapsed, err == nil)
	}
}

// handleStateChange publishes one state change to MQTT and records it
// to InfluxDB.
//
// Final snapshot states go to the retained state topic so new
// subscribers see current state; intermediate history transitions go to
// the non-retained event topic, one message per real event.
func (p *Poller) handleStateChange(change lock.StateChange) {
	payload, err := json.Marshal(change)
	if err != nil {
		p.logger.Error("encoding state change", "error", err)
		return
	}

	if p.mqtt != nil {
		var pubErr error
		if change.Intermediate {
			pubErr = p.mqtt.PublishEvent(p.topics.LockEvent(change.DeviceID), payload)
		} else {
			pubErr = p.mqtt.PublishRetained(p.topics.LockState(change.DeviceID), payload)
		}
		if pubErr != nil {
			p.logger.Warn("publishing state change",
				"device_id", change.DeviceID,
				"error", pubErr,
			)
		}
	}

	if p.recorder != nil {
		p.recorder.WriteLockState(
			change.DeviceID,
			change.Name,
			string(change.State),
			change.RawState,
			change.Intermediate,
		)
	}
}
