// Package poller drives the polling loop of the Doorman bridge.
//
// It discovers lock entities from the vendor's status snapshot at
// startup, then runs one update cycle per lock on a fixed interval.
// State changes observed during a cycle are published to MQTT and,
// when enabled, recorded to InfluxDB.
//
// # Lifecycle
//
//	locks, err := poller.Discover(ctx, sessions, client, logger)
//	p, err := poller.New(poller.Deps{...})
//	err = p.Run(ctx) // blocks until ctx is cancelled
//
// The poller also implements the API server's LockProvider, so the
// read-only HTTP surface shares the same entities the loop updates.
//
// # Failure Behaviour
//
// A degraded cycle (transport or envelope failure) retains prior state
// and the loop continues. An authentication failure is logged and the
// cycle is retried on the next tick; the session manager re-authenticates
// transparently once the vendor accepts logins again.
package poller
