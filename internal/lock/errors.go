package lock

import "errors"

// Domain-specific errors for lock operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotImplemented is returned by the lock/unlock command path.
	// The vendor API exposes no supported command endpoint, so commands
	// are explicitly unsupported rather than silently ignored — callers
	// can distinguish "accepted but no-op" from "unsupported".
	ErrNotImplemented = errors.New("lock: remote lock/unlock commands are not implemented")

	// ErrUnknownEventCode is returned (wrapped, with the offending code)
	// when a history event's type code is neither in the state mapping
	// table nor the informational table. Reconciliation logs and skips
	// the event; the rest of the batch is still processed.
	ErrUnknownEventCode = errors.New("lock: unrecognised event code")
)
