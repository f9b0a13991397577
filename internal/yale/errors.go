package yale

import "errors"

// Domain-specific errors for vendor API operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrAuthFailed is returned when the login handshake fails or returns an
	// unparsable body. No authenticated call can proceed; callers abandon the
	// whole update cycle and retry on the next tick.
	ErrAuthFailed = errors.New("yale: authentication failed")

	// ErrRequestFailed is returned for transport-level failures on
	// authenticated endpoints: timeouts, connection errors, non-2xx responses.
	ErrRequestFailed = errors.New("yale: request failed")

	// ErrStatusNotOK is returned when the HTTP request succeeded but the
	// response envelope carries a failure marker instead of "OK!".
	ErrStatusNotOK = errors.New("yale: response status not OK")
)
