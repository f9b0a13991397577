package yale

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Credentials holds the immutable account credentials.
//
// The bootstrap token is a static credential used only to authorise the
// login handshake itself; it is never sent on authenticated calls.
// Supplied once at construction and never mutated.
type Credentials struct {
	Username       string
	Password       string
	BootstrapToken string
}

// Session is the bearer credential obtained from a successful login.
//
// A Session is an immutable value: re-login replaces it wholesale,
// never mutates it in place. It is either valid (current time within
// LoggedInAt + ExpiresIn, less a safety margin) or stale.
type Session struct {
	// AccessToken is the opaque bearer credential.
	AccessToken string

	// ExpiresIn is the token validity in seconds, as reported at login.
	ExpiresIn int

	// LoggedInAt is the acquisition timestamp.
	LoggedInAt time.Time
}

// ExpiresAt returns the instant the session's token expires.
func (s Session) ExpiresAt() time.Time {
	return s.LoggedInAt.Add(time.Duration(s.ExpiresIn) * time.Second)
}

// Valid reports whether the session is still usable at the given time,
// applying the safety margin so the token is refreshed before it
// actually expires mid-request.
func (s Session) Valid(now time.Time, margin time.Duration) bool {
	if s.AccessToken == "" {
		return false
	}
	return now.Before(s.ExpiresAt().Add(-margin))
}

// SessionManager owns the credentials and the current Session, and
// produces a currently-valid bearer token for every authenticated call,
// transparently re-authenticating when stale.
//
// One manager may be shared by all lock entities using the same account;
// the staleness check runs on every Token call regardless, and
// concurrent refreshes are collapsed into a single login via
// singleflight.
//
// Thread Safety: all methods are safe for concurrent use.
type SessionManager struct {
	client *Client
	creds  Credentials
	margin time.Duration

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time

	mu      sync.RWMutex
	session Session

	sf     singleflight.Group
	logger Logger
}

// NewSessionManager creates a session manager around the given client
// and credentials. No login is performed until the first Token or
// EnsureValid call.
//
// Parameters:
//   - client: Vendor API client used for the login handshake
//   - creds: Immutable account credentials
//   - margin: Safety margin subtracted from token lifetime for staleness checks
//
// Returns:
//   - *SessionManager: Manager with an empty (stale) initial session
func NewSessionManager(client *Client, creds Credentials, margin time.Duration) *SessionManager {
	return &SessionManager{
		client: client,
		creds:  creds,
		margin: margin,
		now:    time.Now,
	}
}

// SetLogger sets an optional logger for login diagnostics.
func (m *SessionManager) SetLogger(logger Logger) {
	m.logger = logger
}

// SetClock overrides the time source. Intended for tests.
func (m *SessionManager) SetClock(now func() time.Time) {
	m.now = now
}

// Session returns a copy of the current session. It may be stale;
// use Token or EnsureValid for authenticated calls.
func (m *SessionManager) Session() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Token returns a currently-valid bearer token, re-authenticating first
// if the session is stale. This must be called before every
// authenticated request, since the token can expire between cycles.
//
// Parameters:
//   - ctx: Context for cancellation/timeout
//
// Returns:
//   - string: Valid bearer token
//   - error: ErrAuthFailed (wrapped) if re-login was needed and failed
func (m *SessionManager) Token(ctx context.Context) (string, error) {
	session, err := m.EnsureValid(ctx)
	if err != nil {
		return "", err
	}
	return session.AccessToken, nil
}

// EnsureValid returns the current session if it is still valid, or a
// fresh one obtained by re-login. The stored session is replaced
// wholesale on refresh (copy-on-refresh, never partial mutation).
//
// Parameters:
//   - ctx: Context for cancellation/timeout
//
// Returns:
//   - Session: A session valid at the time of the call
//   - error: ErrAuthFailed (wrapped) if login failed
func (m *SessionManager) EnsureValid(ctx context.Context) (Session, error) {
	m.mu.RLock()
	current := m.session
	m.mu.RUnlock()

	if current.Valid(m.now(), m.margin) {
		return current, nil
	}

	// Collapse concurrent refreshes into one login. Entities sharing this
	// manager all wait on the same in-flight handshake.
	v, err, _ := m.sf.Do("login", func() (any, error) {
		// Re-check under the flight: another caller may have just refreshed.
		m.mu.RLock()
		session := m.session
		m.mu.RUnlock()
		if session.Valid(m.now(), m.margin) {
			return session, nil
		}

		if m.logger != nil {
			m.logger.Info("session stale, re-authenticating")
		}

		fresh, err := m.client.Login(ctx, m.creds)
		if err != nil {
			return Session{}, err
		}

		m.mu.Lock()
		m.session = fresh
		m.mu.Unlock()

		return fresh, nil
	})
	if err != nil {
		return Session{}, err
	}

	return v.(Session), nil
}
