package yale

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Endpoint paths relative to the configured base URL.
const (
	loginPath   = "/o/token/"
	statusPath  = "/api/panel/cycle/"
	historyPath = "/api/event/report/"
)

// historyQuery is the fixed page/timezone parameterisation of the
// event-report endpoint: first page, timestamps in UTC.
const historyQuery = "page_num=1&set_utc=1"

// maxResponseBytes caps response bodies to guard against a misbehaving
// endpoint streaming unbounded data.
const maxResponseBytes = 1 << 20 // 1MB

// Logger is the minimal logging interface used by this package.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Client performs HTTP requests against the Yale Home cloud API.
//
// It is a transport-level client: it decodes the vendor's response
// envelope into typed results and classifies failures, but holds no
// session state. Token lifecycle lives in SessionManager.
//
// Thread Safety: all methods are safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  Logger
}

// NewClient creates a vendor API client.
//
// Parameters:
//   - baseURL: Vendor API base URL (no trailing slash required)
//   - timeout: Per-request timeout applied to every call
//
// Returns:
//   - *Client: Ready-to-use client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetLogger sets an optional logger for request diagnostics.
func (c *Client) SetLogger(logger Logger) {
	c.logger = logger
}

// Login performs the password-grant authentication handshake.
//
// The bootstrap token authorises the handshake itself via a Basic
// authorization header; the account credentials travel in the form body.
//
// Parameters:
//   - ctx: Context for cancellation/timeout
//   - creds: Immutable account credentials
//
// Returns:
//   - Session: Fresh session stamped with the current time
//   - error: ErrAuthFailed (wrapped) on any transport, HTTP, or decode failure
func (c *Client) Login(ctx context.Context, creds Credentials) (Session, error) {
	c.logInfo("logging in to Yale", "username", creds.Username)

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath,
		strings.NewReader(form.Encode()))
	if err != nil {
		return Session{}, fmt.Errorf("%w: building login request: %w", ErrAuthFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+creds.BootstrapToken)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Session{}, fmt.Errorf("%w: login returned HTTP %d", ErrAuthFailed, resp.StatusCode)
	}

	var body loginResponse
	if err := decodeBody(resp.Body, &body); err != nil {
		return Session{}, fmt.Errorf("%w: decoding login response: %w", ErrAuthFailed, err)
	}
	if body.AccessToken == "" {
		return Session{}, fmt.Errorf("%w: login response carried no access token", ErrAuthFailed)
	}

	c.logInfo("logged in to Yale", "expires_in", body.ExpiresIn)

	return Session{
		AccessToken: body.AccessToken,
		ExpiresIn:   body.ExpiresIn,
		LoggedInAt:  time.Now(),
	}, nil
}

// FetchStatus requests the status-cycle endpoint and returns the snapshot
// of all devices' open/closed state.
//
// Parameters:
//   - ctx: Context for cancellation/timeout
//   - token: Currently-valid bearer token
//
// Returns:
//   - []DeviceStatus: Device entries in vendor order
//   - error: ErrRequestFailed (transport/non-2xx) or ErrStatusNotOK (envelope failure marker)
func (c *Client) FetchStatus(ctx context.Context, token string) ([]DeviceStatus, error) {
	env, err := c.getEnvelope(ctx, c.baseURL+statusPath, token)
	if err != nil {
		return nil, fmt.Errorf("status cycle: %w", err)
	}

	var data statusData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("status cycle: %w: decoding device list: %w", ErrRequestFailed, err)
	}

	return data.DeviceStatus, nil
}

// FetchHistory requests the event-report endpoint and returns recent
// device events in the order the vendor returned them.
//
// Parameters:
//   - ctx: Context for cancellation/timeout
//   - token: Currently-valid bearer token
//
// Returns:
//   - []Event: Events in feed order (vendor chronology, not re-sorted)
//   - error: ErrRequestFailed (transport/non-2xx) or ErrStatusNotOK (envelope failure marker)
func (c *Client) FetchHistory(ctx context.Context, token string) ([]Event, error) {
	env, err := c.getEnvelope(ctx, c.baseURL+historyPath+"?"+historyQuery, token)
	if err != nil {
		return nil, fmt.Errorf("event report: %w", err)
	}

	var events []Event
	if err := json.Unmarshal(env.Data, &events); err != nil {
		return nil, fmt.Errorf("event report: %w: decoding event list: %w", ErrRequestFailed, err)
	}

	return events, nil
}

// getEnvelope performs an authenticated GET and decodes the common
// response envelope, enforcing the success marker.
func (c *Client) getEnvelope(ctx context.Context, rawURL, token string) (envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return envelope{}, fmt.Errorf("%w: building request: %w", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return envelope{}, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return envelope{}, fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode)
	}

	var env envelope
	if err := decodeBody(resp.Body, &env); err != nil {
		return envelope{}, fmt.Errorf("%w: decoding envelope: %w", ErrRequestFailed, err)
	}

	// Logical failure: transport succeeded but the vendor flagged the
	// request as unsuccessful in the envelope.
	if env.Message != messageOK {
		return envelope{}, fmt.Errorf("%w: message %q", ErrStatusNotOK, env.Message)
	}

	return env, nil
}

// decodeBody decodes a JSON response body with a size cap.
func decodeBody(r io.Reader, v any) error {
	return json.NewDecoder(io.LimitReader(r, maxResponseBytes)).Decode(v)
}

// logInfo logs at info level if a logger is configured.
func (c *Client) logInfo(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}
