package yale

import "encoding/json"

// messageOK is the literal success marker the vendor places in the
// envelope's top-level "message" field.
const messageOK = "OK!"

// envelope is the common response wrapper used by all three endpoints.
// The payload shape under "data" differs per endpoint, so it is decoded
// lazily by the caller.
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// loginResponse is the body returned by the token-acquisition endpoint.
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// statusData is the payload of the status-cycle endpoint.
type statusData struct {
	DeviceStatus []DeviceStatus `json:"device_status"`
}

// DeviceStatus is one device entry from the status-cycle snapshot.
type DeviceStatus struct {
	DeviceID string `json:"device_id"`
	Name     string `json:"name"`

	// StatusOpen carries the device's open/closed status tokens; the first
	// element is the current raw state (e.g. "device_status.lock").
	StatusOpen []string `json:"status_open"`
}

// RawState returns the device's current raw state token, or an empty
// string if the vendor returned no status entries.
func (d DeviceStatus) RawState() string {
	if len(d.StatusOpen) == 0 {
		return ""
	}
	return d.StatusOpen[0]
}

// Event is one record from the event-report feed.
//
// The feed returns a rolling window of recent events in the order the
// vendor considers chronological; this package preserves that order and
// does not re-sort.
type Event struct {
	// Type is the device class the event belongs to,
	// e.g. "device_type.door_lock".
	Type string `json:"type"`

	// ReportID is the vendor-assigned unique identifier for this event,
	// used for deduplication across polling cycles.
	ReportID int64 `json:"report_id"`

	// Name is the device name as the vendor knows it.
	Name string `json:"name"`

	// User identifies who triggered the event, where applicable.
	User string `json:"user"`

	// EventType is the vendor event code (e.g. "1807" for auto-relock).
	EventType string `json:"event_type"`

	// Time is the vendor-formatted event timestamp. Informational only;
	// ordering comes from feed position.
	Time string `json:"time"`
}
