package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteLockState records a lock state observation.
//
// This is the primary method for recording lock history. The write is
// non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - deviceID: Vendor-assigned device identifier
//   - name: Human-readable lock name
//   - state: Normalised state string ("locked", "unlocked", "unknown")
//   - rawState: Raw vendor status token behind the state
//   - intermediate: Whether this is a history-derived transition rather
//     than an authoritative snapshot
func (c *Client) WriteLockState(deviceID, name, state, rawState string, intermediate bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"lock_state",
		map[string]string{
			"device_id": deviceID,
			"name":      name,
		},
		map[string]interface{}{
			"state":        state,
			"raw_state":    rawState,
			"locked":       state == "locked",
			"intermediate": intermediate,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePollCycle records the outcome of one poll cycle for latency and
// failure-rate dashboards.
//
// Parameters:
//   - deviceID: Device the cycle ran for
//   - duration: Wall time of the cycle
//   - success: Whether the cycle completed without an auth failure
func (c *Client) WritePollCycle(deviceID string, duration time.Duration, success bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"poll_cycle",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"duration_ms": float64(duration.Milliseconds()),
			"success":     success,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
