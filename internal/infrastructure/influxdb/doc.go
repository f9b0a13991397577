// Package influxdb provides InfluxDB connectivity for the Doorman bridge.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, state recording, and health monitoring.
//
// # Purpose
//
// This package handles time-series history for:
//   - Lock state over time (locked/unlocked, raw vendor status)
//   - Individual lock events recovered from the vendor history feed
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteLockState("lock-front-door", "Front Door", true, "device_status.lock")
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are delivered via a
// callback. Connection and health check errors are returned directly.
package influxdb
