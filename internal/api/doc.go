// Package api implements the read-only HTTP REST API for the Doorman bridge.
//
// This package provides:
//   - REST endpoints for inspecting discovered locks and their state
//   - JWT authentication on lock endpoints
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//
// # Architecture
//
// The API is an observability surface over the poller's in-memory lock
// entities. It never talks to the vendor cloud itself and never mutates
// lock state: remote commands are unsupported, so every endpoint is a
// read. MQTT remains the push channel; this API serves dashboards and
// ad-hoc inspection.
//
// # Security
//
// Lock endpoints require a Bearer JWT signed with the configured secret
// (HS256). Tokens are minted out-of-band via the bridge binary; there is
// no login endpoint because the bridge has no user database.
package api
