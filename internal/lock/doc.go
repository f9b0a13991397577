// Package lock implements the Doorman lock entity and its state
// reconciliation.
//
// Each Lock represents one physical Yale Doorman device discovered from
// the vendor's status snapshot. Per update cycle the entity merges two
// independently-polled data sources into one authoritative state:
//
//  1. The event-history feed — an append-only rolling window of recent
//     device events, deduplicated across cycles by report ID and mapped
//     to lock/unlock transitions via a static code table. Each new
//     transition is applied in feed order and published to observers as
//     a real historical state change.
//  2. The status-cycle snapshot — a point-in-time read that is always
//     authoritative: whatever the history tail said, the final state of
//     the cycle comes from the snapshot.
//
// Failures never crash a cycle's host. Authentication failures abandon
// the cycle (retried next tick, prior state preserved); transport and
// logical failures degrade the affected fetch to "no update";
// unrecognised event codes are logged and skipped per event.
//
// The set of seen report IDs grows for the life of the entity with no
// eviction; the feed is a small rolling window, so growth is slow, but
// bounding it for very long-lived processes remains an open question.
package lock
