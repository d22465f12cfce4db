// Package repositories implements SQLite persistence for the dashboard client.
//
// Key Implementations:
//   - [SessionRepository] : The logged in session and last dashboard section, stored as client_state keys
//   - [ApplicationRepository] : Offline history of completed automation runs
//   - [ApplicationCacheAdapter] : Feeds run results from the automation controller into the history
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
