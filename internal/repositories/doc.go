// Package repositories persists backend snapshots in the local sqlite
// database.
//
// Snapshots are a cache, not a source of truth: every successful fetch
// replaces the stored view wholesale, mirroring how the in-memory views
// are replaced. Commands read them back for offline listings and for
// diffing against fresh data.
package repositories
