// Package session persists the bearer token identifying the user to the
// TuneWave backend.
//
// Exactly one token exists per installation. The client never inspects it:
// expiry is implicit (the server rejects a stale token) and not tracked
// locally.
package session

// Store holds a single opaque session token.
type Store interface {
	// Get returns the stored token; ok is false when no token is stored.
	Get() (token string, ok bool)
	// Set persists the token, replacing any previous one.
	Set(token string) error
	// Clear removes the token. Get afterwards reports absent.
	Clear() error
}
