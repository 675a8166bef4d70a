// Package services wraps the TuneWave backend's HTTP API.
//
// One Client covers rooms, membership, auth and the Spotify search proxy.
// Server failures are decoded at this boundary into [APIError]; callers
// never inspect raw response bodies.
package services
