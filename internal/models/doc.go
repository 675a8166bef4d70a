// Package models defines the data model for the TuneWave client.
//
// Types mirror the backend's REST payloads; validation covers only what the
// server would reject anyway, so a violating request never leaves the
// process.
package models
