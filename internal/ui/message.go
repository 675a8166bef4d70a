package ui

import (
	"github.com/Lalka12235/TuneWave/internal/models"
	"github.com/Lalka12235/TuneWave/internal/tasks"
)

// StatusUpdate is a single report from the room engine's status sink.
type StatusUpdate struct {
	Message string
	Err     bool
}

// roomsRefreshedMsg signals that one view target finished refreshing; the
// rooms themselves are read back from the engine.
type roomsRefreshedMsg struct {
	target tasks.Target
	err    error
}

// membersLoadedMsg carries a fetched member list.
type membersLoadedMsg struct {
	roomID  string
	members []models.Member
	err     error
}

// mutationDoneMsg signals a completed create, delete, join, or leave.
type mutationDoneMsg struct {
	err error
}

// passwordNeededMsg signals a join suspended waiting for a password.
type passwordNeededMsg struct {
	roomID string
}

// statusMsg delivers one engine report to the status line.
type statusMsg StatusUpdate
