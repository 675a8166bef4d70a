// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing and joining rooms:
//  1. [RoomListView] : Browse the global or personal room collection
//  2. [CreateFormView] : Create a new room
//  3. [PasswordView] : Supply a password for a suspended private join
//  4. [MembersView] : Inspect a room's member list
//  5. [ConfirmView] : Confirm a delete or leave operation
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Status reports flow through a channel from the room Engine, so feedback from
// mutations and refreshes renders without blocking the event loop.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
