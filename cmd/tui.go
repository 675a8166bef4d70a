package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/Lalka12235/TuneWave/internal/shared"
	"github.com/Lalka12235/TuneWave/internal/tasks"
	"github.com/Lalka12235/TuneWave/internal/ui"
)

// TUI launches the interactive room browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/tunewave-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	// The TUI gets its own engine: status reports flow through a channel
	// into the event loop, and confirmations are rendered as a view rather
	// than a terminal prompt.
	statusChan := make(chan ui.StatusUpdate, 50)
	engine := tasks.NewEngine(tasks.EngineOpts{
		API:     r.client,
		Session: r.session,
		Status: tasks.StatusFunc(func(message string, isErr bool) {
			select {
			case statusChan <- ui.StatusUpdate{Message: message, Err: isErr}:
			default:
			}
		}),
		Confirm: func(string) bool { return true },
		Logger:  fileLogger,
	})

	model := ui.NewModel(ctx, engine, statusChan)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
