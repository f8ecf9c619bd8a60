package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"macrofront/internal/buildpipeline"
	"macrofront/internal/driver"
	"macrofront/internal/macros"
	"macrofront/internal/ui"
)

type checkOutcome struct {
	result *driver.WorkspaceResult
	err    error
	ice    *macros.InternalError
}

// runWithUI drives a progress program while check runs in the background.
// An internal compiler error raised by check is re-raised on the caller's
// goroutine once the UI has shut down.
func runWithUI(title string, crates []string, check func(buildpipeline.ProgressSink) (*driver.WorkspaceResult, error)) (*driver.WorkspaceResult, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		var outcome checkOutcome
		defer func() {
			if r := recover(); r != nil {
				ice, ok := macros.AsInternal(r)
				if !ok {
					panic(r)
				}
				outcome.ice = ice
			}
			close(events)
			outcomeCh <- outcome
		}()
		outcome.result, outcome.err = check(buildpipeline.ChannelSink{Ch: events})
	}()

	model := ui.NewProgressModel(title, crates, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// UI упал: дочитываем события, чтобы не заблокировать пайплайн
		for range events {
		}
	}
	outcome := <-outcomeCh
	if outcome.ice != nil {
		panic(outcome.ice)
	}
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
