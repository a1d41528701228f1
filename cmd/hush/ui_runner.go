package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"hush/internal/driver"
	"hush/internal/ui"
)

type stripOutcome struct {
	results []driver.StripResult
	err     error
}

func runStripWithUI(ctx context.Context, title string, files []string, opts driver.StripOptions) ([]driver.StripResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan stripOutcome, 1)

	go func() {
		opts.Sink = driver.ChannelSink{Ch: events}
		results, err := driver.StripPaths(ctx, files, opts)
		outcomeCh <- stripOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// the program may quit before the driver finishes sending
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
