package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"waldo/internal/driver"
	"waldo/internal/ui"
	"waldo/internal/universe"
)

type checkOutcome struct {
	results []*driver.CheckResult
	err     error
}

// runCheckWithUI checks files while a Bubble Tea program renders progress.
func runCheckWithUI(ctx context.Context, title string, u universe.Universe, baseDir string, files []string, opts driver.CheckOptions) ([]*driver.CheckResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.CheckFiles(ctx, u, baseDir, files, opts)
		outcomeCh <- checkOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	if uiErr != nil {
		// UI упал: дочитываем события, иначе воркеры встанут на полном канале
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
