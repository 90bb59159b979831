package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avolkov/teesheet/internal/refresh"
	"github.com/avolkov/teesheet/internal/table"
)

// Run wires the refresh coordinator into a Bubble Tea program and blocks
// until the user quits or the context is cancelled.
//
// The coordinator dispatches from its own goroutines; routing every dispatch
// through program.Send keeps the reducer on the single program loop. The
// program variable is assigned before Run starts processing messages and the
// coordinator only runs in response to key events, so the closure never sees
// it nil.
func Run(opts Options) error {
	var program *tea.Program

	dispatch := func(a table.Action) {
		program.Send(actionMsg{action: a})
	}
	coord := refresh.New(opts.Lookup, dispatch, opts.Channel.Send, opts.Concurrency)

	program = tea.NewProgram(
		New(opts, coord),
		tea.WithAltScreen(),
		tea.WithContext(opts.Context),
	)
	_, err := program.Run()
	if err != nil && opts.Context != nil && opts.Context.Err() != nil {
		// Cancellation (SIGINT/SIGTERM) is a clean shutdown, not a failure.
		return nil
	}
	return err
}
