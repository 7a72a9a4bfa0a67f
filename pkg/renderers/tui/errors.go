package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoEngine is returned when Run is called without an engine.
	ErrNoEngine = errors.New("tui: engine is nil")
)
