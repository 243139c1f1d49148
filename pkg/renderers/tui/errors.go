package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoSteps is returned when Render receives an empty step catalogue.
	ErrNoSteps = errors.New("tui: no steps to prompt")
)
