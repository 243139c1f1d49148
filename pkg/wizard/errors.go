package wizard

import "errors"

var (
	// ErrInvalidTotal is returned when a machine is built with fewer than one step.
	ErrInvalidTotal = errors.New("wizard: total steps must be at least 1")
	// ErrStepOutOfRange is returned when a step index falls outside [1, total].
	ErrStepOutOfRange = errors.New("wizard: step out of range")
)
