package onboarding

import (
	"time"

	"github.com/goliatone/go-onboarding/pkg/wizard"
	"go.uber.org/zap"
)

// Recorder receives wizard activity. internal/metrics provides a prometheus
// backed implementation.
type Recorder interface {
	StepChanged(from, to int)
	ValidationFailed(step int, fields int)
	Submitted()
}

type nopRecorder struct{}

func (nopRecorder) StepChanged(int, int)      {}
func (nopRecorder) ValidationFailed(int, int) {}
func (nopRecorder) Submitted()                {}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder sets the activity recorder.
func WithRecorder(recorder Recorder) Option {
	return func(c *Controller) {
		if recorder != nil {
			c.recorder = recorder
		}
	}
}

// WithTotalSteps overrides the number of wizard steps.
func WithTotalSteps(total int) Option {
	return func(c *Controller) {
		if total > 0 {
			c.total = total
		}
	}
}

// WithRequiredIDs replaces the ids forced required on Init.
func WithRequiredIDs(ids ...string) Option {
	return func(c *Controller) {
		c.requiredIDs = append([]string(nil), ids...)
	}
}

// WithConditional adds a conditional requirement checked when validating step.
func WithConditional(step int, rule wizard.Conditional) Option {
	return func(c *Controller) {
		if c.conditionals == nil {
			c.conditionals = make(map[int][]wizard.Conditional)
		}
		c.conditionals[step] = append(c.conditionals[step], rule)
	}
}

// WithPulseDelay overrides the delay before the error banner pulses.
func WithPulseDelay(delay time.Duration) Option {
	return func(c *Controller) {
		if delay >= 0 {
			c.pulseDelay = delay
		}
	}
}
