package onboarding

import "go.uber.org/zap"

// HandleExistingErrors surfaces errors rendered by a previous failed
// submission. Field groups holding an error message are flagged. A page level
// error box wins: it is scrolled into view and pulses after the configured
// delay. Otherwise the first flagged field group is scrolled into view and the
// wizard switches to the step containing it.
func (c *Controller) HandleExistingErrors() {
	for _, group := range c.doc.ByClass(ClassFieldGroup) {
		if len(group.ByClass(ClassError)) > 0 {
			group.AddClass(ClassHasError)
		}
	}

	errorBox := c.doc.FirstByClass(ClassErrorBox)
	if errorBox != nil {
		errorBox.ScrollIntoView()
		c.doc.Tasks().After(c.pulseDelay, func() {
			errorBox.SetStyle("animation", pulseAnimation)
		})
		return
	}

	first := c.doc.FirstByClass(ClassFieldGroup, ClassHasError)
	if first == nil {
		return
	}
	first.ScrollIntoView()

	errorStep := 1
	for idx, step := range c.doc.ByClass(ClassFormStep) {
		if step.Contains(first) {
			errorStep = idx + 1
		}
	}
	if errorStep == c.machine.Current() {
		return
	}

	from := c.machine.Current()
	if err := c.machine.GoTo(errorStep); err != nil {
		c.logger.Warn("error step out of range", zap.Int("step", errorStep), zap.Error(err))
		return
	}
	c.moved(from)
}
