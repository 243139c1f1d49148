package onboarding

import (
	"strconv"

	"github.com/goliatone/go-onboarding/pkg/dom"
	"github.com/goliatone/go-onboarding/pkg/taxcode"
	"go.uber.org/zap"
)

// HandleFormSubmission fills derived fields before the form is sent: the
// establishment address takes the main address and the tax field takes the
// percentage resolved from the selected SRI code. The tax field keeps
// following the selector afterwards. The default action is never prevented;
// the browser's required attribute handling and the step gating applied
// during navigation are the only guards.
func (c *Controller) HandleFormSubmission(ev *dom.Event) {
	main := c.doc.ByID(IDMainAddress)
	establishment := c.doc.ByID(IDEstablishmentAddress)
	if main != nil && establishment != nil {
		establishment.SetValue(main.Value())
	}

	selector := c.doc.ByID(IDTaxPercentage)
	tax := c.doc.ByID(IDTax)
	if selector != nil && tax != nil {
		sync := func(*dom.Event) {
			tax.SetValue(strconv.Itoa(taxcode.Resolve(selector.Value())))
		}
		sync(ev)
		if !c.taxSyncOn {
			selector.On(dom.EventInput, sync)
			selector.On(dom.EventChange, sync)
			c.taxSyncOn = true
		}
	}

	c.recorder.Submitted()
	c.logger.Debug("form submission", zap.Any("values", c.Values()))
}

// Submit dispatches submit on the onboarding form and reports whether the
// browser would proceed.
func (c *Controller) Submit() bool {
	form := c.form()
	if form == nil {
		c.HandleFormSubmission(&dom.Event{Type: dom.EventSubmit})
		return true
	}
	ev := form.Dispatch(dom.EventSubmit)
	return !ev.DefaultPrevented()
}
