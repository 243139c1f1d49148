package onboarding

import (
	"strings"

	"github.com/goliatone/go-onboarding/pkg/dom"
)

type postedTaxpayer struct {
	indicator string
	number    string
}

type specialTaxpayer struct {
	indicator *dom.Element
	group     *dom.Element
	number    *dom.Element
	hidden    *dom.Element
}

func (c *Controller) specialTaxpayerElements() (specialTaxpayer, bool) {
	st := specialTaxpayer{
		indicator: c.doc.ByID(IDSpecialTaxpayerSelect),
		group:     c.doc.ByID(IDSpecialTaxpayerGroup),
		number:    c.doc.ByID(IDSpecialTaxpayerNumber),
		hidden:    c.doc.ByID(IDSpecialTaxpayerHidden),
	}
	ok := st.indicator != nil && st.group != nil && st.number != nil && st.hidden != nil
	return st, ok
}

// setupSpecialTaxpayer wires the indicator select to the resolution number
// field and its hidden mirror, then reconciles the controls with the value
// the server rendered into the hidden field.
func (c *Controller) setupSpecialTaxpayer() {
	st, ok := c.specialTaxpayerElements()
	if !ok {
		c.logger.Debug("special taxpayer controls not present")
		return
	}

	st.indicator.On(dom.EventChange, func(ev *dom.Event) {
		if ev.Target.Value() == SpecialTaxpayerYes {
			st.enable()
			return
		}
		st.disable()
	})

	st.number.On(dom.EventInput, func(ev *dom.Event) {
		st.hidden.SetValue(ev.Target.Value())
	})

	current := st.hidden.Value()
	switch {
	case strings.TrimSpace(current) == "", current == SpecialTaxpayerSentinel:
		st.indicator.SetValue(SpecialTaxpayerNo)
		st.disable()
	default:
		st.indicator.SetValue(SpecialTaxpayerYes)
		setDisplay(st.group, true)
		st.number.SetValue(current)
		st.number.SetRequired(true)
	}

	if posted := c.postedTaxpayer; posted != nil {
		if posted.indicator != SpecialTaxpayerYes {
			st.indicator.Choose(SpecialTaxpayerNo)
			return
		}
		st.indicator.Choose(SpecialTaxpayerYes)
		st.number.Type(posted.number)
	}
}

// enable shows the number field and makes it required. A sentinel left over
// from the "no" branch is cleared so the mirror stays empty until the user
// types a real resolution number.
func (st specialTaxpayer) enable() {
	setDisplay(st.group, true)
	st.number.SetRequired(true)
	if st.number.Value() == SpecialTaxpayerSentinel {
		st.number.SetValue("")
	}
	st.hidden.SetValue(st.number.Value())
}

func (st specialTaxpayer) disable() {
	setDisplay(st.group, false)
	st.number.SetRequired(false)
	st.number.SetValue(SpecialTaxpayerSentinel)
	st.hidden.SetValue(SpecialTaxpayerSentinel)
}
