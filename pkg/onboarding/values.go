package onboarding

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-onboarding/pkg/dom"
)

var skippedInputTypes = map[string]struct{}{
	"file":   {},
	"submit": {},
	"button": {},
	"reset":  {},
	"image":  {},
}

// Values returns the named controls of the onboarding form as they would be
// submitted. File inputs and buttons are skipped.
func (c *Controller) Values() map[string]string {
	out := make(map[string]string)
	for _, el := range c.namedControls() {
		name, _ := el.Attr("name")
		out[name] = el.Value()
	}
	return out
}

// Fill writes posted values into the matching named controls. It is meant to
// run before Init so the special taxpayer reconciliation sees posted state.
// A posted indicator is replayed on Init as if the user picked it, since a
// page posted without scripting leaves the hidden mirror stale.
func (c *Controller) Fill(values url.Values) {
	if len(values) == 0 {
		return
	}
	if indicator, ok := values[IDSpecialTaxpayerSelect]; ok && len(indicator) > 0 {
		c.postedTaxpayer = &postedTaxpayer{
			indicator: indicator[0],
			number:    values.Get(IDSpecialTaxpayerNumber),
		}
	}
	for _, el := range c.namedControls() {
		name, _ := el.Attr("name")
		posted, ok := values[name]
		if !ok || len(posted) == 0 {
			continue
		}
		el.SetValue(posted[0])
	}
}

func (c *Controller) namedControls() []*dom.Element {
	var controls []*dom.Element
	if form := c.form(); form != nil {
		controls = form.QueryAll(".//*[self::input or self::select or self::textarea]")
	} else {
		controls = c.doc.Controls()
	}

	out := controls[:0]
	for _, el := range controls {
		name, ok := el.Attr("name")
		if !ok || strings.TrimSpace(name) == "" {
			continue
		}
		if el.Tag() == "input" {
			kind, _ := el.Attr("type")
			if _, skip := skippedInputTypes[strings.ToLower(kind)]; skip {
				continue
			}
		}
		out = append(out, el)
	}
	return out
}
