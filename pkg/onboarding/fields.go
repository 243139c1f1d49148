package onboarding

import (
	"github.com/goliatone/go-onboarding/pkg/dom"
	"github.com/goliatone/go-onboarding/pkg/wizard"
)

// setupFieldValidation forces the configured ids required and attaches live
// validation to every input and select: typing clears a field group's error
// once the value is non-blank, leaving a required blank field flags it.
// Neither listener gates navigation.
func (c *Controller) setupFieldValidation() {
	for _, id := range c.requiredIDs {
		if el := c.doc.ByID(id); el != nil {
			el.SetRequired(true)
		}
	}

	fields, err := c.doc.QueryAll("//*[self::input or self::select]")
	if err != nil {
		return
	}
	for _, field := range fields {
		field.On(dom.EventInput, clearErrorOnInput)
		field.On(dom.EventBlur, flagErrorOnBlur)
	}
}

func clearErrorOnInput(ev *dom.Event) {
	field := ev.Target
	group := field.Closest(ClassFieldGroup)
	if group == nil || !group.HasClass(ClassHasError) {
		return
	}
	if !wizard.Blank(field.Value()) {
		group.RemoveClass(ClassHasError)
	}
}

func flagErrorOnBlur(ev *dom.Event) {
	field := ev.Target
	if !field.Required() || !wizard.Blank(field.Value()) {
		return
	}
	if group := field.Closest(ClassFieldGroup); group != nil {
		group.AddClass(ClassHasError)
	}
}
