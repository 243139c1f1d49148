package vanilla

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-onboarding/pkg/company"
	"github.com/goliatone/go-onboarding/pkg/onboarding"
	"github.com/goliatone/go-onboarding/pkg/render"
	"github.com/goliatone/go-onboarding/pkg/wizard"
)

// specialTaxpayerField is the model field mirrored by the special taxpayer
// controls. Its errors are rendered next to the resolution number.
const specialTaxpayerField = "special_taxpayer"

type optionView struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type fieldView struct {
	Name        string       `json:"name"`
	ID          string       `json:"id"`
	GroupID     string       `json:"group_id"`
	Label       string       `json:"label"`
	Kind        string       `json:"kind"`
	Type        string       `json:"type"`
	Placeholder string       `json:"placeholder"`
	Value       string       `json:"value"`
	Required    bool         `json:"required"`
	Hidden      bool         `json:"hidden"`
	MaxLength   string       `json:"max_length"`
	Accept      string       `json:"accept"`
	Options     []optionView `json:"options"`
	Errors      []string     `json:"errors"`
}

type stepView struct {
	Number string               `json:"number"`
	Title  string               `json:"title"`
	Fields []fieldView          `json:"fields"`
	Hidden []render.HiddenField `json:"hidden"`
}

type pageView struct {
	Title      string               `json:"title"`
	Action     string               `json:"action"`
	Stylesheet string               `json:"stylesheet"`
	Styles     string               `json:"styles"`
	Steps      []stepView           `json:"steps"`
	Hidden     []render.HiddenField `json:"hidden"`
	FormErrors []string             `json:"form_errors"`
}

// stepHidden lists the derived inputs each step carries. The controller
// fills them from the visible controls.
var stepHidden = map[int][]render.HiddenField{
	2: {{Name: "establishment_address", ID: onboarding.IDEstablishmentAddress}},
	3: {
		{Name: "tax", ID: onboarding.IDTax},
		{Name: specialTaxpayerField, ID: onboarding.IDSpecialTaxpayerHidden},
	},
}

type fieldBuilder struct {
	values      map[string]string
	errors      map[string][]string
	constraints company.Constraints
}

func (b fieldBuilder) step(step wizard.Step) stepView {
	view := stepView{
		Number: strconv.Itoa(step.Number),
		Title:  step.Title,
		Fields: make([]fieldView, 0, len(step.Fields)),
	}
	for _, field := range step.Fields {
		view.Fields = append(view.Fields, b.field(field))
	}
	for _, hidden := range stepHidden[step.Number] {
		hidden.Value = b.values[hidden.Name]
		view.Hidden = append(view.Hidden, hidden)
	}
	return view
}

func (b fieldBuilder) field(field wizard.Field) fieldView {
	view := fieldView{
		Name:        field.Name,
		ID:          field.ElementID(),
		GroupID:     groupID(field),
		Label:       field.Label,
		Kind:        string(field.Kind),
		Type:        inputType(field.Kind),
		Placeholder: field.Placeholder,
		Required:    field.Required,
		Errors:      b.errors[field.Name],
	}

	value, posted := b.values[field.Name]
	if !posted {
		value = field.Default
	}

	// The resolution number carries the errors of the special_taxpayer field
	// it is mirrored into.
	switch field.Name {
	case onboarding.IDSpecialTaxpayerSelect:
		value = b.specialIndicator()
	case onboarding.IDSpecialTaxpayerNumber:
		view.GroupID = onboarding.IDSpecialTaxpayerGroup
		view.Errors = b.errors[specialTaxpayerField]
		if b.specialIndicator() != onboarding.SpecialTaxpayerYes {
			view.Hidden = true
			value = ""
		} else if !posted {
			value = b.values[specialTaxpayerField]
		}
	}

	if field.Kind != wizard.FieldFile && field.Kind != wizard.FieldSecret {
		view.Value = value
	}

	if constraint, ok := b.constraints[field.Name]; ok {
		if constraint.MaxLength != nil {
			view.MaxLength = strconv.Itoa(*constraint.MaxLength)
		}
		if constraint.File != nil {
			view.Accept = acceptFor(constraint.File.Extensions)
		}
	}

	for _, option := range field.Options {
		view.Options = append(view.Options, optionView{Value: option.Value, Label: option.Label})
	}
	return view
}

// specialIndicator is the posted indicator, or the branch implied by the
// stored special_taxpayer value when nothing was posted.
func (b fieldBuilder) specialIndicator() string {
	if indicator, ok := b.values[onboarding.IDSpecialTaxpayerSelect]; ok {
		if indicator == onboarding.SpecialTaxpayerYes {
			return onboarding.SpecialTaxpayerYes
		}
		return onboarding.SpecialTaxpayerNo
	}
	stored := strings.TrimSpace(b.values[specialTaxpayerField])
	if stored == "" || stored == onboarding.SpecialTaxpayerSentinel {
		return onboarding.SpecialTaxpayerNo
	}
	return onboarding.SpecialTaxpayerYes
}

// renderedNames lists the form names that get an inline error slot.
func renderedNames(steps []wizard.Step) []string {
	names := []string{specialTaxpayerField}
	for _, step := range steps {
		for _, field := range step.Fields {
			switch field.Name {
			case onboarding.IDSpecialTaxpayerSelect, onboarding.IDSpecialTaxpayerNumber:
				continue
			}
			names = append(names, field.Name)
		}
	}
	return names
}
