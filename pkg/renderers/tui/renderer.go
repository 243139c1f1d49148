package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-onboarding/pkg/company"
	"github.com/goliatone/go-onboarding/pkg/onboarding"
	"github.com/goliatone/go-onboarding/pkg/render"
	"github.com/goliatone/go-onboarding/pkg/taxcode"
	"github.com/goliatone/go-onboarding/pkg/wizard"
	"go.uber.org/zap"
)

// Navigation choices offered after each step.
const (
	NavNext   = "Siguiente"
	NavPrev   = "Anterior"
	NavSubmit = "Guardar"
)

// Names of the values the wizard derives instead of prompting for.
const (
	fieldSpecialTaxpayer      = "special_taxpayer"
	fieldMainAddress          = "main_address"
	fieldEstablishmentAddress = "establishment_address"
	fieldTaxPercentage        = "tax_percentage"
	fieldTax                  = "tax"
)

// errorAliases points derived values at the prompted field their errors
// belong to.
var errorAliases = map[string]string{
	fieldSpecialTaxpayer:      onboarding.IDSpecialTaxpayerNumber,
	fieldEstablishmentAddress: fieldMainAddress,
	fieldTax:                  fieldTaxPercentage,
}

// Renderer walks the onboarding steps in a terminal. Each step is gated the
// same way the browser wizard gates it and the collected values come back
// serialized in the configured format.
type Renderer struct {
	driver            PromptDriver
	out               io.Writer
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	constraints       company.Constraints
	logger            *zap.Logger
	recorder          onboarding.Recorder
}

// New constructs a terminal renderer.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		out:          os.Stdout,
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme,
		logger:       zap.NewNop(),
		recorder:     nopRecorder{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	r.logger = r.logger.Named("tui")
	return r, nil
}

var _ render.Renderer = (*Renderer)(nil)

// Name identifies the renderer.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the MIME type of the serialized values.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every step until the user saves a valid company.
// Prefilled values become defaults and prefilled errors send the wizard to
// the first step holding one.
func (r *Renderer) Render(ctx context.Context, steps []wizard.Step, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}

	machine, err := wizard.New(len(steps))
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	state := NewState(opts.Values, opts.Errors)
	seedDefaults(steps, state)
	reconcileSpecialTaxpayer(state)
	for _, msg := range opts.FormErrors {
		r.error(ctx, msg)
	}
	if step := firstErrorStep(steps, state); step > 0 {
		if err := machine.GoTo(step); err != nil {
			return nil, fmt.Errorf("tui: %w", err)
		}
	}

	for {
		step := steps[machine.Current()-1]
		if err := r.promptStep(ctx, machine, step, state); err != nil {
			return nil, err
		}

		choice, err := r.promptNav(ctx, machine)
		if err != nil {
			return nil, err
		}

		from := machine.Current()
		switch choice {
		case NavNext:
			if machine.Next(r.gate(ctx, steps, state)) {
				r.recorder.StepChanged(from, machine.Current())
			}
		case NavPrev:
			if machine.Prev() {
				r.recorder.StepChanged(from, machine.Current())
			}
		case NavSubmit:
			values := finalize(state)
			r.recorder.Submitted()
			errs := r.constraints.Validate(values)
			if errs == nil {
				return r.finish(values)
			}
			r.logger.Debug("submission rejected", zap.Strings("fields", errs.Fields()))
			state.SetErrors(errs)
			for _, name := range errs.Fields() {
				r.error(ctx, fmt.Sprintf("%s: %s", name, strings.Join(errs[name], " ")))
			}
			if target := firstErrorStep(steps, state); target > 0 && target != from {
				if err := machine.GoTo(target); err != nil {
					return nil, fmt.Errorf("tui: %w", err)
				}
				r.recorder.StepChanged(from, target)
			}
		}
	}
}

func (r *Renderer) gate(ctx context.Context, steps []wizard.Step, state *State) wizard.Gate {
	return func(n int) bool {
		result := wizard.Validate(steps[n-1], state)
		if result.Valid {
			return true
		}
		r.recorder.ValidationFailed(n, len(result.Issues))
		labels := make([]string, 0, len(result.Issues))
		for _, name := range result.Fields() {
			label := name
			if field, ok := steps[n-1].Field(name); ok && field.Label != "" {
				label = field.Label
			}
			labels = append(labels, label)
		}
		r.error(ctx, company.MessageRequired+" "+strings.Join(labels, ", "))
		return false
	}
}

func (r *Renderer) promptStep(ctx context.Context, machine *wizard.Machine, step wizard.Step, state *State) error {
	header := fmt.Sprintf("%s Paso %d de %d: %s", r.theme.StepPrefix, step.Number, machine.Total(), step.Title)
	if err := r.driver.Info(ctx, strings.TrimSpace(header)); err != nil {
		return err
	}

	for _, field := range step.Fields {
		required := field.Required
		if rule, ok := conditionalFor(step, field.Name); ok {
			if !rule.Applies(state) {
				continue
			}
			required = true
		}
		if err := r.promptField(ctx, field, required, state); err != nil {
			return err
		}
		if field.Name == onboarding.IDSpecialTaxpayerSelect || field.Name == onboarding.IDSpecialTaxpayerNumber {
			mirrorSpecialTaxpayer(state)
		}
	}
	return nil
}

func (r *Renderer) promptField(ctx context.Context, field wizard.Field, required bool, state *State) error {
	for _, msg := range errorsFor(state, field.Name) {
		r.error(ctx, fmt.Sprintf("%s: %s", field.Label, msg))
	}

	current, _ := state.Value(field.Name)
	validate := r.validator(field.Name, required)

	if field.Kind == wizard.FieldSelect && len(field.Options) > 0 {
		return r.promptSelect(ctx, field, current, state)
	}

	for {
		var (
			value string
			err   error
		)
		switch field.Kind {
		case wizard.FieldSecret:
			value, err = r.driver.Password(ctx, InputConfig{Message: field.Label, Help: field.Placeholder, Validator: validate})
		case wizard.FieldArea:
			value, err = r.driver.TextArea(ctx, TextAreaConfig{Message: field.Label, Help: field.Placeholder, Default: current})
		default:
			value, err = r.driver.Input(ctx, InputConfig{Message: field.Label, Help: field.Placeholder, Default: current, Validator: validate})
		}
		if err != nil {
			return err
		}
		value = strings.TrimSpace(value)
		if err := validate(value); err != nil {
			r.error(ctx, err.Error())
			continue
		}
		state.Set(field.Name, value)
		clearAliasErrors(state, field.Name)
		return nil
	}
}

func (r *Renderer) promptSelect(ctx context.Context, field wizard.Field, current string, state *State) error {
	labels := make([]string, len(field.Options))
	selected := 0
	for i, option := range field.Options {
		labels[i] = option.Label
		if option.Value == current {
			selected = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: field.Label, Options: labels, DefaultIndex: selected})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(field.Options) {
		idx = selected
	}
	state.Set(field.Name, field.Options[idx].Value)
	clearAliasErrors(state, field.Name)
	return nil
}

func (r *Renderer) promptNav(ctx context.Context, machine *wizard.Machine) (string, error) {
	controls := machine.Controls(machine.Current())
	var choices []string
	if controls.Next {
		choices = append(choices, NavNext)
	}
	if controls.Submit {
		choices = append(choices, NavSubmit)
	}
	if controls.Prev {
		choices = append(choices, NavPrev)
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: "¿Qué desea hacer?", Options: choices})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(choices) {
		return choices[0], nil
	}
	return choices[idx], nil
}

// validator checks a single answer against the field's constraint. The
// special taxpayer number is checked against the stored special_taxpayer
// rule.
func (r *Renderer) validator(name string, required bool) func(string) error {
	target := name
	if name == onboarding.IDSpecialTaxpayerNumber {
		target = fieldSpecialTaxpayer
	}
	return func(value string) error {
		if blank(value) {
			if required {
				return errors.New(company.MessageRequired)
			}
			return nil
		}
		if _, ok := r.constraints[target]; !ok {
			return nil
		}
		errs := r.constraints.Validate(map[string]string{target: value})
		if msgs := errs[target]; len(msgs) > 0 {
			return errors.New(strings.Join(msgs, " "))
		}
		return nil
	}
}

func (r *Renderer) error(ctx context.Context, msg string) {
	line := strings.TrimSpace(r.theme.ErrorPrefix + " " + msg)
	if err := r.driver.Info(ctx, line); err != nil {
		r.logger.Debug("info", zap.Error(err))
	}
}

func (r *Renderer) finish(values map[string]string) ([]byte, error) {
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(values)
}

func (r *Renderer) serialize(values map[string]string) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func seedDefaults(steps []wizard.Step, state *State) {
	for _, step := range steps {
		for _, field := range step.Fields {
			if field.Default != "" {
				state.SetDefault(field.Name, field.Default)
			}
		}
	}
}

// reconcileSpecialTaxpayer derives the indicator and number from a stored
// special_taxpayer value: a real number selects "yes", anything else "no",
// whatever indicator was prefilled.
func reconcileSpecialTaxpayer(state *State) {
	stored, _ := state.Value(fieldSpecialTaxpayer)
	stored = strings.TrimSpace(stored)
	if stored != "" && stored != onboarding.SpecialTaxpayerSentinel {
		state.values[onboarding.IDSpecialTaxpayerSelect] = onboarding.SpecialTaxpayerYes
		state.values[onboarding.IDSpecialTaxpayerNumber] = stored
		return
	}
	state.values[onboarding.IDSpecialTaxpayerSelect] = onboarding.SpecialTaxpayerNo
	state.values[onboarding.IDSpecialTaxpayerNumber] = onboarding.SpecialTaxpayerSentinel
	state.values[fieldSpecialTaxpayer] = onboarding.SpecialTaxpayerSentinel
}

// mirrorSpecialTaxpayer keeps special_taxpayer in line with the indicator.
// Switching to "yes" clears the sentinel left by the "no" branch.
func mirrorSpecialTaxpayer(state *State) {
	indicator, _ := state.Value(onboarding.IDSpecialTaxpayerSelect)
	if indicator != onboarding.SpecialTaxpayerYes {
		state.values[onboarding.IDSpecialTaxpayerNumber] = onboarding.SpecialTaxpayerSentinel
		state.values[fieldSpecialTaxpayer] = onboarding.SpecialTaxpayerSentinel
		return
	}
	number, _ := state.Value(onboarding.IDSpecialTaxpayerNumber)
	if number == onboarding.SpecialTaxpayerSentinel {
		number = ""
		state.values[onboarding.IDSpecialTaxpayerNumber] = ""
	}
	state.values[fieldSpecialTaxpayer] = number
}

// finalize builds the submitted values: the special taxpayer controls are
// dropped, the establishment address copies the main address and the tax
// follows the selected code.
func finalize(state *State) map[string]string {
	values := state.Values()
	delete(values, onboarding.IDSpecialTaxpayerSelect)
	delete(values, onboarding.IDSpecialTaxpayerNumber)
	values[fieldEstablishmentAddress] = values[fieldMainAddress]
	values[fieldTax] = strconv.Itoa(taxcode.Resolve(values[fieldTaxPercentage]))
	return values
}

func conditionalFor(step wizard.Step, name string) (wizard.Conditional, bool) {
	for _, rule := range step.Conditionals {
		if rule.Field == name {
			return rule, true
		}
	}
	return wizard.Conditional{}, false
}

func errorsFor(state *State, name string) []string {
	out := append([]string(nil), state.ErrorsFor(name)...)
	for alias, target := range errorAliases {
		if target == name {
			out = append(out, state.ErrorsFor(alias)...)
		}
	}
	return out
}

func clearAliasErrors(state *State, name string) {
	for alias, target := range errorAliases {
		if target == name {
			delete(state.errors, alias)
		}
	}
}

// firstErrorStep returns the lowest step owning a field with errors, or 0.
func firstErrorStep(steps []wizard.Step, state *State) int {
	if !state.HasErrors() {
		return 0
	}
	owner := make(map[string]int)
	for _, step := range steps {
		for _, field := range step.Fields {
			owner[field.Name] = step.Number
		}
	}
	best := 0
	for name := range state.errors {
		if target, ok := errorAliases[name]; ok {
			name = target
		}
		n, ok := owner[name]
		if !ok {
			continue
		}
		if best == 0 || n < best {
			best = n
		}
	}
	return best
}

func flattenForm(values map[string]string) string {
	out := url.Values{}
	for key, value := range values {
		out.Set(key, value)
	}
	return out.Encode()
}

func prettyPrint(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%s\n", key, values[key])
	}
	return b.String()
}

type nopRecorder struct{}

func (nopRecorder) StepChanged(int, int)      {}
func (nopRecorder) ValidationFailed(int, int) {}
func (nopRecorder) Submitted()                {}
