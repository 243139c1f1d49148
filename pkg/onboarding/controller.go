package onboarding

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goliatone/go-onboarding/pkg/dom"
	"github.com/goliatone/go-onboarding/pkg/wizard"
	"go.uber.org/zap"
)

var (
	// ErrNilDocument is returned when no document is provided.
	ErrNilDocument = errors.New("onboarding: document is nil")
	// ErrMissingStep is returned when a step container is absent from the page.
	ErrMissingStep = errors.New("onboarding: step container not found")
)

// Controller is created once per page and owns the wizard state for it.
type Controller struct {
	doc      *dom.Document
	machine  *wizard.Machine
	logger   *zap.Logger
	recorder Recorder

	total        int
	requiredIDs  []string
	conditionals map[int][]wizard.Conditional
	pulseDelay   time.Duration

	initialized    bool
	taxSyncOn      bool
	postedTaxpayer *postedTaxpayer
}

// New builds a controller for doc positioned at step 1. Call Init to attach
// listeners and render the initial state.
func New(doc *dom.Document, opts ...Option) (*Controller, error) {
	if doc == nil || doc.Root() == nil {
		return nil, ErrNilDocument
	}

	c := &Controller{
		doc:         doc,
		logger:      zap.NewNop(),
		recorder:    nopRecorder{},
		total:       DefaultTotalSteps,
		requiredIDs: append([]string(nil), DefaultRequiredIDs...),
		conditionals: map[int][]wizard.Conditional{
			3: {{
				Indicator: IDSpecialTaxpayerSelect,
				Equals:    SpecialTaxpayerYes,
				Field:     IDSpecialTaxpayerNumber,
			}},
		},
		pulseDelay: 500 * time.Millisecond,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}

	machine, err := wizard.New(c.total)
	if err != nil {
		return nil, fmt.Errorf("onboarding: %w", err)
	}
	c.machine = machine
	c.logger = c.logger.Named("onboarding")
	return c, nil
}

// Mount builds a controller and runs Init.
func Mount(doc *dom.Document, opts ...Option) (*Controller, error) {
	c, err := New(doc, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Init(); err != nil {
		return nil, err
	}
	return c, nil
}

// Init renders the current step, attaches listeners and surfaces errors that
// were rendered by the server. It runs once; later calls are no-ops.
func (c *Controller) Init() error {
	if c.initialized {
		return nil
	}
	if err := c.ShowStep(c.machine.Current()); err != nil {
		return err
	}
	c.bindEvents()
	c.setupFieldValidation()
	c.setupSpecialTaxpayer()
	c.HandleExistingErrors()
	c.initialized = true
	return nil
}

// Document returns the document the controller drives.
func (c *Controller) Document() *dom.Document {
	return c.doc
}

// Current returns the active step.
func (c *Controller) Current() int {
	return c.machine.Current()
}

// State returns a snapshot of the wizard state.
func (c *Controller) State() wizard.State {
	return c.machine.State()
}

// ShowStep activates step and its progress marker, marks earlier markers as
// completed and toggles the navigation controls.
func (c *Controller) ShowStep(step int) error {
	for _, el := range c.doc.ByClass(ClassFormStep) {
		el.RemoveClass(ClassActive)
	}
	for _, el := range c.doc.ByClass(ClassStepMarker) {
		el.RemoveClass(ClassActive, ClassCompleted)
	}

	container := c.stepContainer(step)
	if container == nil {
		return fmt.Errorf("%w: %d", ErrMissingStep, step)
	}
	container.AddClass(ClassActive)

	for i := 1; i <= c.machine.Total(); i++ {
		marker := c.stepMarker(i)
		if marker == nil {
			continue
		}
		switch wizard.MarkerFor(i, step) {
		case wizard.MarkerCompleted:
			marker.AddClass(ClassCompleted)
		case wizard.MarkerActive:
			marker.AddClass(ClassActive)
		}
	}

	c.updateNavigation(step)
	if mirror := c.doc.ByID(IDWizardStep); mirror != nil {
		mirror.SetValue(strconv.Itoa(step))
	}
	return nil
}

func (c *Controller) updateNavigation(step int) {
	controls := c.machine.Controls(step)
	setDisplay(c.doc.ByID(IDPrevButton), controls.Prev)
	setDisplay(c.doc.ByID(IDNextButton), controls.Next)
	setDisplay(c.doc.ByID(IDSubmitButton), controls.Submit)
}

// ValidateStep checks the required controls of step plus its conditional
// rules. Stale errors on the step are cleared, each failing field group is
// flagged and the first failing field is focused and scrolled into view.
func (c *Controller) ValidateStep(step int) bool {
	container := c.stepContainer(step)
	if container == nil {
		c.logger.Warn("validate: step container missing", zap.Int("step", step))
		return false
	}

	for _, group := range container.ByClass(ClassFieldGroup) {
		group.RemoveClass(ClassHasError)
	}

	src := newDocumentSource(c.doc)
	desc := wizard.Step{Number: step, Conditionals: c.conditionals[step]}
	for _, el := range container.QueryAll(".//*[(self::input or self::select) and @required]") {
		desc.Fields = append(desc.Fields, wizard.Field{Name: src.track(el), Required: true})
	}

	result := wizard.Validate(desc, src)
	if result.Valid {
		return true
	}

	var first *dom.Element
	for _, issue := range result.Issues {
		el := src.element(issue.Field)
		group := el.Closest(ClassFieldGroup)
		if group == nil {
			continue
		}
		group.AddClass(ClassHasError)
		if first == nil {
			first = el
		}
	}
	if first != nil {
		first.Focus()
		first.ScrollIntoView()
	}

	c.recorder.ValidationFailed(step, len(result.Issues))
	c.logger.Debug("step invalid",
		zap.Int("step", step),
		zap.Strings("fields", result.Fields()),
	)
	return false
}

// Next validates the current step and advances when it passes.
func (c *Controller) Next() bool {
	from := c.machine.Current()
	if !c.machine.Next(c.ValidateStep) {
		return false
	}
	c.moved(from)
	return true
}

// Prev moves back one step.
func (c *Controller) Prev() bool {
	from := c.machine.Current()
	if !c.machine.Prev() {
		return false
	}
	c.moved(from)
	return true
}

// Restore jumps to a step posted back by a client that cannot run the
// wizard itself. No validation runs.
func (c *Controller) Restore(step int) error {
	from := c.machine.Current()
	if err := c.machine.GoTo(step); err != nil {
		return fmt.Errorf("onboarding: restore: %w", err)
	}
	if from == step {
		return nil
	}
	c.moved(from)
	return nil
}

// RestoreRaw parses a posted step value and restores it; malformed values
// leave the wizard where it is.
func (c *Controller) RestoreRaw(raw string) error {
	if raw == "" {
		return nil
	}
	step, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("onboarding: restore: invalid step %q", raw)
	}
	return c.Restore(step)
}

func (c *Controller) moved(from int) {
	to := c.machine.Current()
	if err := c.ShowStep(to); err != nil {
		c.logger.Warn("show step", zap.Int("step", to), zap.Error(err))
	}
	c.recorder.StepChanged(from, to)
}

func (c *Controller) bindEvents() {
	if next := c.doc.ByID(IDNextButton); next != nil {
		next.On(dom.EventClick, func(*dom.Event) { c.Next() })
	}
	if prev := c.doc.ByID(IDPrevButton); prev != nil {
		prev.On(dom.EventClick, func(*dom.Event) { c.Prev() })
	}
	if form := c.form(); form != nil {
		form.On(dom.EventSubmit, c.HandleFormSubmission)
	}
}

func (c *Controller) stepContainer(step int) *dom.Element {
	el, err := c.doc.Query(stepXPath(ClassFormStep, step))
	if err != nil {
		return nil
	}
	return el
}

func (c *Controller) stepMarker(step int) *dom.Element {
	el, err := c.doc.Query(stepXPath(ClassStepMarker, step))
	if err != nil {
		return nil
	}
	return el
}

func (c *Controller) form() *dom.Element {
	return c.doc.FirstByClass(ClassForm)
}

func stepXPath(class string, step int) string {
	return fmt.Sprintf("//*%s[@%s='%d']", dom.ClassPredicate(class), AttrStep, step)
}

func setDisplay(el *dom.Element, visible bool) {
	if el == nil {
		return
	}
	if visible {
		el.SetStyle("display", displayShown)
		return
	}
	el.SetStyle("display", displayHidden)
}
