package registration

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-onboarding/internal/web"
	"github.com/goliatone/go-onboarding/pkg/company"
	"github.com/goliatone/go-onboarding/pkg/dom"
	"github.com/goliatone/go-onboarding/pkg/onboarding"
	"github.com/goliatone/go-onboarding/pkg/render"
	"go.uber.org/zap"
)

// MessageDuplicateRUC is shown under the RUC field when the company exists.
const MessageDuplicateRUC = "Ya existe una compañía registrada con este RUC."

// Values of the nav button pair. Any other value submits the form.
const (
	NavField = "nav"
	NavPrev  = "prev"
	NavNext  = "next"
)

// Outcomes reported to the Recorder.
const (
	OutcomeSaved     = "saved"
	OutcomeUpdated   = "updated"
	OutcomeInvalid   = "invalid"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
	OutcomeDenied    = "denied"
)

// ErrNoRenderer is returned when the handler has no page renderer.
var ErrNoRenderer = errors.New("registration: renderer is required")

// Handler builds a net/http handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return HandlerWithOptions(opts)
}

// HandlerWithOptions builds a net/http handler from a pre-constructed Options
// value.
func HandlerWithOptions(opts Options) http.Handler {
	h := newHandler(opts)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.URL.Path != h.root && r.URL.Path != strings.TrimSuffix(h.root, "/") {
			http.NotFound(w, r)
			return
		}

		target := record{action: h.root}
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			h.serveForm(w, r, target)
		case http.MethodPost:
			h.servePost(w, r, target)
		default:
			web.MethodNotAllowed(w, http.MethodGet, http.MethodHead, http.MethodPost)
		}
	})
}

// EditHandler builds the handler that edits a stored company. The company
// id is read from r.PathValue("id"), set either by a ServeMux pattern such
// as "/companies/update/{id}/" or by the companies listing handler.
func EditHandler(fns ...OptionFn) http.Handler {
	return EditHandlerWithOptions(NewOptions(fns...))
}

// EditHandlerWithOptions is EditHandler with a pre-constructed Options value.
// The page is prefilled from the repository and a valid submission replaces
// the stored record, keeping its owner.
func EditHandlerWithOptions(opts Options) http.Handler {
	h := newHandler(opts)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		id, ok := web.ParseID(r.PathValue(web.IDParam))
		if !ok {
			http.NotFound(w, r)
			return
		}
		existing, err := h.opts.Repository.Get(r.Context(), id)
		if errors.Is(err, company.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			h.fail(w, fmt.Errorf("registration: load company %d: %w", id, err))
			return
		}

		target := record{existing: existing, action: r.URL.Path}
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			h.serveForm(w, r, target)
		case http.MethodPost:
			h.servePost(w, r, target)
		default:
			web.MethodNotAllowed(w, http.MethodGet, http.MethodHead, http.MethodPost)
		}
	})
}

func newHandler(opts Options) *handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return &handler{
		opts:   opts,
		logger: opts.Logger.Named("registration"),
		root:   web.NormaliseRoute(opts.RoutePath),
	}
}

type handler struct {
	opts   Options
	logger *zap.Logger
	root   string
}

// record is the company a page works on. A zero existing.ID registers a new
// company.
type record struct {
	existing company.Company
	action   string
}

func (t record) editing() bool {
	return t.existing.ID != 0
}

type pageState struct {
	action     string
	values     url.Values
	errors     map[string][]string
	formErrors []string
	token      string
}

func (h *handler) serveForm(w http.ResponseWriter, r *http.Request, target record) {
	state := pageState{action: target.action, token: h.cookieToken(r)}
	if target.editing() {
		state.values = formValues(target.existing.Values())
	}
	ctrl, err := h.mount(r, state)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.write(w, r, ctrl)
}

func (h *handler) servePost(w http.ResponseWriter, r *http.Request, target record) {
	if h.opts.Guard != nil {
		if err := h.opts.Guard(r); err != nil {
			h.opts.Recorder.Registered(OutcomeDenied)
			h.logger.Debug("request rejected", zap.Error(err))
			web.WriteGuardError(w, err)
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.logger.Debug("parse form", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	posted := r.PostForm
	token := posted.Get(render.CSRFFieldName)
	ctrl, err := h.mount(r, pageState{action: target.action, values: posted, token: token})
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := ctrl.RestoreRaw(posted.Get(render.StepFieldName)); err != nil {
		h.logger.Debug("restore step", zap.Error(err))
	}

	switch posted.Get(NavField) {
	case NavPrev:
		click(ctrl.Document(), onboarding.IDPrevButton)
		h.write(w, r, ctrl)
	case NavNext:
		click(ctrl.Document(), onboarding.IDNextButton)
		h.write(w, r, ctrl)
	default:
		h.submit(w, r, ctrl, target, token)
	}
}

// submit syncs the derived fields, validates the posted company and saves
// it. Invalid submissions are rendered again with inline errors; the
// controller then opens the step holding the first of them.
func (h *handler) submit(w http.ResponseWriter, r *http.Request, ctrl *onboarding.Controller, target record, token string) {
	ctrl.Submit()
	values := ctrl.Values()
	for name, filename := range uploadedFilenames(r) {
		values[name] = filename
	}

	if errs := h.opts.Constraints.Validate(values); len(errs) > 0 {
		h.opts.Recorder.Registered(OutcomeInvalid)
		h.logger.Debug("registration invalid", zap.Strings("fields", errs.Fields()))
		h.rerender(w, r, pageState{action: target.action, values: formValues(values), errors: errs, token: token})
		return
	}

	item := company.FromValues(values).WithDefaults()
	item.ID = target.existing.ID
	item.Owner = target.existing.Owner

	saved, err := h.opts.Repository.Save(r.Context(), item)
	switch {
	case errors.Is(err, company.ErrDuplicateRUC):
		h.opts.Recorder.Registered(OutcomeDuplicate)
		h.rerender(w, r, pageState{
			action: target.action,
			values: formValues(values),
			errors: map[string][]string{"ruc": {MessageDuplicateRUC}},
			token:  token,
		})
		return
	case err != nil:
		h.opts.Recorder.Registered(OutcomeError)
		h.fail(w, fmt.Errorf("registration: save: %w", err))
		return
	}

	outcome, msg := OutcomeSaved, "company registered"
	if target.editing() {
		outcome, msg = OutcomeUpdated, "company updated"
	}
	h.opts.Recorder.Registered(outcome)
	h.logger.Info(msg,
		zap.Int64("id", saved.ID),
		zap.String("ruc", saved.RUC),
		zap.Int("tax", saved.Tax),
	)
	http.Redirect(w, r, h.opts.SuccessPath, http.StatusSeeOther)
}

func (h *handler) rerender(w http.ResponseWriter, r *http.Request, state pageState) {
	ctrl, err := h.mount(r, state)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.write(w, r, ctrl)
}

// mount renders the page and attaches a controller to it. Posted values are
// filled in before Init so the special taxpayer controls reconcile with them.
func (h *handler) mount(r *http.Request, state pageState) (*onboarding.Controller, error) {
	if h.opts.Renderer == nil {
		return nil, ErrNoRenderer
	}

	hidden := []render.HiddenField{render.StepField(1)}
	if state.token != "" {
		hidden = append(hidden, render.CSRFToken(state.token))
	}
	action := state.action
	if action == "" {
		action = h.root
	}
	body, err := h.opts.Renderer.Render(r.Context(), h.opts.Steps, render.RenderOptions{
		Action:     action,
		Errors:     state.errors,
		FormErrors: state.formErrors,
		Hidden:     hidden,
	})
	if err != nil {
		return nil, fmt.Errorf("registration: render: %w", err)
	}

	doc, err := dom.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("registration: parse page: %w", err)
	}
	ctrl, err := onboarding.New(doc,
		onboarding.WithLogger(h.logger),
		onboarding.WithRecorder(h.opts.Recorder),
		onboarding.WithPulseDelay(h.opts.PulseDelay),
	)
	if err != nil {
		return nil, err
	}
	ctrl.Fill(state.values)
	if err := ctrl.Init(); err != nil {
		return nil, fmt.Errorf("registration: init wizard: %w", err)
	}
	return ctrl, nil
}

// write flushes pending page tasks so time based effects land in the markup,
// then serialises the document.
func (h *handler) write(w http.ResponseWriter, r *http.Request, ctrl *onboarding.Controller) {
	doc := ctrl.Document()
	doc.Tasks().Drain()

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		h.fail(w, fmt.Errorf("registration: serialise page: %w", err))
		return
	}

	web.WriteHTML(w, r, buf.Bytes())
}

func (h *handler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("registration page", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *handler) cookieToken(r *http.Request) string {
	if h.opts.CSRFCookie == "" {
		return ""
	}
	c, err := r.Cookie(h.opts.CSRFCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

func click(doc *dom.Document, id string) {
	if el := doc.ByID(id); el != nil {
		el.Dispatch(dom.EventClick)
	}
}

func uploadedFilenames(r *http.Request) map[string]string {
	out := make(map[string]string)
	if r.MultipartForm == nil {
		return out
	}
	for name, files := range r.MultipartForm.File {
		if len(files) == 0 || files[0] == nil {
			continue
		}
		out[name] = files[0].Filename
	}
	return out
}

func formValues(values map[string]string) url.Values {
	out := make(url.Values, len(values))
	for name, value := range values {
		out.Set(name, value)
	}
	return out
}
