package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/goliatone/go-onboarding/pkg/company"
	"github.com/goliatone/go-onboarding/pkg/render"
	rendertemplate "github.com/goliatone/go-onboarding/pkg/render/template"
	"github.com/goliatone/go-onboarding/pkg/wizard"
)

const defaultTitle = "Registro de compañía"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	stylesheet       string
	inlineStyles     bool
	constraints      company.Constraints
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithStylesheet links an external stylesheet from every page.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		cfg.stylesheet = href
	}
}

// WithDefaultStyles inlines the embedded stylesheet.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// WithConstraints adds maxlength and accept attributes from the company
// field constraints.
func WithConstraints(constraints company.Constraints) Option {
	return func(cfg *config) {
		cfg.constraints = constraints
	}
}

type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	stylesheet  string
	styles      string
	constraints company.Constraints
}

var (
	_ render.Renderer       = (*Renderer)(nil)
	_ render.ListRenderer   = (*Renderer)(nil)
	_ render.DeleteRenderer = (*Renderer)(nil)
)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := rendertemplate.New(
			rendertemplate.WithFS(cfg.templateFS),
			rendertemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	r := &Renderer{
		templates:   renderer,
		stylesheet:  cfg.stylesheet,
		constraints: cfg.constraints,
	}
	if cfg.inlineStyles {
		r.styles = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the onboarding page for steps. Field errors naming no
// rendered field join the page level messages.
func (r *Renderer) Render(_ context.Context, steps []wizard.Step, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	mapped := render.MapErrorPayload(renderedNames(steps), options.Errors)
	builder := fieldBuilder{
		values:      options.Values,
		errors:      mapped.Fields,
		constraints: r.constraints,
	}

	page := pageView{
		Title:      options.Title,
		Action:     options.Action,
		Stylesheet: r.stylesheet,
		Styles:     r.styles,
		Hidden:     render.MergeHiddenFields(nil, options.Hidden...),
		FormErrors: render.MergeFormErrors(options.FormErrors, mapped.Form...),
	}
	if page.Title == "" {
		page.Title = defaultTitle
	}
	for _, step := range steps {
		page.Steps = append(page.Steps, builder.step(step))
	}

	result, err := r.templates.RenderTemplate(onboardingTemplate, map[string]any{
		"page": page,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

type rowView struct {
	ID             string `json:"id"`
	CommercialName string `json:"commercial_name"`
	CompanyName    string `json:"company_name"`
	RUC            string `json:"ruc"`
	Owner          string `json:"owner"`
	Email          string `json:"email"`
	Actions        string `json:"actions"`
}

type listView struct {
	Title      string    `json:"title"`
	Path       string    `json:"path"`
	CSRFToken  string    `json:"csrf_token"`
	Stylesheet string    `json:"stylesheet"`
	Styles     string    `json:"styles"`
	Rows       []rowView `json:"rows"`
}

// RenderList produces the companies listing page. Rows are rendered server
// side; the same rows are served by the search action.
func (r *Renderer) RenderList(_ context.Context, rows []company.Row, options render.ListOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	page := listView{
		Title:      options.Title,
		Path:       options.Path,
		CSRFToken:  options.CSRFToken,
		Stylesheet: r.stylesheet,
		Styles:     r.styles,
		Rows:       make([]rowView, 0, len(rows)),
	}
	if page.Title == "" {
		page.Title = "Compañías"
	}
	for _, row := range rows {
		page.Rows = append(page.Rows, rowView{
			ID:             strconv.FormatInt(row.ID, 10),
			CommercialName: row.CommercialName,
			CompanyName:    row.CompanyName,
			RUC:            row.RUC,
			Owner:          row.OwnerDisplay(),
			Email:          row.Email,
			Actions:        render.ActionsHTML(options.Path, row.ID),
		})
	}

	result, err := r.templates.RenderTemplate(companiesTemplate, map[string]any{
		"page": page,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render list template: %w", err)
	}
	return []byte(result), nil
}

type deleteView struct {
	Title      string  `json:"title"`
	Action     string  `json:"action"`
	ListPath   string  `json:"list_path"`
	CSRFToken  string  `json:"csrf_token"`
	Stylesheet string  `json:"stylesheet"`
	Styles     string  `json:"styles"`
	Row        rowView `json:"row"`
}

// RenderDelete produces the page confirming the removal of row. Its form
// posts the CSRF token as a field.
func (r *Renderer) RenderDelete(_ context.Context, row company.Row, options render.DeleteOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	page := deleteView{
		Title:      options.Title,
		Action:     options.Action,
		ListPath:   options.ListPath,
		CSRFToken:  options.CSRFToken,
		Stylesheet: r.stylesheet,
		Styles:     r.styles,
		Row: rowView{
			ID:             strconv.FormatInt(row.ID, 10),
			CommercialName: row.CommercialName,
			CompanyName:    row.CompanyName,
			RUC:            row.RUC,
		},
	}
	if page.Title == "" {
		page.Title = "Eliminar compañía"
	}

	result, err := r.templates.RenderTemplate(deleteTemplate, map[string]any{
		"page": page,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render delete template: %w", err)
	}
	return []byte(result), nil
}
