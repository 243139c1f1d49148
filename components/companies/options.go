package companies

import (
	"net/http"

	"github.com/goliatone/go-onboarding/internal/web"
	"github.com/goliatone/go-onboarding/pkg/company"
	"github.com/goliatone/go-onboarding/pkg/render"
	"go.uber.org/zap"
)

type GuardFunc func(r *http.Request) error

type (
	HTTPError   = web.HTTPError
	StatusError = web.StatusError
	Mux         = web.Mux
)

// Recorder observes handled actions.
type Recorder interface {
	Observe(action, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) Observe(string, string) {}

const (
	DefaultRoutePath   = "/companies/"
	DefaultActionParam = "action"
	DefaultCSRFHeader  = "X-CSRFToken"
	DefaultCSRFCookie  = "csrftoken"
)

type Options struct {
	RoutePath   string
	ActionParam string
	CSRFHeader  string
	CSRFCookie  string
	Guard       GuardFunc

	Repository     company.Repository
	Page           http.Handler
	ListRenderer   render.ListRenderer
	DeleteRenderer render.DeleteRenderer
	Editor         http.Handler
	Logger         *zap.Logger
	Recorder       Recorder
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:   DefaultRoutePath,
		ActionParam: DefaultActionParam,
		CSRFHeader:  DefaultCSRFHeader,
		CSRFCookie:  DefaultCSRFCookie,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = DefaultRoutePath
	}
	if opts.ActionParam == "" {
		opts.ActionParam = DefaultActionParam
	}
	if opts.CSRFHeader == "" {
		opts.CSRFHeader = DefaultCSRFHeader
	}
	if opts.Guard == nil {
		opts.Guard = CSRFGuard(opts.CSRFHeader, opts.CSRFCookie)
	}
	if opts.Repository == nil {
		opts.Repository = company.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithActionParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ActionParam = name
	}
}

// WithCSRF sets the header and cookie compared by the default guard.
func WithCSRF(header, cookie string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CSRFHeader = header
		o.CSRFCookie = cookie
	}
}

// WithGuard replaces the CSRF guard.
func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithRepository(repo company.Repository) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Repository = repo
	}
}

// WithPage serves GET requests on the route path with h.
func WithPage(h http.Handler) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Page = h
	}
}

// WithListRenderer renders the listing page on GET when no Page handler is
// set. A renderer that also renders the delete confirmation is used for it
// unless one was set explicitly.
func WithListRenderer(renderer render.ListRenderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ListRenderer = renderer
		if confirm, ok := renderer.(render.DeleteRenderer); ok && o.DeleteRenderer == nil {
			o.DeleteRenderer = confirm
		}
	}
}

// WithDeleteRenderer serves GET <route>delete/<id>/ as a confirmation page.
func WithDeleteRenderer(renderer render.DeleteRenderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DeleteRenderer = renderer
	}
}

// WithEditor hands <route>update/<id>/ to h. The id is available to h as
// r.PathValue("id").
func WithEditor(h http.Handler) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Editor = h
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithRecorder(recorder Recorder) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Recorder = recorder
	}
}
