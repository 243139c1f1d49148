package registration

import (
	"net/http"
	"time"

	"github.com/goliatone/go-onboarding/internal/web"
	"github.com/goliatone/go-onboarding/pkg/company"
	"github.com/goliatone/go-onboarding/pkg/onboarding"
	"github.com/goliatone/go-onboarding/pkg/render"
	"github.com/goliatone/go-onboarding/pkg/wizard"
	"go.uber.org/zap"
)

type GuardFunc func(r *http.Request) error

type (
	HTTPError   = web.HTTPError
	StatusError = web.StatusError
	Mux         = web.Mux
)

// Recorder receives wizard activity and registration outcomes.
type Recorder interface {
	onboarding.Recorder
	Registered(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) StepChanged(int, int)      {}
func (nopRecorder) ValidationFailed(int, int) {}
func (nopRecorder) Submitted()                {}
func (nopRecorder) Registered(string)         {}

const (
	DefaultRoutePath      = "/onboarding/"
	DefaultSuccessPath    = "/companies/"
	DefaultCSRFCookie     = "csrftoken"
	DefaultMaxUploadBytes = 10 << 20
	DefaultPulseDelay     = 500 * time.Millisecond
)

type Options struct {
	RoutePath      string
	SuccessPath    string
	CSRFCookie     string
	MaxUploadBytes int64
	PulseDelay     time.Duration
	Guard          GuardFunc

	Steps       []wizard.Step
	Renderer    render.Renderer
	Repository  company.Repository
	Constraints company.Constraints
	Logger      *zap.Logger
	Recorder    Recorder
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:      DefaultRoutePath,
		SuccessPath:    DefaultSuccessPath,
		CSRFCookie:     DefaultCSRFCookie,
		MaxUploadBytes: DefaultMaxUploadBytes,
		PulseDelay:     DefaultPulseDelay,
	}
}

// NewOptions applies fns over the defaults. Renderer and Constraints have no
// default; HandlerWithOptions reports their absence on first use.
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
	if opts.SuccessPath == "" {
		opts.SuccessPath = DefaultSuccessPath
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.PulseDelay < 0 {
		opts.PulseDelay = DefaultPulseDelay
	}
	if len(opts.Steps) == 0 {
		opts.Steps = onboarding.Steps()
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

// WithSuccessPath sets where a saved registration redirects to.
func WithSuccessPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SuccessPath = path
	}
}

// WithCSRFCookie names the cookie whose token is echoed into the form.
func WithCSRFCookie(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CSRFCookie = name
	}
}

func WithMaxUploadBytes(n int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxUploadBytes = n
	}
}

func WithPulseDelay(delay time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.PulseDelay = delay
	}
}

// WithGuard rejects POST requests for which guard returns an error.
func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithSteps(steps []wizard.Step) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Steps = steps
	}
}

func WithRenderer(renderer render.Renderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = renderer
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

func WithConstraints(constraints company.Constraints) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Constraints = constraints
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
