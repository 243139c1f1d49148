package registration

import (
	"fmt"

	"github.com/goliatone/go-onboarding/internal/web"
)

// MountPath returns the full mount path for the wizard under basePath.
func MountPath(basePath string, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return web.MountPath(basePath, opts.RoutePath)
}

// RegisterRoutes registers the wizard handler under basePath on mux.
func RegisterRoutes(mux web.Mux, basePath string, fns ...OptionFn) (string, error) {
	opts := NewOptions(fns...)
	return RegisterRoutesWithOptions(mux, basePath, opts)
}

// RegisterRoutesWithOptions registers a handler under basePath using a
// pre-built Options value.
func RegisterRoutesWithOptions(mux web.Mux, basePath string, opts Options) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("registration: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	pattern := web.MountPath(basePath, opts.RoutePath)
	opts.RoutePath = pattern
	mux.Handle(pattern, HandlerWithOptions(opts))
	return pattern, nil
}
