// Package web holds the net/http plumbing shared by the onboarding
// components.
package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// IDParam is the path value carrying a company id on update and delete
// routes.
const IDParam = "id"

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// WriteGuardError answers a rejected request with the status carried by err,
// or 403.
func WriteGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}

// WriteHTML writes body as a 200 HTML response. HEAD requests get the
// headers only.
func WriteHTML(w http.ResponseWriter, r *http.Request, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

// MethodNotAllowed answers 405 listing allowed in the Allow header.
func MethodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

// NormaliseRoute makes route absolute with a trailing slash.
func NormaliseRoute(route string) string {
	route = strings.TrimSpace(route)
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	if !strings.HasSuffix(route, "/") {
		route += "/"
	}
	return route
}

// MountPath joins basePath and routePath into a subtree pattern.
func MountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = NormaliseRoute(routePath)

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	return strings.TrimRight(basePath, "/") + routePath
}

// RelativePath strips root from path. The root without its trailing slash
// matches as well.
func RelativePath(path, root string) (string, bool) {
	if path == strings.TrimSuffix(root, "/") {
		return "", true
	}
	if !strings.HasPrefix(path, root) {
		return "", false
	}
	return strings.TrimPrefix(path, root), true
}

// ParseID reads a positive id from a path segment such as "12/".
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSuffix(raw, "/"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
