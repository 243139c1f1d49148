package companies

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-onboarding/internal/web"
	"github.com/goliatone/go-onboarding/pkg/company"
	"github.com/goliatone/go-onboarding/pkg/render"
	"go.uber.org/zap"
)

// MessageNoAction is returned for an unknown action.
const MessageNoAction = "No ha seleccionado ninguna opción"

// Actions reported to the Recorder.
const (
	ActionSearch = "search"
	ActionDelete = "delete"
)

// Outcomes reported to the Recorder.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeDenied  = "denied"
	OutcomeUnknown = "unknown"
)

const (
	updatePrefix = "update/"
	deletePrefix = "delete/"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Handler builds a net/http handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return HandlerWithOptions(opts)
}

// HandlerWithOptions builds a net/http handler from a pre-constructed Options
// value. The handler serves the route path itself plus the update/<id>/ and
// delete/<id>/ subpaths below it.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	h := &handler{
		opts:   opts,
		logger: opts.Logger.Named("companies"),
		root:   web.NormaliseRoute(opts.RoutePath),
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		rest, ok := web.RelativePath(r.URL.Path, h.root)
		if !ok {
			http.NotFound(w, r)
			return
		}
		if raw, ok := strings.CutPrefix(rest, updatePrefix); ok {
			h.serveUpdate(w, r, raw)
			return
		}

		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			switch {
			case rest == "" && opts.Page != nil:
				opts.Page.ServeHTTP(w, r)
				return
			case rest == "" && opts.ListRenderer != nil:
				h.servePage(w, r)
				return
			case strings.HasPrefix(rest, deletePrefix) && opts.DeleteRenderer != nil:
				h.serveConfirmDelete(w, r, strings.TrimPrefix(rest, deletePrefix))
				return
			}
		}
		if r.Method != http.MethodPost {
			if h.hasPage(rest) {
				web.MethodNotAllowed(w, http.MethodGet, http.MethodHead, http.MethodPost)
				return
			}
			web.MethodNotAllowed(w, http.MethodPost)
			return
		}

		if err := opts.Guard(r); err != nil {
			opts.Recorder.Observe(r.FormValue(opts.ActionParam), OutcomeDenied)
			h.logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.Error(err))
			web.WriteGuardError(w, err)
			return
		}

		switch {
		case rest == "":
			h.handleAction(w, r)
		case strings.HasPrefix(rest, deletePrefix):
			h.handleDelete(w, r, strings.TrimPrefix(rest, deletePrefix))
		default:
			http.NotFound(w, r)
		}
	})
}

type handler struct {
	opts   Options
	logger *zap.Logger
	root   string
}

func (h *handler) hasPage(rest string) bool {
	if rest == "" {
		return h.opts.Page != nil || h.opts.ListRenderer != nil
	}
	return strings.HasPrefix(rest, deletePrefix) && h.opts.DeleteRenderer != nil
}

func (h *handler) handleAction(w http.ResponseWriter, r *http.Request) {
	action := r.FormValue(h.opts.ActionParam)
	if action != ActionSearch {
		h.opts.Recorder.Observe(action, OutcomeUnknown)
		writeJSON(w, errorResponse{Error: MessageNoAction})
		return
	}

	rows, err := company.Rows(r.Context(), h.opts.Repository)
	if err != nil {
		h.opts.Recorder.Observe(action, OutcomeError)
		h.logger.Error("search failed", zap.Error(err))
		writeJSON(w, errorResponse{Error: err.Error()})
		return
	}
	h.opts.Recorder.Observe(action, OutcomeOK)
	h.logger.Debug("search", zap.Int("rows", len(rows)))
	writeJSON(w, rows)
}

// handleDelete removes a company. Requests carrying the CSRF header get a
// JSON answer; plain form posts from the confirmation page are redirected to
// the listing.
func (h *handler) handleDelete(w http.ResponseWriter, r *http.Request, raw string) {
	id, ok := web.ParseID(raw)
	if !ok {
		http.NotFound(w, r)
		return
	}
	fromForm := r.Header.Get(h.opts.CSRFHeader) == ""

	if err := h.opts.Repository.Delete(r.Context(), id); err != nil {
		h.opts.Recorder.Observe(ActionDelete, OutcomeError)
		h.logger.Warn("delete failed", zap.Int64("id", id), zap.Error(err))
		switch {
		case !fromForm:
			writeJSON(w, errorResponse{Error: err.Error()})
		case errors.Is(err, company.ErrNotFound):
			http.NotFound(w, r)
		default:
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}
	h.opts.Recorder.Observe(ActionDelete, OutcomeOK)
	h.logger.Info("company deleted", zap.Int64("id", id))
	if fromForm {
		http.Redirect(w, r, h.root, http.StatusSeeOther)
		return
	}
	writeJSON(w, struct{}{})
}

func (h *handler) serveConfirmDelete(w http.ResponseWriter, r *http.Request, raw string) {
	id, ok := web.ParseID(raw)
	if !ok {
		http.NotFound(w, r)
		return
	}
	item, err := h.opts.Repository.Get(r.Context(), id)
	if errors.Is(err, company.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.fail(w, "load company", err)
		return
	}

	body, err := h.opts.DeleteRenderer.RenderDelete(r.Context(), item.Row(), render.DeleteOptions{
		Action:    r.URL.Path,
		ListPath:  h.root,
		CSRFToken: h.cookieToken(r),
	})
	if err != nil {
		h.fail(w, "render delete confirmation", err)
		return
	}
	web.WriteHTML(w, r, body)
}

// serveUpdate hands the edit page to the configured editor with the id set
// as a path value.
func (h *handler) serveUpdate(w http.ResponseWriter, r *http.Request, raw string) {
	id, ok := web.ParseID(raw)
	if h.opts.Editor == nil || !ok {
		http.NotFound(w, r)
		return
	}
	r.SetPathValue(web.IDParam, strconv.FormatInt(id, 10))
	h.opts.Editor.ServeHTTP(w, r)
}

func (h *handler) servePage(w http.ResponseWriter, r *http.Request) {
	rows, err := company.Rows(r.Context(), h.opts.Repository)
	if err != nil {
		h.fail(w, "list companies", err)
		return
	}

	body, err := h.opts.ListRenderer.RenderList(r.Context(), rows, render.ListOptions{
		Path:      h.root,
		CSRFToken: h.cookieToken(r),
	})
	if err != nil {
		h.fail(w, "render listing", err)
		return
	}
	web.WriteHTML(w, r, body)
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

func (h *handler) fail(w http.ResponseWriter, what string, err error) {
	h.logger.Error(what, zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	_ = enc.Encode(payload)
}
