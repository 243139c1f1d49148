package companies

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goliatone/go-onboarding/pkg/company"
	"github.com/goliatone/go-onboarding/pkg/render"
	"github.com/google/go-cmp/cmp"
)

type observed struct {
	calls [][2]string
}

func (o *observed) Observe(action, outcome string) {
	o.calls = append(o.calls, [2]string{action, outcome})
}

func seededStore() *company.MemoryStore {
	return company.NewMemoryStore(
		company.Company{ID: 1, RUC: "1790012345001", CompanyName: "Comercial Andina S.A.", CommercialName: "Andina", Email: "facturacion@andina.ec", Owner: company.Owner{Name: "María Pérez", Username: "mperez"}},
		company.Company{ID: 2, RUC: "0991234567001", CompanyName: "Distribuidora Costa", CommercialName: "Costa", Email: "ventas@costa.ec"},
	)
}

// postForm sends token in the CSRF header and in the matching cookie.
func postForm(target string, form url.Values, token string) *http.Request {
	req := rawPost(target, form)
	if token != "" {
		req.Header.Set(DefaultCSRFHeader, token)
		req.AddCookie(&http.Cookie{Name: DefaultCSRFCookie, Value: token})
	}
	return req
}

func rawPost(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandler_SearchReturnsRows(t *testing.T) {
	rec := &observed{}
	h := NewHandler(WithRepository(seededStore()), WithRecorder(rec))

	res := httptest.NewRecorder()
	h.ServeHTTP(res, postForm("/companies/", url.Values{"action": {"search"}}, "token"))

	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.Code)
	}
	if ct := res.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}

	var rows []company.Row
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	want := []company.Row{
		{ID: 1, RUC: "1790012345001", CompanyName: "Comercial Andina S.A.", CommercialName: "Andina", Email: "facturacion@andina.ec", OwnerName: "María Pérez", OwnerUsername: "mperez"},
		{ID: 2, RUC: "0991234567001", CompanyName: "Distribuidora Costa", CommercialName: "Costa", Email: "ventas@costa.ec"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][2]string{{ActionSearch, OutcomeOK}}, rec.calls); diff != "" {
		t.Fatalf("recorded calls mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_EmptyRepositoryReturnsEmptyArray(t *testing.T) {
	h := NewHandler(WithRepository(company.NewMemoryStore()))

	res := httptest.NewRecorder()
	h.ServeHTTP(res, postForm("/companies/", url.Values{"action": {"search"}}, "token"))

	if got := strings.TrimSpace(res.Body.String()); got != "[]" {
		t.Fatalf("expected empty JSON array, got %q", got)
	}
}

func TestHandler_UnknownActionReturnsError(t *testing.T) {
	h := NewHandler(WithRepository(seededStore()))

	for _, action := range []string{"", "add"} {
		res := httptest.NewRecorder()
		h.ServeHTTP(res, postForm("/companies/", url.Values{"action": {action}}, "token"))

		if res.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", res.Code)
		}
		var payload map[string]string
		if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if payload["error"] != MessageNoAction {
			t.Fatalf("unexpected payload for action %q: %#v", action, payload)
		}
	}
}

func TestHandler_RequiresCSRFHeader(t *testing.T) {
	rec := &observed{}
	h := NewHandler(WithRepository(seededStore()), WithRecorder(rec))

	res := httptest.NewRecorder()
	h.ServeHTTP(res, postForm("/companies/", url.Values{"action": {"search"}}, ""))
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", res.Code)
	}
	if diff := cmp.Diff([][2]string{{ActionSearch, OutcomeDenied}}, rec.calls); diff != "" {
		t.Fatalf("recorded calls mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_CSRFCookieMustMatch(t *testing.T) {
	h := NewHandler(WithRepository(seededStore()))

	cases := []struct {
		name   string
		header string
		field  string
		cookie string
		want   int
	}{
		{name: "header mismatch", header: "abc", cookie: "xyz", want: http.StatusForbidden},
		{name: "header without cookie", header: "abc", want: http.StatusForbidden},
		{name: "field without cookie", field: "abc", want: http.StatusForbidden},
		{name: "header match", header: "abc", cookie: "abc", want: http.StatusOK},
		{name: "field match", field: "abc", cookie: "abc", want: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := url.Values{"action": {"search"}}
			if tc.field != "" {
				form.Set(render.CSRFFieldName, tc.field)
			}
			req := rawPost("/companies/", form)
			if tc.header != "" {
				req.Header.Set(DefaultCSRFHeader, tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookie, Value: tc.cookie})
			}
			res := httptest.NewRecorder()
			h.ServeHTTP(res, req)
			if res.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, res.Code)
			}
		})
	}
}

func TestCSRFGuard_MissingCookie(t *testing.T) {
	guard := CSRFGuard(DefaultCSRFHeader, DefaultCSRFCookie)
	req := rawPost("/companies/", url.Values{})
	req.Header.Set(DefaultCSRFHeader, "any-value")

	err := guard(req)
	if !errors.Is(err, ErrMissingCookie) {
		t.Fatalf("expected ErrMissingCookie, got %v", err)
	}
	var status StatusError
	if !errors.As(err, &status) || status.StatusCode() != http.StatusForbidden {
		t.Fatalf("expected a 403 status error, got %#v", err)
	}
}

func TestCSRFGuard_WithoutCookieName(t *testing.T) {
	guard := CSRFGuard(DefaultCSRFHeader, "")
	req := rawPost("/companies/", url.Values{})
	req.Header.Set(DefaultCSRFHeader, "abc")
	if err := guard(req); err != nil {
		t.Fatalf("expected header alone to pass without a cookie name, got %v", err)
	}
	if err := guard(rawPost("/companies/", url.Values{})); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestHandler_CustomGuardStatus(t *testing.T) {
	h := NewHandler(WithGuard(func(*http.Request) error {
		return StatusError{Code: http.StatusUnauthorized, Err: errors.New("login required")}
	}))

	res := httptest.NewRecorder()
	h.ServeHTTP(res, postForm("/companies/", url.Values{"action": {"search"}}, "token"))
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", res.Code)
	}
}

func TestHandler_RejectsNonPost(t *testing.T) {
	h := NewHandler()

	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/companies/", nil))
	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", res.Code)
	}
	if allow := res.Header().Get("Allow"); allow != http.MethodPost {
		t.Fatalf("unexpected Allow header %q", allow)
	}
}

func TestHandler_GetDelegatesToPage(t *testing.T) {
	page := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("listing"))
	})
	h := NewHandler(WithPage(page))

	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/companies/", nil))
	if res.Code != http.StatusOK || res.Body.String() != "listing" {
		t.Fatalf("expected page body, got %d %q", res.Code, res.Body.String())
	}

	res = httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodPut, "/companies/", nil))
	if allow := res.Header().Get("Allow"); allow != "GET, HEAD, POST" {
		t.Fatalf("unexpected Allow header %q", allow)
	}
}

func TestHandler_Delete(t *testing.T) {
	store := seededStore()
	rec := &observed{}
	h := NewHandler(WithRepository(store), WithRecorder(rec))

	res := httptest.NewRecorder()
	h.ServeHTTP(res, postForm("/companies/delete/1/", url.Values{}, "token"))
	if got := strings.TrimSpace(res.Body.String()); got != "{}" {
		t.Fatalf("expected empty object, got %q", got)
	}
	if _, err := store.Get(context.Background(), 1); !errors.Is(err, company.ErrNotFound) {
		t.Fatalf("expected company 1 to be deleted, got %v", err)
	}

	res = httptest.NewRecorder()
	h.ServeHTTP(res, postForm("/companies/delete/1/", url.Values{}, "token"))
	var payload map[string]string
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["error"] == "" {
		t.Fatalf("expected error payload on second delete")
	}

	res = httptest.NewRecorder()
	h.ServeHTTP(res, postForm("/companies/delete/abc/", url.Values{}, "token"))
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", res.Code)
	}

	want := [][2]string{{ActionDelete, OutcomeOK}, {ActionDelete, OutcomeError}}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Fatalf("recorded calls mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_UnknownSubpath(t *testing.T) {
	h := NewHandler()
	for _, target := range []string{"/companies/update/1/", "/companies/other/"} {
		res := httptest.NewRecorder()
		h.ServeHTTP(res, postForm(target, url.Values{}, "token"))
		if res.Code != http.StatusNotFound {
			t.Fatalf("%s: expected status 404, got %d", target, res.Code)
		}
	}
}

func TestHandler_UpdateDelegatesToEditor(t *testing.T) {
	var gotID, gotMethod string
	editor := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.PathValue("id")
		gotMethod = r.Method
		_, _ = w.Write([]byte("edit"))
	})
	h := NewHandler(WithRepository(seededStore()), WithEditor(editor))

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		res := httptest.NewRecorder()
		h.ServeHTTP(res, httptest.NewRequest(method, "/companies/update/2/", nil))
		if res.Code != http.StatusOK || res.Body.String() != "edit" {
			t.Fatalf("%s: expected editor response, got %d %q", method, res.Code, res.Body.String())
		}
		if gotID != "2" || gotMethod != method {
			t.Fatalf("%s: editor saw id=%q method=%q", method, gotID, gotMethod)
		}
	}

	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/companies/update/zero/", nil))
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for malformed id, got %d", res.Code)
	}
}

type deleteRendererFunc func(row company.Row, options render.DeleteOptions) ([]byte, error)

func (f deleteRendererFunc) RenderDelete(_ context.Context, row company.Row, options render.DeleteOptions) ([]byte, error) {
	return f(row, options)
}

func TestHandler_DeleteConfirmation(t *testing.T) {
	var gotRow company.Row
	var gotOptions render.DeleteOptions
	renderer := deleteRendererFunc(func(row company.Row, options render.DeleteOptions) ([]byte, error) {
		gotRow = row
		gotOptions = options
		return []byte("<form></form>"), nil
	})
	store := seededStore()
	h := NewHandler(WithRepository(store), WithDeleteRenderer(renderer))

	req := httptest.NewRequest(http.MethodGet, "/companies/delete/1/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookie, Value: "cookie-token"})
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	if res.Code != http.StatusOK || res.Body.String() != "<form></form>" {
		t.Fatalf("expected confirmation page, got %d %q", res.Code, res.Body.String())
	}
	if gotRow.ID != 1 || gotRow.RUC != "1790012345001" {
		t.Fatalf("unexpected row %+v", gotRow)
	}
	want := render.DeleteOptions{Action: "/companies/delete/1/", ListPath: "/companies/", CSRFToken: "cookie-token"}
	if diff := cmp.Diff(want, gotOptions); diff != "" {
		t.Fatalf("delete options mismatch (-want +got):\n%s", diff)
	}
	if _, err := store.Get(context.Background(), 1); err != nil {
		t.Fatalf("GET must not delete: %v", err)
	}

	res = httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/companies/delete/9/", nil))
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown company, got %d", res.Code)
	}

	res = httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodPut, "/companies/delete/1/", nil))
	if allow := res.Header().Get("Allow"); allow != "GET, HEAD, POST" {
		t.Fatalf("unexpected Allow header %q", allow)
	}
}

func TestHandler_DeleteFromConfirmationForm(t *testing.T) {
	store := seededStore()
	rec := &observed{}
	h := NewHandler(WithRepository(store), WithRecorder(rec))

	req := rawPost("/companies/delete/2/", url.Values{render.CSRFFieldName: {"tok"}})
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookie, Value: "tok"})
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", res.Code)
	}
	if loc := res.Header().Get("Location"); loc != "/companies/" {
		t.Fatalf("unexpected redirect %q", loc)
	}
	if _, err := store.Get(context.Background(), 2); !errors.Is(err, company.ErrNotFound) {
		t.Fatalf("expected company 2 to be deleted, got %v", err)
	}

	req = rawPost("/companies/delete/2/", url.Values{render.CSRFFieldName: {"tok"}})
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookie, Value: "tok"})
	res = httptest.NewRecorder()
	h.ServeHTTP(res, req)
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 on second delete, got %d", res.Code)
	}

	want := [][2]string{{ActionDelete, OutcomeOK}, {ActionDelete, OutcomeError}}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Fatalf("recorded calls mismatch (-want +got):\n%s", diff)
	}
}

type listRendererFunc func(rows []company.Row, options render.ListOptions) ([]byte, error)

func (f listRendererFunc) RenderList(_ context.Context, rows []company.Row, options render.ListOptions) ([]byte, error) {
	return f(rows, options)
}

func TestHandler_GetRendersListing(t *testing.T) {
	var gotRows []company.Row
	var gotOptions render.ListOptions
	renderer := listRendererFunc(func(rows []company.Row, options render.ListOptions) ([]byte, error) {
		gotRows = rows
		gotOptions = options
		return []byte("<table></table>"), nil
	})
	h := NewHandler(WithRepository(seededStore()), WithListRenderer(renderer))

	req := httptest.NewRequest(http.MethodGet, "/companies/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookie, Value: "cookie-token"})
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.Code)
	}
	if ct := res.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected HTML content-type, got %q", ct)
	}
	if res.Body.String() != "<table></table>" {
		t.Fatalf("unexpected body %q", res.Body.String())
	}
	if len(gotRows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(gotRows))
	}
	want := render.ListOptions{Path: "/companies/", CSRFToken: "cookie-token"}
	if diff := cmp.Diff(want, gotOptions); diff != "" {
		t.Fatalf("list options mismatch (-want +got):\n%s", diff)
	}

	res = httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodPut, "/companies/", nil))
	if allow := res.Header().Get("Allow"); allow != "GET, HEAD, POST" {
		t.Fatalf("unexpected Allow header %q", allow)
	}
}

func TestHandler_ListingRenderFailure(t *testing.T) {
	renderer := listRendererFunc(func([]company.Row, render.ListOptions) ([]byte, error) {
		return nil, errors.New("boom")
	})
	h := NewHandler(WithListRenderer(renderer))

	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/companies/", nil))
	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", res.Code)
	}
}
