package registration

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goliatone/go-onboarding/pkg/company"
	"github.com/goliatone/go-onboarding/pkg/dom"
	"github.com/goliatone/go-onboarding/pkg/onboarding"
	"github.com/goliatone/go-onboarding/pkg/renderers/vanilla"
	"github.com/goliatone/go-onboarding/pkg/testsupport"
	"github.com/google/go-cmp/cmp"
)

type recorder struct {
	steps       [][2]int
	failures    []int
	submissions int
	outcomes    []string
}

func (r *recorder) StepChanged(from, to int)     { r.steps = append(r.steps, [2]int{from, to}) }
func (r *recorder) ValidationFailed(step, _ int) { r.failures = append(r.failures, step) }
func (r *recorder) Submitted()                   { r.submissions++ }
func (r *recorder) Registered(outcome string)    { r.outcomes = append(r.outcomes, outcome) }

func newTestHandler(t *testing.T, store company.Repository, fns ...OptionFn) (http.Handler, *recorder) {
	t.Helper()

	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	constraints, err := company.LoadConstraints(context.Background())
	if err != nil {
		t.Fatalf("load constraints: %v", err)
	}

	rec := &recorder{}
	base := []OptionFn{
		WithRenderer(renderer),
		WithConstraints(constraints),
		WithRepository(store),
		WithRecorder(rec),
	}
	return NewHandler(append(base, fns...)...), rec
}

func stepOne() url.Values {
	return url.Values{
		"ruc":             {"1790012345001"},
		"company_name":    {"Comercial Andina S.A."},
		"commercial_name": {"Andina"},
	}
}

func validForm() url.Values {
	form := stepOne()
	form.Set("main_address", "Av. Amazonas N24-03")
	form.Set("establishment_code", "001")
	form.Set("issuing_point_code", "002")
	form.Set("email", "facturacion@andina.ec")
	form.Set("is_special_taxpayer", "no")
	form.Set("special_taxpayer_number", "000")
	form.Set("special_taxpayer", "000")
	form.Set("wizard_step", "5")
	return form
}

func post(h http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/onboarding/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

func parse(t *testing.T, res *httptest.ResponseRecorder) *dom.Document {
	t.Helper()
	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", res.Code, res.Body.String())
	}
	return testsupport.MustParseDocument(t, res.Body.Bytes())
}

func activeStep(t *testing.T, doc *dom.Document) string {
	t.Helper()
	el, err := doc.Query("//*" + dom.ClassPredicate(onboarding.ClassFormStep) + dom.ClassPredicate(onboarding.ClassActive))
	if err != nil || el == nil {
		t.Fatalf("no active step: %v", err)
	}
	step, _ := el.Attr(onboarding.AttrStep)
	return step
}

func mustID(t *testing.T, doc *dom.Document, id string) *dom.Element {
	t.Helper()
	el := doc.ByID(id)
	if el == nil {
		t.Fatalf("element %q not found", id)
	}
	return el
}

func TestHandler_GetRendersFirstStep(t *testing.T) {
	h, _ := newTestHandler(t, company.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/onboarding/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookie, Value: "cookie-token"})
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	doc := parse(t, res)
	if got := activeStep(t, doc); got != "1" {
		t.Fatalf("expected step 1, got %s", got)
	}
	if got := mustID(t, doc, onboarding.IDWizardStep).Value(); got != "1" {
		t.Fatalf("wizard step = %q", got)
	}
	token, err := doc.Query("//input[@name='csrfmiddlewaretoken']")
	if err != nil || token == nil {
		t.Fatalf("expected csrf input: %v", err)
	}
	if token.Value() != "cookie-token" {
		t.Fatalf("csrf token = %q", token.Value())
	}
	if mustID(t, doc, onboarding.IDPrevButton).Visible() {
		t.Fatalf("prev button should be hidden on the first step")
	}
	if !mustID(t, doc, "id_ruc").Required() {
		t.Fatalf("expected ruc to be required")
	}
}

func TestHandler_NextBlockedByEmptyStep(t *testing.T) {
	h, rec := newTestHandler(t, company.NewMemoryStore())

	doc := parse(t, post(h, url.Values{"nav": {NavNext}, "wizard_step": {"1"}}))

	if got := activeStep(t, doc); got != "1" {
		t.Fatalf("expected to stay on step 1, got %s", got)
	}
	for _, id := range []string{"group_ruc", "group_company_name", "group_commercial_name"} {
		if !mustID(t, doc, id).HasClass(onboarding.ClassHasError) {
			t.Fatalf("expected %s flagged", id)
		}
	}
	if diff := cmp.Diff([]int{1}, rec.failures); diff != "" {
		t.Fatalf("validation failures mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_NextAdvances(t *testing.T) {
	h, rec := newTestHandler(t, company.NewMemoryStore())

	form := stepOne()
	form.Set("nav", NavNext)
	form.Set("wizard_step", "1")
	doc := parse(t, post(h, form))

	if got := activeStep(t, doc); got != "2" {
		t.Fatalf("expected step 2, got %s", got)
	}
	if got := mustID(t, doc, onboarding.IDWizardStep).Value(); got != "2" {
		t.Fatalf("wizard step = %q", got)
	}
	if got := mustID(t, doc, "id_ruc").Value(); got != "1790012345001" {
		t.Fatalf("expected posted ruc to be kept, got %q", got)
	}
	if diff := cmp.Diff([][2]int{{1, 2}}, rec.steps); diff != "" {
		t.Fatalf("transitions mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_PrevSkipsValidation(t *testing.T) {
	h, rec := newTestHandler(t, company.NewMemoryStore())

	doc := parse(t, post(h, url.Values{"nav": {NavPrev}, "wizard_step": {"3"}}))

	if got := activeStep(t, doc); got != "2" {
		t.Fatalf("expected step 2, got %s", got)
	}
	if diff := cmp.Diff([][2]int{{1, 3}, {3, 2}}, rec.steps); diff != "" {
		t.Fatalf("transitions mismatch (-want +got):\n%s", diff)
	}
	if len(rec.failures) != 0 {
		t.Fatalf("expected no validation, got %v", rec.failures)
	}
}

func TestHandler_InvalidStepValueStaysOnFirstStep(t *testing.T) {
	h, _ := newTestHandler(t, company.NewMemoryStore())

	doc := parse(t, post(h, url.Values{"nav": {NavPrev}, "wizard_step": {"9"}}))
	if got := activeStep(t, doc); got != "1" {
		t.Fatalf("expected step 1, got %s", got)
	}
}

func TestHandler_SpecialTaxpayerKeptAcrossSteps(t *testing.T) {
	h, _ := newTestHandler(t, company.NewMemoryStore())

	form := validForm()
	form.Set("wizard_step", "3")
	form.Set("nav", NavNext)
	form.Set("is_special_taxpayer", "yes")
	form.Set("special_taxpayer_number", "5368")
	doc := parse(t, post(h, form))

	if got := activeStep(t, doc); got != "4" {
		t.Fatalf("expected step 4, got %s", got)
	}
	if got := mustID(t, doc, onboarding.IDSpecialTaxpayerSelect).Value(); got != onboarding.SpecialTaxpayerYes {
		t.Fatalf("indicator = %q", got)
	}
	if !mustID(t, doc, onboarding.IDSpecialTaxpayerGroup).Visible() {
		t.Fatalf("expected number group visible")
	}
	if got := mustID(t, doc, onboarding.IDSpecialTaxpayerNumber).Value(); got != "5368" {
		t.Fatalf("number = %q", got)
	}
	if got := mustID(t, doc, onboarding.IDSpecialTaxpayerHidden).Value(); got != "5368" {
		t.Fatalf("hidden special taxpayer = %q", got)
	}
}

func TestHandler_SpecialTaxpayerWithoutNumberBlocksStepThree(t *testing.T) {
	h, rec := newTestHandler(t, company.NewMemoryStore())

	form := validForm()
	form.Set("wizard_step", "3")
	form.Set("nav", NavNext)
	form.Set("is_special_taxpayer", "yes")
	form.Set("special_taxpayer_number", "")
	doc := parse(t, post(h, form))

	if got := activeStep(t, doc); got != "3" {
		t.Fatalf("expected to stay on step 3, got %s", got)
	}
	group := mustID(t, doc, onboarding.IDSpecialTaxpayerGroup)
	if !group.HasClass(onboarding.ClassHasError) || !group.Visible() {
		t.Fatalf("expected number group shown and flagged")
	}
	if !mustID(t, doc, onboarding.IDSpecialTaxpayerNumber).Required() {
		t.Fatalf("expected number to be required")
	}
	if diff := cmp.Diff([]int{3}, rec.failures); diff != "" {
		t.Fatalf("validation failures mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_SubmitSavesSpecialTaxpayerNumber(t *testing.T) {
	store := company.NewMemoryStore()
	h, _ := newTestHandler(t, store)

	form := validForm()
	form.Set("is_special_taxpayer", "yes")
	form.Set("special_taxpayer_number", "5368")
	res := post(h, form)

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d: %s", res.Code, res.Body.String())
	}
	items, err := store.List(context.Background())
	if err != nil || len(items) != 1 {
		t.Fatalf("expected 1 company, got %d (%v)", len(items), err)
	}
	if got := items[0].SpecialTaxpayer; got != "5368" {
		t.Fatalf("special taxpayer = %q", got)
	}
}

func TestHandler_SubmitSavesCompany(t *testing.T) {
	store := company.NewMemoryStore()
	h, rec := newTestHandler(t, store)

	res := post(h, validForm())

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d: %s", res.Code, res.Body.String())
	}
	if loc := res.Header().Get("Location"); loc != DefaultSuccessPath {
		t.Fatalf("unexpected redirect %q", loc)
	}

	items, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 company, got %d", len(items))
	}
	saved := items[0]
	if saved.EstablishmentAddress != "Av. Amazonas N24-03" {
		t.Fatalf("establishment address = %q", saved.EstablishmentAddress)
	}
	if saved.TaxPercentage != "4" || saved.Tax != 15 {
		t.Fatalf("tax = %q/%d", saved.TaxPercentage, saved.Tax)
	}
	if saved.SpecialTaxpayer != onboarding.SpecialTaxpayerSentinel {
		t.Fatalf("special taxpayer = %q", saved.SpecialTaxpayer)
	}
	if saved.IssuingPointCode != "002" {
		t.Fatalf("issuing point = %q", saved.IssuingPointCode)
	}
	if diff := cmp.Diff([]string{OutcomeSaved}, rec.outcomes); diff != "" {
		t.Fatalf("outcomes mismatch (-want +got):\n%s", diff)
	}
	if rec.submissions != 1 {
		t.Fatalf("expected one submission, got %d", rec.submissions)
	}
}

func TestHandler_SubmitInvalidOpensErrorStep(t *testing.T) {
	store := company.NewMemoryStore()
	h, rec := newTestHandler(t, store)

	form := validForm()
	form.Set("email", "no-es-un-correo")
	doc := parse(t, post(h, form))

	if got := activeStep(t, doc); got != "4" {
		t.Fatalf("expected contact step, got %s", got)
	}
	group := mustID(t, doc, "group_email")
	if !group.HasClass(onboarding.ClassHasError) {
		t.Fatalf("expected email group flagged")
	}
	if spans := group.ByClass(onboarding.ClassError); len(spans) != 1 || spans[0].Text() != company.MessageEmail {
		t.Fatalf("expected inline email message")
	}
	if got := mustID(t, doc, "id_ruc").Value(); got != "1790012345001" {
		t.Fatalf("expected posted values kept, got %q", got)
	}
	if items, _ := store.List(context.Background()); len(items) != 0 {
		t.Fatalf("expected nothing saved")
	}
	if diff := cmp.Diff([]string{OutcomeInvalid}, rec.outcomes); diff != "" {
		t.Fatalf("outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_SubmitDuplicateRUC(t *testing.T) {
	store := company.NewMemoryStore(company.Company{ID: 1, RUC: "1790012345001", CompanyName: "Otra", CommercialName: "Otra"})
	h, rec := newTestHandler(t, store)

	doc := parse(t, post(h, validForm()))

	if got := activeStep(t, doc); got != "1" {
		t.Fatalf("expected identification step, got %s", got)
	}
	group := mustID(t, doc, "group_ruc")
	if !strings.Contains(group.Text(), MessageDuplicateRUC) {
		t.Fatalf("expected duplicate message under ruc")
	}
	if diff := cmp.Diff([]string{OutcomeDuplicate}, rec.outcomes); diff != "" {
		t.Fatalf("outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_SubmitRejectsSignatureExtension(t *testing.T) {
	h, _ := newTestHandler(t, company.NewMemoryStore())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, values := range validForm() {
		if err := mw.WriteField(name, values[0]); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	part, err := mw.CreateFormFile("electronic_signature", "firma.txt")
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	if _, err := part.Write([]byte("not a certificate")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/onboarding/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	doc := parse(t, res)
	if got := activeStep(t, doc); got != "5" {
		t.Fatalf("expected signature step, got %s", got)
	}
	if !mustID(t, doc, "group_electronic_signature").HasClass(onboarding.ClassHasError) {
		t.Fatalf("expected signature group flagged")
	}
}

func TestHandler_GuardRejects(t *testing.T) {
	guard := func(*http.Request) error {
		return StatusError{Code: http.StatusForbidden, Err: errors.New("token mismatch")}
	}
	h, rec := newTestHandler(t, company.NewMemoryStore(), WithGuard(guard))

	res := post(h, validForm())
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", res.Code)
	}
	if diff := cmp.Diff([]string{OutcomeDenied}, rec.outcomes); diff != "" {
		t.Fatalf("outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t, company.NewMemoryStore())

	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodDelete, "/onboarding/", nil))
	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", res.Code)
	}
	if allow := res.Header().Get("Allow"); allow != "GET, HEAD, POST" {
		t.Fatalf("unexpected Allow header %q", allow)
	}
}

func TestHandler_UnknownPath(t *testing.T) {
	h, _ := newTestHandler(t, company.NewMemoryStore())

	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/onboarding/extra/", nil))
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", res.Code)
	}
}

func TestHandler_MissingRenderer(t *testing.T) {
	h := NewHandler()

	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/onboarding/", nil))
	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", res.Code)
	}
}

func storedCompany() company.Company {
	return company.Company{
		ID:                   1,
		RUC:                  "1790012345001",
		CompanyName:          "Comercial Andina S.A.",
		CommercialName:       "Andina",
		MainAddress:          "Av. Amazonas N24-03",
		EstablishmentAddress: "Av. Amazonas N24-03",
		EstablishmentCode:    "001",
		IssuingPointCode:     "002",
		Email:                "facturacion@andina.ec",
		SpecialTaxpayer:      "5368",
		Owner:                company.Owner{Name: "María Pérez", Username: "mperez"},
	}
}

func newEditHandler(t *testing.T, store company.Repository) (http.Handler, *recorder) {
	t.Helper()

	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	constraints, err := company.LoadConstraints(context.Background())
	if err != nil {
		t.Fatalf("load constraints: %v", err)
	}

	rec := &recorder{}
	h := EditHandler(
		WithRenderer(renderer),
		WithConstraints(constraints),
		WithRepository(store),
		WithRecorder(rec),
	)
	mux := http.NewServeMux()
	mux.Handle("/companies/update/{id}/", h)
	return mux, rec
}

func TestEditHandler_GetPrefillsFromRepository(t *testing.T) {
	h, _ := newEditHandler(t, company.NewMemoryStore(storedCompany()))

	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/companies/update/1/", nil))

	doc := parse(t, res)
	if got := mustID(t, doc, "id_ruc").Value(); got != "1790012345001" {
		t.Fatalf("ruc = %q", got)
	}
	if got := mustID(t, doc, "id_commercial_name").Value(); got != "Andina" {
		t.Fatalf("commercial name = %q", got)
	}
	if got := mustID(t, doc, onboarding.IDSpecialTaxpayerSelect).Value(); got != onboarding.SpecialTaxpayerYes {
		t.Fatalf("special taxpayer indicator = %q", got)
	}
	if got := mustID(t, doc, onboarding.IDSpecialTaxpayerNumber).Value(); got != "5368" {
		t.Fatalf("special taxpayer number = %q", got)
	}
	form, err := doc.Query("//form")
	if err != nil || form == nil {
		t.Fatalf("expected a form: %v", err)
	}
	if action, _ := form.Attr("action"); action != "/companies/update/1/" {
		t.Fatalf("form action = %q", action)
	}
}

func TestEditHandler_PostReplacesRecord(t *testing.T) {
	store := company.NewMemoryStore(storedCompany())
	h, rec := newEditHandler(t, store)

	form := validForm()
	form.Set("commercial_name", "Andina Norte")
	req := httptest.NewRequest(http.MethodPost, "/companies/update/1/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d: %s", res.Code, res.Body.String())
	}
	items, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected the record to be replaced, got %d companies", len(items))
	}
	got := items[0]
	if got.ID != 1 || got.CommercialName != "Andina Norte" {
		t.Fatalf("unexpected company %+v", got)
	}
	if diff := cmp.Diff(storedCompany().Owner, got.Owner); diff != "" {
		t.Fatalf("owner mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{OutcomeUpdated}, rec.outcomes); diff != "" {
		t.Fatalf("outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestEditHandler_UnknownCompany(t *testing.T) {
	h, _ := newEditHandler(t, company.NewMemoryStore(storedCompany()))

	for _, target := range []string{"/companies/update/7/", "/companies/update/abc/", "/companies/update/-1/"} {
		res := httptest.NewRecorder()
		h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, target, nil))
		if res.Code != http.StatusNotFound {
			t.Fatalf("%s: expected status 404, got %d", target, res.Code)
		}
	}
}
