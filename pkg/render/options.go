package render

// RenderOptions describe per-request data the onboarding page renderer uses
// without touching the step catalogue.
type RenderOptions struct {
	// Action is the form action; empty posts back to the current URL.
	Action string
	// Title overrides the page heading.
	Title string
	// Values pre-populates controls keyed by form name. Missing keys fall back
	// to the field default.
	Values map[string]string
	// Errors surfaces server-side validation feedback keyed by form name.
	// Each message is rendered as an .error element inside the field group so
	// the controller can flag the group and jump to its step.
	Errors map[string][]string
	// FormErrors are rendered in the page level error box.
	FormErrors []string
	// Hidden fields are emitted at the top of the form.
	Hidden []HiddenField
}

// ListOptions describe the companies listing page.
type ListOptions struct {
	// Path is the listing URL; row actions are built relative to it.
	Path      string
	Title     string
	CSRFToken string
}

// DeleteOptions describe the delete confirmation page.
type DeleteOptions struct {
	// Action is where the confirmation form posts.
	Action string
	// ListPath is the cancel link back to the listing.
	ListPath  string
	Title     string
	CSRFToken string
}
