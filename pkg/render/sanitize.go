package render

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-onboarding/pkg/company"
)

var (
	actionPolicyOnce sync.Once
	actionPolicy     *bluemonday.Policy
)

// ActionsHTML renders the edit and delete buttons of a listing row. The
// markup passes through a strict policy so a crafted listing path cannot
// inject attributes or script.
func ActionsHTML(listPath string, id int64) string {
	actions := company.ActionsFor(listPath, id)

	var b strings.Builder
	fmt.Fprintf(&b,
		`<a href="%s" data-toggle="tooltip" title="Editar" class="btn btn-warning btn-xs btn-flat"><i class="fas fa-edit"></i></a> `,
		html.EscapeString(actions.Edit),
	)
	fmt.Fprintf(&b,
		`<a href="%s" data-toggle="tooltip" title="Eliminar" class="btn btn-danger btn-xs btn-flat"><i class="fas fa-trash"></i></a>`,
		html.EscapeString(actions.Delete),
	)
	return SanitizeActions(b.String())
}

// SanitizeActions strips everything except links and icons from raw.
func SanitizeActions(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(actionSanitizer().Sanitize(trimmed))
}

func actionSanitizer() *bluemonday.Policy {
	actionPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowStandardURLs()
		policy.AllowRelativeURLs(true)
		policy.RequireNoFollowOnLinks(false)

		policy.AllowAttrs("href", "title", "class", "data-toggle").OnElements("a")
		policy.AllowAttrs("class").OnElements("i")
		policy.AllowElements("a", "i")

		actionPolicy = policy
	})
	return actionPolicy
}
