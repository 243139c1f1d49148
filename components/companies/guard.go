package companies

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-onboarding/internal/web"
	"github.com/goliatone/go-onboarding/pkg/render"
)

var (
	// ErrMissingToken is returned when neither the CSRF header nor the form
	// field carries a token.
	ErrMissingToken = errors.New("companies: csrf token missing")
	// ErrMissingCookie is returned when the CSRF cookie is configured but was
	// not sent.
	ErrMissingCookie = errors.New("companies: csrf cookie missing")
	// ErrTokenMismatch is returned when the token does not match the cookie.
	ErrTokenMismatch = errors.New("companies: csrf token mismatch")
)

// CSRFGuard requires a token in header, or in the csrfmiddlewaretoken form
// field for plain form posts. When cookie is set the request must send that
// cookie and the token must equal its value.
func CSRFGuard(header, cookie string) GuardFunc {
	return func(r *http.Request) error {
		token := strings.TrimSpace(r.Header.Get(header))
		if token == "" {
			token = strings.TrimSpace(r.PostFormValue(render.CSRFFieldName))
		}
		if token == "" {
			return web.StatusError{Code: http.StatusForbidden, Err: ErrMissingToken}
		}
		if cookie == "" {
			return nil
		}
		c, err := r.Cookie(cookie)
		if err != nil || c.Value == "" {
			return web.StatusError{Code: http.StatusForbidden, Err: ErrMissingCookie}
		}
		if subtle.ConstantTimeCompare([]byte(c.Value), []byte(token)) != 1 {
			return web.StatusError{Code: http.StatusForbidden, Err: ErrTokenMismatch}
		}
		return nil
	}
}
