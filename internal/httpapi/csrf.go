package httpapi

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"
)

// CSRFCookie holds the double-submit token echoed by the settings form.
const CSRFCookie = "settingsd_csrf"

type csrfKey struct{}

// csrfCookie ensures every caller carries a CSRF cookie and exposes its value
// to handlers and to VerifyToken through the request context.
func csrfCookie(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(CSRFCookie); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					token = c.Value
				}
			}
			if token == "" {
				token = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     CSRFCookie,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteStrictMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfKey{}, token)))
		})
	}
}

// TokenFromContext returns the CSRF token of the request.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(csrfKey{}).(string)
	return token
}

// VerifyToken reports whether token matches the caller's CSRF cookie.
func VerifyToken(ctx context.Context, token string) bool {
	expected := TokenFromContext(ctx)
	if expected == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1
}
