package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// SessionCookie carries the token for browser sessions.
const SessionCookie = "settingsd_session"

// ExtractToken retrieves the token from the request, trying in order:
//  1. Authorization: Bearer <token>
//  2. Cookie: settingsd_session
func ExtractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}

// Directory maps tokens to principals.
type Directory struct {
	entries []entry
}

type entry struct {
	token     []byte
	principal Principal
}

// NewDirectory builds a Directory. Blank tokens are ignored.
func NewDirectory(tokens map[string]Principal) *Directory {
	d := &Directory{}
	for token, p := range tokens {
		if strings.TrimSpace(token) == "" {
			continue
		}
		d.entries = append(d.entries, entry{token: []byte(token), principal: p})
	}
	return d
}

// Lookup resolves token using constant-time comparison against every entry.
func (d *Directory) Lookup(token string) (Principal, bool) {
	if d == nil || token == "" {
		return Principal{}, false
	}
	var (
		found Principal
		ok    bool
	)
	got := []byte(token)
	for _, e := range d.entries {
		if subtle.ConstantTimeCompare(got, e.token) == 1 {
			found, ok = e.principal, true
		}
	}
	return found, ok
}

// Len reports the number of configured tokens.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Middleware attaches the principal for the request token, if any. Requests
// without a valid token continue anonymously; handlers decide what that means.
func Middleware(dir *Directory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p, ok := dir.Lookup(ExtractToken(r)); ok {
				r = r.WithContext(WithPrincipal(r.Context(), p))
			}
			next.ServeHTTP(w, r)
		})
	}
}
