package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/receipthub/backend-receipt/internal/common"
)

// CSRFHeader carries the double-submit token on unsafe requests.
const CSRFHeader = "X-CSRF-Token"

// DefaultCSRFCookie names the cookie holding the double-submit token.
const DefaultCSRFCookie = "receipthub_csrf"

// CSRF protects cookie-authenticated requests using the double-submit technique.
// Requests that carry no session cookie or authenticate with a bearer token pass through.
type CSRF struct {
	SessionCookie string
	Cookie        string
	Header        string
}

// NewCSRFToken returns a random hex token for the CSRF cookie.
func NewCSRFToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("csrf token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Middleware enforces that unsafe requests include a CSRF header matching the CSRF cookie.
func (c CSRF) Middleware(next http.Handler) http.Handler {
	headerName := firstNonEmpty(c.Header, CSRFHeader)
	cookieName := firstNonEmpty(c.Cookie, DefaultCSRFCookie)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
			next.ServeHTTP(w, r)
			return
		}
		if !c.cookieSession(r) {
			next.ServeHTTP(w, r)
			return
		}

		token := strings.TrimSpace(r.Header.Get(headerName))
		cookie, err := r.Cookie(cookieName)
		if token == "" || err != nil || cookie.Value == "" {
			common.JSONError(w, http.StatusForbidden, "CSRF_REQUIRED", "missing csrf token", nil)
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(cookie.Value)) != 1 {
			common.JSONError(w, http.StatusForbidden, "CSRF_INVALID", "invalid csrf token", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (c CSRF) cookieSession(r *http.Request) bool {
	if auth := strings.TrimSpace(r.Header.Get("Authorization")); len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return false
	}
	if c.SessionCookie == "" {
		return true
	}
	_, err := r.Cookie(c.SessionCookie)
	return err == nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
