package security

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const sessionCookie = "receipthub_access_token"

func csrfHandler() http.Handler {
	return CSRF{SessionCookie: sessionCookie}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
}

func sessionRequest() *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checks", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "jwt"})
	return req
}

func TestCSRFBlocksCookieSessionWithoutToken(t *testing.T) {
	rr := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rr, sessionRequest())
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Contains(t, rr.Body.String(), "CSRF_REQUIRED")
}

func TestCSRFAllowsMatchingToken(t *testing.T) {
	token, err := NewCSRFToken()
	require.NoError(t, err)
	require.Len(t, token, 64)

	req := sessionRequest()
	req.Header.Set(CSRFHeader, token)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookie, Value: token})
	rr := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)
}

func TestCSRFRejectsMismatchedToken(t *testing.T) {
	req := sessionRequest()
	req.Header.Set(CSRFHeader, "header-token")
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookie, Value: "cookie-token"})
	rr := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Contains(t, rr.Body.String(), "CSRF_INVALID")
}

func TestCSRFSkipsBearerAndCookielessRequests(t *testing.T) {
	req := sessionRequest()
	req.Header.Set("Authorization", "Bearer abc.def")
	rr := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	csrfHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
	require.Equal(t, http.StatusCreated, rr.Code)
}

func TestCSRFSkipsSafeMethods(t *testing.T) {
	req := sessionRequest()
	req.Method = http.MethodGet
	rr := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)
}
