package auth

import (
	"net/http"

	"github.com/receipthub/backend-receipt/internal/common"
	"github.com/receipthub/backend-receipt/internal/security"
)

// Handler exposes HTTP handlers for authentication and account endpoints.
type Handler struct {
	Service          *Service
	AccessCookieName string
	CookieDomain     string
	CookieSecure     bool
	CookieSameSite   http.SameSite
	CSRFCookieName   string
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /api/v1/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "auth service not configured", nil)
		return
	}
	var req RegisterInput
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	user, err := h.Service.Register(r.Context(), req)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, user)
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "auth service not configured", nil)
		return
	}
	var req loginRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	result, err := h.Service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.setCSRFCookie(w, result); err != nil {
		common.WriteError(w, err)
		return
	}
	h.setAccessCookie(w, result)
	common.Data(w, http.StatusOK, map[string]any{
		"user":         result.User,
		"access_token": result.AccessToken,
		"token_type":   "bearer",
		"expires_at":   result.AccessExpiry,
	})
}

// Logout handles POST /api/v1/auth/logout. Access tokens are stateless, so
// logging out only clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearAccessCookie(w)
	h.clearCookie(w, h.CSRFCookieName, false)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/v1/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "auth service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
		return
	}
	user, err := h.Service.Me(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, user)
}

func (h *Handler) setAccessCookie(w http.ResponseWriter, result LoginResult) {
	if h.AccessCookieName == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.AccessCookieName,
		Value:    result.AccessToken,
		Domain:   h.CookieDomain,
		Path:     "/",
		Expires:  result.AccessExpiry,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: h.CookieSameSite,
	})
}

// setCSRFCookie issues the double-submit token. It is readable by scripts so
// browser clients can echo it in the X-CSRF-Token header.
func (h *Handler) setCSRFCookie(w http.ResponseWriter, result LoginResult) error {
	if h.CSRFCookieName == "" || h.AccessCookieName == "" {
		return nil
	}
	token, err := security.NewCSRFToken()
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.CSRFCookieName,
		Value:    token,
		Domain:   h.CookieDomain,
		Path:     "/",
		Expires:  result.AccessExpiry,
		Secure:   h.CookieSecure,
		SameSite: h.CookieSameSite,
	})
	return nil
}

func (h *Handler) clearAccessCookie(w http.ResponseWriter) {
	h.clearCookie(w, h.AccessCookieName, true)
}

func (h *Handler) clearCookie(w http.ResponseWriter, name string, httpOnly bool) {
	if name == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Domain:   h.CookieDomain,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: httpOnly,
		Secure:   h.CookieSecure,
		SameSite: h.CookieSameSite,
	})
}
