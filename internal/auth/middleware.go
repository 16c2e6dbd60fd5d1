package auth

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/receipthub/backend-receipt/internal/common"
	"github.com/receipthub/backend-receipt/internal/obs"
)

const bearerPrefix = "bearer "

// Middleware resolves the access token of a request into the owner id used by
// the check endpoints.
type Middleware struct {
	Service      *Service
	AccessCookie string
	Logger       zerolog.Logger
}

// RequireAuth rejects requests that carry no valid access token with 401.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Service == nil {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
			return
		}
		token, source := m.tokenFrom(r)
		userID, err := m.Service.ParseAccessToken(token)
		if err != nil {
			m.Logger.Debug().Err(err).Str("token_source", source).Msg("access token rejected")
			code, message := "UNAUTHORIZED", "missing or invalid token"
			if appErr, ok := common.AsAppError(err); ok {
				code, message = appErr.Code, appErr.Message
			}
			common.JSONError(w, http.StatusUnauthorized, code, message, nil)
			return
		}
		obs.AnnotateUser(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(common.WithUserID(r.Context(), userID)))
	})
}

// tokenFrom reads the access cookie first and the Authorization header second.
func (m Middleware) tokenFrom(r *http.Request) (token, source string) {
	if m.AccessCookie != "" {
		if c, err := r.Cookie(m.AccessCookie); err == nil && strings.TrimSpace(c.Value) != "" {
			return strings.TrimSpace(c.Value), "cookie"
		}
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):]), "bearer"
	}
	return "", "none"
}
