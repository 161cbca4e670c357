package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/chorequest/internal/auth"
	"github.com/dukerupert/chorequest/internal/model"
)

const (
	SessionCookieName = "chorequest_admin"
	SessionHeader     = "X-Admin-Token"
)

// SessionLookup resolves a token to a live admin session, or nil.
type SessionLookup interface {
	Session(token string) (*model.AdminSession, error)
}

// TokenFromRequest reads the admin token from the X-Admin-Token header, a
// bearer Authorization header, or the session cookie, in that order.
func TokenFromRequest(r *http.Request) string {
	if tok := r.Header.Get(SessionHeader); tok != "" {
		return tok
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// LoadSession attaches the admin session to the context when the request
// carries a valid token. Requests without one pass through unchanged.
func LoadSession(sessions SessionLookup, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := TokenFromRequest(r)
			if tok == "" {
				next.ServeHTTP(w, r)
				return
			}
			sess, err := sessions.Session(tok)
			if err != nil {
				logger.Error("load admin session", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if sess != nil {
				r = r.WithContext(auth.WithAdmin(r.Context(), auth.AdminContext{
					Token:     sess.Token,
					ExpiresAt: sess.ExpiresAt,
				}))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects requests without an admin session.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAdmin(r.Context()) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "admin login required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
