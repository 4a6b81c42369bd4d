package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"companions/internal/domain"
	"companions/internal/identity"
)

// SessionCookie is the cookie the identity provider's frontend SDK sets.
const SessionCookie = "__session"

// SessionVerifier turns a raw token into a session.
type SessionVerifier interface {
	Verify(token string) (*domain.Session, error)
}

// Session attaches the verified session to the request context. Missing or
// invalid tokens leave the request unauthenticated; they are never an error.
func Session(v SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			logger := zerolog.Ctx(r.Context())
			s, err := v.Verify(token)
			if err != nil {
				logger.Debug().Err(err).Msg("session: token rejected")
				next.ServeHTTP(w, r)
				return
			}
			logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("user_id", s.UserID)
			})
			next.ServeHTTP(w, r.WithContext(identity.WithSession(r.Context(), s)))
		})
	}
}

func sessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		scheme, token, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

// RequireSession rejects requests without a session with 401.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !identity.SessionFromContext(r.Context()).Authenticated() {
			writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose session lacks the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := identity.SessionFromContext(r.Context())
		if !s.Authenticated() {
			writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
			return
		}
		if !s.Metadata.IsAdmin() {
			writeError(w, http.StatusForbidden, "forbidden", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
