package identity

import (
	"context"

	"companions/internal/domain"
)

type sessionKey struct{}

// WithSession stores s on ctx.
func WithSession(ctx context.Context, s *domain.Session) context.Context {
	if s == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session on ctx, or nil when unauthenticated.
func SessionFromContext(ctx context.Context) *domain.Session {
	if s, ok := ctx.Value(sessionKey{}).(*domain.Session); ok {
		return s
	}
	return nil
}

// UserIDFromContext returns the authenticated user id or "".
func UserIDFromContext(ctx context.Context) string {
	if s := SessionFromContext(ctx); s.Authenticated() {
		return s.UserID
	}
	return ""
}
