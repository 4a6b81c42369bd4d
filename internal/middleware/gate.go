package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"companions/internal/access"
	"companions/internal/identity"
)

// ProfileStatusSource supplies the stored profile state the gate needs for
// companions.
type ProfileStatusSource interface {
	ProfileStatus(ctx context.Context, authID string) access.ProfileStatus
}

// Gate runs the access gate before every handler. Denied requests are
// redirected to the step the caller still has to complete: 302 for safe
// methods, 303 otherwise so clients follow up with GET.
func Gate(g *access.Gate, profiles ProfileStatusSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := identity.SessionFromContext(r.Context())
			path := r.URL.Path

			var status access.ProfileStatus
			if g.NeedsProfile(path, s) {
				status = profiles.ProfileStatus(r.Context(), s.UserID)
			}

			d := g.Decide(path, s, status)
			if d.Allowed() {
				next.ServeHTTP(w, r)
				return
			}

			zerolog.Ctx(r.Context()).Debug().
				Str("path", path).
				Str("reason", string(d.Reason)).
				Str("target", d.Target).
				Msg("gate: redirect")

			code := http.StatusSeeOther
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				code = http.StatusFound
			}
			w.Header().Set("X-Gate-Reason", string(d.Reason))
			http.Redirect(w, r, d.Target, code)
		})
	}
}
