package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companions/internal/domain"
	"companions/internal/identity"
)

const testSecret = "middleware-secret"

func newTestVerifier(t *testing.T) *identity.Verifier {
	t.Helper()
	v, err := identity.NewVerifier(context.Background(), identity.VerifierConfig{Secret: testSecret})
	require.NoError(t, err)
	return v
}

func captureSession(got **domain.Session) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = identity.SessionFromContext(r.Context())
	})
}

func TestSessionFromCookieAndBearer(t *testing.T) {
	token, err := identity.SignHS256(testSecret, "user_1", domain.Metadata{OnboardingComplete: true}, time.Hour)
	require.NoError(t, err)

	var got *domain.Session
	h := Session(newTestVerifier(t))(captureSession(&got))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, got)
	assert.Equal(t, "user_1", got.UserID)
	assert.True(t, got.Metadata.OnboardingComplete)

	got = nil
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, got)
	assert.Equal(t, "user_1", got.UserID)
}

func TestSessionInvalidTokenIsUnauthenticated(t *testing.T) {
	token, err := identity.SignHS256("other-secret", "user_1", domain.Metadata{}, time.Hour)
	require.NoError(t, err)

	called := false
	var got *domain.Session
	h := Session(newTestVerifier(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		got = identity.SessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.True(t, called)
	assert.Nil(t, got)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := RequireAdmin(ok)

	tests := []struct {
		name    string
		session *domain.Session
		want    int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"regular user", &domain.Session{UserID: "u1"}, http.StatusForbidden},
		{"admin", &domain.Session{UserID: "u2", Metadata: domain.Metadata{Role: domain.UserRoleAdmin}}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/companions/c1/verify", nil)
			req = req.WithContext(identity.WithSession(req.Context(), tt.session))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}
