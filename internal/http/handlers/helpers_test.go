package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"companions/internal/domain"
	"companions/internal/identity"
)

func newRequest(method, target string, body any, s *domain.Session) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s != nil {
		req = req.WithContext(identity.WithSession(req.Context(), s))
	}
	return req
}

func withParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func companionSession(userID string) *domain.Session {
	return &domain.Session{UserID: userID, Metadata: domain.Metadata{OnboardingComplete: true, IsCompanion: true}}
}

func clientSession(userID string) *domain.Session {
	return &domain.Session{UserID: userID, Metadata: domain.Metadata{OnboardingComplete: true}}
}

func errorCode(t *testing.T, body map[string]any) string {
	t.Helper()
	e, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error envelope, got %#v", body)
	}
	code, _ := e["code"].(string)
	return code
}
