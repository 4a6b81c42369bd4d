package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"companions/internal/domain"
)

func TestCreateReview(t *testing.T) {
	env := newTestEnv(domain.Companion{ID: "c1", AuthID: "owner", Slug: "ana"})
	review := map[string]any{"rating": 5, "comment": "Puntual y muy amable."}

	rr := httptest.NewRecorder()
	env.app.CreateReview(rr, withParams(newRequest(http.MethodPost, "/companions/ana/reviews", review, clientSession("client_1")), "slug", "ana"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d, want 201 (%s)", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	env.app.CreateReview(rr, withParams(newRequest(http.MethodPost, "/companions/ana/reviews", review, clientSession("client_1")), "slug", "ana"))
	if rr.Code != http.StatusConflict {
		t.Fatalf("second review: unexpected status %d, want 409", rr.Code)
	}

	rr = httptest.NewRecorder()
	env.app.CreateReview(rr, withParams(newRequest(http.MethodPost, "/companions/ana/reviews", review, companionSession("owner")), "slug", "ana"))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("own profile: unexpected status %d, want 403", rr.Code)
	}

	rr = httptest.NewRecorder()
	env.app.CreateReview(rr, withParams(newRequest(http.MethodPost, "/companions/ana/reviews", map[string]any{"rating": 6}, clientSession("client_2")), "slug", "ana"))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("rating out of range: unexpected status %d, want 422", rr.Code)
	}

	if len(env.reviews.reviews) != 1 {
		t.Fatalf("expected a single stored review, got %d", len(env.reviews.reviews))
	}
}

func TestListReviews(t *testing.T) {
	env := newTestEnv(domain.Companion{ID: "c1", AuthID: "owner", Slug: "ana", RatingAverage: 4.5, RatingCount: 2})
	env.reviews.reviews = []domain.Review{
		{ID: "r1", CompanionID: "c1", Rating: 5, Comment: "Genial"},
		{ID: "r2", CompanionID: "c1", Rating: 4},
	}
	rr := httptest.NewRecorder()

	env.app.ListReviews(rr, withParams(newRequest(http.MethodGet, "/companions/ana/reviews", nil, nil), "slug", "ana"))

	body := decodeBody(t, rr)
	if items := body["items"].([]any); len(items) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(items))
	}
	if body["rating_average"] != 4.5 || body["rating_count"] != float64(2) {
		t.Fatalf("unexpected rating summary %#v", body)
	}
}
