package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"companions/internal/domain"
)

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

// ListReviews pages through a companion's reviews.
func (a *App) ListReviews(w http.ResponseWriter, r *http.Request) {
	c, err := a.Companions.GetBySlug(r.Context(), chi.URLParam(r, "slug"), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err, "companion not found")
		return
	}
	limit, offset := 20, 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	reviews, err := a.Reviews.ListByCompanion(r.Context(), c.ID, limit, offset)
	if err != nil {
		a.fail(w, r, err, "failed to load reviews")
		return
	}
	items := make([]reviewDTO, 0, len(reviews))
	for _, rv := range reviews {
		items = append(items, toReviewDTO(rv))
	}
	a.json(w, http.StatusOK, map[string]any{
		"items":          items,
		"rating_average": c.RatingAverage,
		"rating_count":   c.RatingCount,
	})
}

// CreateReview rates a companion; each reviewer rates a companion once.
func (a *App) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if !a.decode(w, r, &req) {
		return
	}
	viewer := a.currentUserID(r)
	c, err := a.Companions.GetBySlug(r.Context(), chi.URLParam(r, "slug"), viewer)
	if err != nil {
		a.fail(w, r, err, "companion not found")
		return
	}
	if c.AuthID == viewer {
		a.error(w, http.StatusForbidden, "forbidden", "cannot review your own profile")
		return
	}
	rv := &domain.Review{CompanionID: c.ID, ReviewerAuthID: viewer, Rating: req.Rating, Comment: req.Comment}
	if err := a.Reviews.Create(r.Context(), rv); err != nil {
		a.fail(w, r, err, "review already submitted")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"review": toReviewDTO(*rv)})
}
