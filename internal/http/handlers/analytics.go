package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"companions/internal/domain"
)

const maxAnalyticsDays = 365

// RecordContact counts a click on a companion's contact button.
func (a *App) RecordContact(w http.ResponseWriter, r *http.Request) {
	c, err := a.Companions.GetBySlug(r.Context(), chi.URLParam(r, "slug"), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err, "companion not found")
		return
	}
	a.record(r, c.ID, domain.EventContactClick)
	a.json(w, http.StatusAccepted, map[string]any{"phone": c.Phone})
}

// DashboardAnalytics summarizes the caller's profile traffic.
func (a *App) DashboardAnalytics(w http.ResponseWriter, r *http.Request) {
	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxAnalyticsDays {
			a.error(w, http.StatusBadRequest, "bad_request", "days must be between 1 and 365")
			return
		}
		days = n
	}
	c, ok := a.ownCompanion(w, r)
	if !ok {
		return
	}
	since := a.now().AddDate(0, 0, -days)
	summary, err := a.Analytics.Summary(r.Context(), c.ID, since)
	if err != nil {
		a.fail(w, r, err, "failed to load analytics")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"since":          summary.Since,
		"days":           days,
		"profile_views":  summary.Totals[domain.EventProfileView],
		"contact_clicks": summary.Totals[domain.EventContactClick],
		"unique_viewers": summary.UniqueViewer,
		"by_country":     summary.ByCountry,
	})
}

// Stats returns public marketplace counters.
func (a *App) Stats(w http.ResponseWriter, r *http.Request) {
	s, err := a.Analytics.Stats(r.Context())
	if err != nil {
		a.fail(w, r, err, "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"companions": s.Companions,
		"verified":   s.Verified,
		"cities":     s.Cities,
		"reviews":    s.Reviews,
	})
}
