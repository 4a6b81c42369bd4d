package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"companions/internal/domain"
	"companions/internal/middleware"
)

const (
	defaultPerPage = 24
	maxPerPage     = 60
)

type companionForm struct {
	Name            string             `json:"name" validate:"required,min=2,max=60"`
	Age             int                `json:"age" validate:"required,min=18,max=99"`
	City            string             `json:"city" validate:"required,min=2,max=80"`
	Phone           string             `json:"phone" validate:"required,e164"`
	Description     string             `json:"description" validate:"required,min=20,max=2000"`
	PricePerHour    int                `json:"price_per_hour" validate:"required,min=1,max=100000"`
	Characteristics characteristicsDTO `json:"characteristics"`
}

func (f companionForm) apply(c *domain.Companion) {
	c.Name = f.Name
	c.Age = f.Age
	c.City = displayCity(f.City)
	c.CitySlug = slugify(f.City)
	c.Phone = f.Phone
	c.Description = f.Description
	c.PricePerHour = f.PricePerHour
	c.Characteristics = domain.Characteristics{
		HeightCM:  f.Characteristics.HeightCM,
		Ethnicity: f.Characteristics.Ethnicity,
		HairColor: f.Characteristics.HairColor,
		EyeColor:  f.Characteristics.EyeColor,
		BodyType:  f.Characteristics.BodyType,
	}
}

// RegisterCompanion creates the caller's profile, the first registration step.
func (a *App) RegisterCompanion(w http.ResponseWriter, r *http.Request) {
	s := a.session(r)
	if !s.Metadata.IsCompanion {
		a.error(w, http.StatusForbidden, "forbidden", "only companion accounts can register a profile")
		return
	}
	var form companionForm
	if !a.decode(w, r, &form) {
		return
	}
	c := &domain.Companion{AuthID: s.UserID, Slug: companionSlug(form.Name)}
	form.apply(c)
	if err := a.Companions.Create(r.Context(), c); err != nil {
		a.fail(w, r, err, "companion profile already exists")
		return
	}
	zerolog.Ctx(r.Context()).Info().Str("companion_id", c.ID).Msg("companion registered")
	a.json(w, http.StatusCreated, map[string]any{
		"companion": toCompanionDTO(*c, a.now()),
		"next":      a.Routes.Redirects.VerificationUpload,
	})
}

// GetOwnProfile returns the caller's profile with its documents.
func (a *App) GetOwnProfile(w http.ResponseWriter, r *http.Request) {
	c, ok := a.ownCompanion(w, r)
	if !ok {
		return
	}
	docs, err := a.Documents.ListByAuthID(r.Context(), c.AuthID)
	if err != nil {
		a.fail(w, r, err, "failed to load documents")
		return
	}
	items := make([]documentDTO, 0, len(docs))
	for _, d := range docs {
		items = append(items, toDocumentDTO(d))
	}
	a.json(w, http.StatusOK, map[string]any{
		"companion": toCompanionDTO(*c, a.now()),
		"documents": items,
	})
}

// UpdateOwnProfile replaces the editable fields of the caller's profile.
func (a *App) UpdateOwnProfile(w http.ResponseWriter, r *http.Request) {
	c, ok := a.ownCompanion(w, r)
	if !ok {
		return
	}
	var form companionForm
	if !a.decode(w, r, &form) {
		return
	}
	form.apply(c)
	if err := a.Companions.Update(r.Context(), c); err != nil {
		a.fail(w, r, err, "failed to update profile")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"companion": toCompanionDTO(*c, a.now())})
}

// ListCompanions is the public directory.
func (a *App) ListCompanions(w http.ResponseWriter, r *http.Request) {
	f, ok := a.companionFilter(w, r)
	if !ok {
		return
	}
	a.listCompanions(w, r, f)
}

// ListCityCompanions is the directory scoped to one city.
func (a *App) ListCityCompanions(w http.ResponseWriter, r *http.Request) {
	f, ok := a.companionFilter(w, r)
	if !ok {
		return
	}
	f.CitySlug = slugify(chi.URLParam(r, "city"))
	a.listCompanions(w, r, f)
}

func (a *App) listCompanions(w http.ResponseWriter, r *http.Request, f domain.CompanionFilter) {
	items, err := a.Companions.List(r.Context(), f)
	if err != nil {
		a.fail(w, r, err, "failed to load companions")
		return
	}
	out := toCompanionDTOs(items, a.now())
	for i := range out {
		out[i].Phone = ""
	}
	a.json(w, http.StatusOK, map[string]any{
		"items":    out,
		"page":     f.Offset/f.Limit + 1,
		"per_page": f.Limit,
	})
}

// ListCities returns the cities with at least one visible companion.
func (a *App) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := a.Companions.Cities(r.Context())
	if err != nil {
		a.fail(w, r, err, "failed to load cities")
		return
	}
	items := make([]map[string]any, 0, len(cities))
	for _, c := range cities {
		items = append(items, map[string]any{"city": c.City, "slug": c.CitySlug, "count": c.Count})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// GetCompanion shows a public profile and records the view.
func (a *App) GetCompanion(w http.ResponseWriter, r *http.Request) {
	viewer := a.currentUserID(r)
	c, err := a.Companions.GetBySlug(r.Context(), chi.URLParam(r, "slug"), viewer)
	if err != nil {
		a.fail(w, r, err, "companion not found")
		return
	}
	if viewer != c.AuthID {
		a.record(r, c.ID, domain.EventProfileView)
	}
	a.json(w, http.StatusOK, map[string]any{"companion": toCompanionDTO(*c, a.now())})
}

// record stores an analytics event; failures never break the request.
func (a *App) record(r *http.Request, companionID string, t domain.EventType) {
	err := a.Analytics.Record(r.Context(), domain.AnalyticsEvent{
		CompanionID:  companionID,
		Type:         t,
		ViewerAuthID: a.currentUserID(r),
		Country:      middleware.CountryFromContext(r.Context()),
	})
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("event", string(t)).Msg("analytics: record failed")
	}
}

func (a *App) companionFilter(w http.ResponseWriter, r *http.Request) (domain.CompanionFilter, bool) {
	q := r.URL.Query()
	f := domain.CompanionFilter{
		CitySlug:     slugify(q.Get("city")),
		Ethnicity:    q.Get("ethnicity"),
		HairColor:    q.Get("hair_color"),
		VerifiedOnly: q.Get("verified") == "true",
		ViewerAuthID: a.currentUserID(r),
		Limit:        defaultPerPage,
	}
	ints := []struct {
		key string
		dst *int
		max int
	}{
		{"min_age", &f.MinAge, 99},
		{"max_age", &f.MaxAge, 99},
		{"min_price", &f.MinPrice, 1_000_000},
		{"max_price", &f.MaxPrice, 1_000_000},
		{"per_page", &f.Limit, maxPerPage},
	}
	for _, p := range ints {
		raw := q.Get(p.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > p.max {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid "+p.key)
			return f, false
		}
		*p.dst = n
	}
	if f.Limit == 0 {
		f.Limit = defaultPerPage
	}
	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid page")
			return f, false
		}
		page = n
	}
	f.Offset = (page - 1) * f.Limit
	return f, true
}
