package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"companions/internal/access"
	"companions/internal/http/handlers"
	"companions/internal/middleware"
)

// Deps is everything the router wires together.
type Deps struct {
	App             *handlers.App
	Logger          zerolog.Logger
	Sessions        middleware.SessionVerifier
	Gate            *access.Gate
	Profiles        middleware.ProfileStatusSource
	CORSOrigins     []string
	RateLimitPerMin int
	CountryLookup   middleware.CountryLookup
	// Files serves stored uploads to admins; nil disables the route.
	Files http.Handler
}

func NewRouter(d Deps) http.Handler {
	app := d.App
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		middleware.RequestID,
		middleware.Logger(d.Logger),
		chimw.Recoverer,
		middleware.CORS(d.CORSOrigins),
		middleware.Session(d.Sessions),
		middleware.I18N(middleware.DefaultLocale, d.CountryLookup),
		middleware.Gate(d.Gate, d.Profiles),
	)

	r.Get("/v1/healthz", app.Health)
	r.Post("/api/webhooks/stripe", app.StripeWebhook)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(d.RateLimitPerMin, time.Minute))

		r.Get("/v1/stats", app.Stats)
		r.Get("/location", app.ListCities)
		r.Get("/location/{city}", app.ListCityCompanions)

		r.Route("/companions", func(r chi.Router) {
			r.Get("/", app.ListCompanions)
			r.Get("/{slug}", app.GetCompanion)
			r.Get("/{slug}/reviews", app.ListReviews)
			r.Post("/{slug}/contact", app.RecordContact)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSession)
				r.Post("/{slug}/reviews", app.CreateReview)
				r.Post("/register", app.RegisterCompanion)
				r.Post("/verification", app.UploadDocument)
				r.Get("/verification/status", app.VerificationStatus)
				r.Get("/verification/pending", app.VerificationPending)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)

			r.Post("/onboarding", app.CompleteOnboarding)

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/profile", app.GetOwnProfile)
				r.Put("/profile", app.UpdateOwnProfile)
				r.Get("/analytics", app.DashboardAnalytics)
				r.Get("/blocks", app.ListBlocks)
				r.Post("/blocks/{authID}", app.BlockUser)
				r.Delete("/blocks/{authID}", app.UnblockUser)
			})

			r.Route("/billing", func(r chi.Router) {
				r.Get("/", app.BillingOverview)
				r.Post("/checkout", app.StartCheckout)
				r.Post("/sync", app.SyncBilling)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/verifications", app.PendingVerifications)
			r.Post("/companions/{id}/verify", app.VerifyCompanion)
			r.Post("/companions/{id}/suspend", app.SuspendCompanion)
			r.Get("/companions/{id}/documents.zip", app.DocumentsArchive)
			if d.Files != nil {
				r.Handle("/files/*", http.StripPrefix("/admin/files", d.Files))
			}
		})
	})

	return r
}
