package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"companions/internal/access"
	"companions/internal/domain"
	"companions/internal/entitlement"
	"companions/internal/identity"
	"companions/internal/storage"
)

const maxJSONBody = 1 << 20

// VerificationReader answers verification questions about a user.
type VerificationReader interface {
	Status(ctx context.Context, authID string) access.VerificationStatus
}

// ObjectStore keeps uploaded files.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, maxBytes int64) (storage.Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// BillingSync is the entitlement side of billing.
type BillingSync interface {
	HandleEvent(ctx context.Context, ev entitlement.Event) (entitlement.Outcome, error)
	SyncCustomer(ctx context.Context, customerID string) (entitlement.Outcome, error)
	Purchases(ctx context.Context, authID string) (*domain.PurchaseSnapshot, error)
}

// CheckoutStarter opens payment pages.
type CheckoutStarter interface {
	Start(ctx context.Context, authID, email string, plan domain.Plan) (string, error)
}

// App carries the dependencies shared by every handler.
type App struct {
	Logger     zerolog.Logger
	Companions domain.CompanionRepository
	Documents  domain.DocumentRepository
	Reviews    domain.ReviewRepository
	Analytics  domain.AnalyticsRepository
	Blocks     domain.BlockRepository
	Billing    domain.BillingRepository

	Verification VerificationReader
	Metadata     identity.MetadataWriter
	Store        ObjectStore
	Sync         BillingSync
	Checkout     CheckoutStarter
	Catalog      *entitlement.Catalog

	WebhookSecret string
	Routes        *access.RouteTable

	validate *validator.Validate
	now      func() time.Time
}

// NewApp fills in the validator and clock; dependencies are set by the caller.
func NewApp(app App) *App {
	app.validate = newValidator()
	if app.now == nil {
		app.now = time.Now
	}
	return &app
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]any{"code": errCode, "message": message},
	})
}

// fail maps domain errors onto HTTP responses and logs the unexpected ones.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error, message string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", message)
	case errors.Is(err, domain.ErrConflict):
		a.error(w, http.StatusConflict, "conflict", message)
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", message)
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", message)
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnsupportedPlan):
		a.error(w, http.StatusBadRequest, "bad_request", message)
	case errors.Is(err, domain.ErrProviderFailure):
		zerolog.Ctx(r.Context()).Error().Err(err).Msg(message)
		a.error(w, http.StatusBadGateway, "provider_failure", message)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg(message)
		a.error(w, http.StatusInternalServerError, "internal", message)
	}
}

// decode reads a JSON body into dst and validates it. It writes the error
// response itself and reports whether the handler may continue.
func (a *App) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return a.check(w, dst)
}

func (a *App) check(w http.ResponseWriter, v any) bool {
	err := a.validate.Struct(v)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	a.json(w, http.StatusUnprocessableEntity, map[string]any{
		"error": map[string]any{"code": "validation_failed", "message": "invalid fields", "fields": fields},
	})
	return false
}

func (a *App) session(r *http.Request) *domain.Session {
	return identity.SessionFromContext(r.Context())
}

// currentUserID returns the caller's id; handlers mounted behind
// RequireSession can rely on it being non-empty.
func (a *App) currentUserID(r *http.Request) string {
	return identity.UserIDFromContext(r.Context())
}

// ownCompanion loads the caller's profile, answering 404 when there is none.
func (a *App) ownCompanion(w http.ResponseWriter, r *http.Request) (*domain.Companion, bool) {
	c, err := a.Companions.GetByAuthID(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err, "companion profile not found")
		return nil, false
	}
	return c, true
}
