package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"companions/internal/domain"
	"companions/internal/entitlement"
)

const maxWebhookBody = 65536

type checkoutRequest struct {
	Plan  string `json:"plan" validate:"required,oneof=basico plus vip"`
	Email string `json:"email" validate:"omitempty,email"`
}

// StartCheckout returns the payment page for a plan.
func (a *App) StartCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !a.decode(w, r, &req) {
		return
	}
	plan, _ := domain.ParsePlan(req.Plan)
	url, err := a.Checkout.Start(r.Context(), a.currentUserID(r), req.Email, plan)
	if err != nil {
		a.fail(w, r, err, "failed to start checkout")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"url": url})
}

// SyncBilling re-reads the caller's purchases, used by the checkout success
// page before the webhook arrives.
func (a *App) SyncBilling(w http.ResponseWriter, r *http.Request) {
	customer, err := a.Billing.CustomerByAuthID(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err, "no billing account")
		return
	}
	outcome, err := a.Sync.SyncCustomer(r.Context(), customer.CustomerID)
	if err != nil {
		a.fail(w, r, err, "failed to sync purchases")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"outcome": outcome})
}

// BillingOverview lists plans and the caller's purchases.
func (a *App) BillingOverview(w http.ResponseWriter, r *http.Request) {
	snap, err := a.Sync.Purchases(r.Context(), a.currentUserID(r))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		snap = &domain.PurchaseSnapshot{}
	case err != nil:
		a.fail(w, r, err, "failed to load purchases")
		return
	}
	purchases := snap.Purchases
	if purchases == nil {
		purchases = []domain.Purchase{}
	}

	current := domain.PlanFree
	var expiresAt any
	if latest, ok := snap.Latest(); ok && a.now().Before(latest.ExpiresAt) {
		current = latest.Plan
		expiresAt = latest.ExpiresAt
	}
	a.json(w, http.StatusOK, map[string]any{
		"plan":       current,
		"expires_at": expiresAt,
		"purchases":  purchases,
		"catalog":    a.Catalog.Plans(),
	})
}

// StripeWebhook verifies and applies a payment event. Unrecoverable events
// are acknowledged so the provider stops retrying; processing failures
// answer 500 so it retries.
func (a *App) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unreadable payload")
		return
	}
	ev, err := entitlement.ParseWebhook(body, r.Header.Get("Stripe-Signature"), a.WebhookSecret)
	if err != nil {
		logger.Warn().Err(err).Msg("webhook: rejected")
		a.error(w, http.StatusBadRequest, "invalid_signature", "signature verification failed")
		return
	}
	outcome, err := a.Sync.HandleEvent(r.Context(), ev)
	if err != nil {
		logger.Error().Err(err).Str("event_id", ev.ID).Str("event_type", ev.Type).Msg("webhook: processing failed")
		a.error(w, http.StatusInternalServerError, "internal", "event processing failed")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"received": true, "outcome": outcome})
}
