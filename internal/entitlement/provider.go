package entitlement

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"companions/internal/domain"
)

const (
	metaPlan         = "plan"
	metaDurationDays = "duration_days"
	metaAuthID       = "auth_id"
)

// CheckoutRequest describes a one-off payment for a plan.
type CheckoutRequest struct {
	CustomerID string
	AuthID     string
	Spec       PlanSpec
	SuccessURL string
	CancelURL  string
}

// Provider is the payment provider surface used by sync and checkout.
type Provider interface {
	CompletedPurchases(ctx context.Context, customerID string) ([]domain.Purchase, error)
	CreateCustomer(ctx context.Context, authID, email string) (string, error)
	CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error)
}

// StripeProvider implements Provider with the Stripe API.
type StripeProvider struct {
	api     *client.API
	catalog *Catalog
	logger  zerolog.Logger
}

// NewStripeProvider creates a provider authenticated with secretKey.
func NewStripeProvider(secretKey string, catalog *Catalog, logger zerolog.Logger) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api, catalog: catalog, logger: logger}
}

// CompletedPurchases lists paid checkout sessions of a customer. Sessions
// without a recognised plan are skipped.
func (p *StripeProvider) CompletedPurchases(ctx context.Context, customerID string) ([]domain.Purchase, error) {
	params := &stripe.CheckoutSessionListParams{Customer: stripe.String(customerID)}
	params.Context = ctx
	params.Limit = stripe.Int64(100)
	params.AddExpand("data.payment_intent.latest_charge")

	var purchases []domain.Purchase
	iter := p.api.CheckoutSessions.List(params)
	for iter.Next() {
		s := iter.CheckoutSession()
		if !grantsPlan(s) {
			continue
		}
		purchase, err := p.purchaseFromSession(s)
		if err != nil {
			p.logger.Warn().Err(err).Str("session_id", s.ID).Msg("billing: skipping checkout session")
			continue
		}
		purchases = append(purchases, purchase)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list checkout sessions: %w", err)
	}
	return purchases, nil
}

// grantsPlan reports whether a checkout session still pays for its plan. A
// fully refunded charge revokes it; the session itself stays "paid".
func grantsPlan(s *stripe.CheckoutSession) bool {
	if s.Status != stripe.CheckoutSessionStatusComplete || s.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return false
	}
	if s.PaymentIntent != nil && s.PaymentIntent.LatestCharge != nil && s.PaymentIntent.LatestCharge.Refunded {
		return false
	}
	return true
}

func (p *StripeProvider) purchaseFromSession(s *stripe.CheckoutSession) (domain.Purchase, error) {
	plan, ok := domain.ParsePlan(s.Metadata[metaPlan])
	if !ok || !plan.IsPaid() {
		return domain.Purchase{}, fmt.Errorf("plan %q: %w", s.Metadata[metaPlan], domain.ErrUnsupportedPlan)
	}
	days, err := strconv.Atoi(s.Metadata[metaDurationDays])
	if err != nil || days <= 0 {
		spec, lookupErr := p.catalog.Lookup(plan)
		if lookupErr != nil {
			return domain.Purchase{}, lookupErr
		}
		days = spec.DurationDays
	}
	purchase := domain.Purchase{
		ID:           s.ID,
		Plan:         plan,
		DurationDays: days,
		PurchasedAt:  time.Unix(s.Created, 0).UTC(),
		AmountTotal:  s.AmountTotal,
		Currency:     string(s.Currency),
	}
	purchase.ExpiresAt = purchase.Expiry()
	return purchase, nil
}

// CreateCustomer registers a Stripe customer tagged with the auth id.
func (p *StripeProvider) CreateCustomer(ctx context.Context, authID, email string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	if email != "" {
		params.Email = stripe.String(email)
	}
	params.AddMetadata(metaAuthID, authID)
	c, err := p.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return c.ID, nil
}

// CreateCheckout opens a payment checkout session and returns its URL.
func (p *StripeProvider) CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		Customer:          stripe.String(req.CustomerID),
		ClientReferenceID: stripe.String(req.AuthID),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(req.Spec.PriceID),
			Quantity: stripe.Int64(1),
		}},
	}
	params.Context = ctx
	params.AddMetadata(metaPlan, string(req.Spec.Plan))
	params.AddMetadata(metaDurationDays, strconv.Itoa(req.Spec.DurationDays))
	params.AddMetadata(metaAuthID, req.AuthID)

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return s.URL, nil
}

var _ Provider = (*StripeProvider)(nil)
