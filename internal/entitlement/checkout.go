package entitlement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"companions/internal/domain"
)

// Checkout starts plan purchases.
type Checkout struct {
	provider Provider
	billing  domain.BillingRepository
	catalog  *Catalog
	baseURL  string
	logger   zerolog.Logger
}

// NewCheckout creates a Checkout whose return URLs live under baseURL.
func NewCheckout(provider Provider, billing domain.BillingRepository, catalog *Catalog, baseURL string, logger zerolog.Logger) *Checkout {
	return &Checkout{
		provider: provider,
		billing:  billing,
		catalog:  catalog,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}
}

// Start returns the payment page URL for plan, creating the provider
// customer on first purchase.
func (c *Checkout) Start(ctx context.Context, authID, email string, plan domain.Plan) (string, error) {
	spec, err := c.catalog.Purchasable(plan)
	if err != nil {
		return "", err
	}
	customerID, err := c.ensureCustomer(ctx, authID, email)
	if err != nil {
		return "", err
	}
	url, err := c.provider.CreateCheckout(ctx, CheckoutRequest{
		CustomerID: customerID,
		AuthID:     authID,
		Spec:       spec,
		SuccessURL: c.baseURL + "/billing?checkout=success",
		CancelURL:  c.baseURL + "/billing?checkout=cancelled",
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	c.logger.Info().Str("auth_id", authID).Str("plan", string(plan)).Msg("billing: checkout started")
	return url, nil
}

func (c *Checkout) ensureCustomer(ctx context.Context, authID, email string) (string, error) {
	existing, err := c.billing.CustomerByAuthID(ctx, authID)
	if err == nil {
		return existing.CustomerID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	customerID, err := c.provider.CreateCustomer(ctx, authID, email)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	if err := c.billing.SaveCustomer(ctx, domain.BillingCustomer{AuthID: authID, CustomerID: customerID, Email: email}); err != nil {
		return "", err
	}
	return customerID, nil
}
