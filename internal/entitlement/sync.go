// Package entitlement keeps purchased visibility tiers in step with the
// payment provider.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"companions/internal/domain"
)

// PlanApplier moves a companion listing onto a purchased tier.
type PlanApplier interface {
	ApplyPlan(ctx context.Context, authID string, plan domain.Plan, expiresAt *time.Time) error
}

// Outcome describes what a sync did. It is informational; callers only need
// the error.
type Outcome string

const (
	OutcomeIgnored         Outcome = "ignored"
	OutcomeUnknownCustomer Outcome = "unknown_customer"
	OutcomeUnknownUser     Outcome = "unknown_user"
	OutcomeStale           Outcome = "stale"
	OutcomeSynced          Outcome = "synced"
)

// Syncer reconciles persisted entitlements with the provider's purchases.
type Syncer struct {
	provider   Provider
	billing    domain.BillingRepository
	companions PlanApplier
	cache      Cache
	logger     zerolog.Logger
	now        func() time.Time
}

// NewSyncer wires a Syncer. cache may be nil, in which case only the
// relational store is written.
func NewSyncer(provider Provider, billing domain.BillingRepository, companions PlanApplier, cache Cache, logger zerolog.Logger) *Syncer {
	return &Syncer{
		provider:   provider,
		billing:    billing,
		companions: companions,
		cache:      cache,
		logger:     logger,
		now:        time.Now,
	}
}

// HandleEvent processes one verified webhook event. A nil error means the
// event was applied or deliberately skipped; any error should be reported to
// the provider so it retries.
func (s *Syncer) HandleEvent(ctx context.Context, ev Event) (Outcome, error) {
	log := s.logger.With().Str("event_id", ev.ID).Str("event_type", ev.Type).Logger()
	if !Allowed(ev.Type) {
		log.Debug().Msg("billing: event type not handled")
		return OutcomeIgnored, nil
	}
	if ev.CustomerID == "" {
		log.Warn().Msg("billing: event without customer")
		return OutcomeUnknownCustomer, nil
	}
	return s.sync(ctx, ev.CustomerID, domain.SourceEvent{ID: ev.ID, Created: ev.Created}, log)
}

// SyncCustomer re-reads a customer's purchases outside of any webhook. The
// current time orders it against webhook events because the provider state
// read is current as of now.
func (s *Syncer) SyncCustomer(ctx context.Context, customerID string) (Outcome, error) {
	now := s.now().UTC()
	source := domain.SourceEvent{ID: fmt.Sprintf("sync_%d", now.UnixNano()), Created: now}
	log := s.logger.With().Str("customer_id", customerID).Str("event_id", source.ID).Logger()
	return s.sync(ctx, customerID, source, log)
}

func (s *Syncer) sync(ctx context.Context, customerID string, source domain.SourceEvent, log zerolog.Logger) (Outcome, error) {
	customer, err := s.billing.CustomerByStripeID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn().Str("customer_id", customerID).Msg("billing: unknown customer, skipping")
			return OutcomeUnknownCustomer, nil
		}
		return "", fmt.Errorf("lookup customer %s: %w", customerID, err)
	}

	purchases, err := s.provider.CompletedPurchases(ctx, customerID)
	if err != nil {
		return "", fmt.Errorf("list purchases for %s: %w", customerID, err)
	}
	for i := range purchases {
		purchases[i].ExpiresAt = purchases[i].Expiry()
	}
	snap := domain.PurchaseSnapshot{
		CustomerID: customerID,
		AuthID:     customer.AuthID,
		Purchases:  purchases,
		Source:     source,
	}

	outcome := OutcomeSynced
	plan := domain.PlanFree
	var expires *time.Time
	if latest, ok := snap.Latest(); ok {
		err := s.billing.SaveEntitlement(ctx, domain.Entitlement{
			AuthID:     customer.AuthID,
			CustomerID: customerID,
			Purchase:   latest,
			Source:     source,
		})
		if errors.Is(err, domain.ErrStaleEvent) {
			log.Info().Msg("billing: newer entitlement already stored")
			return OutcomeStale, nil
		}
		if err != nil {
			return "", fmt.Errorf("save entitlement: %w", err)
		}
		expires = &latest.ExpiresAt
		if s.now().Before(latest.ExpiresAt) {
			plan = latest.Plan
		}
	}

	// With no remaining purchase (all refunded) the listing falls back to free.
	err = s.companions.ApplyPlan(ctx, customer.AuthID, plan, expires)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// The user was deleted at the identity provider.
		log.Warn().Err(err).Str("auth_id", customer.AuthID).Msg("billing: user gone, plan not applied")
		outcome = OutcomeUnknownUser
	case err != nil:
		return "", fmt.Errorf("apply plan: %w", err)
	}

	if s.cache != nil {
		written, err := s.cache.SetIfNewer(ctx, snap)
		if err != nil {
			return "", err
		}
		if !written {
			log.Info().Msg("billing: newer purchase list already cached")
			return OutcomeStale, nil
		}
	}

	log.Info().Str("auth_id", customer.AuthID).Int("purchases", len(purchases)).Msg("billing: entitlement synced")
	return outcome, nil
}

// Purchases returns the cached purchase list of authID, falling back to the
// persisted entitlement when the cache is cold.
func (s *Syncer) Purchases(ctx context.Context, authID string) (*domain.PurchaseSnapshot, error) {
	customer, err := s.billing.CustomerByAuthID(ctx, authID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		snap, err := s.cache.Get(ctx, customer.CustomerID)
		if err == nil {
			return snap, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn().Err(err).Str("auth_id", authID).Msg("billing: cache read failed")
		}
	}

	snap := &domain.PurchaseSnapshot{CustomerID: customer.CustomerID, AuthID: authID}
	ent, err := s.billing.Entitlement(ctx, authID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return snap, nil
	case err != nil:
		return nil, err
	}
	snap.Purchases = []domain.Purchase{ent.Purchase}
	snap.Source = ent.Source
	return snap, nil
}
