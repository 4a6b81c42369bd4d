package repo

import (
	"context"
	"fmt"

	"companions/internal/domain"
	"companions/internal/infra"
	"companions/internal/sqlinline"
)

// BillingRepositoryPG implements domain.BillingRepository.
type BillingRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewBillingRepository creates a BillingRepositoryPG.
func NewBillingRepository(sql infra.SQLExecutor) *BillingRepositoryPG {
	return &BillingRepositoryPG{sql: sql}
}

func (r *BillingRepositoryPG) CustomerByAuthID(ctx context.Context, authID string) (*domain.BillingCustomer, error) {
	return scanCustomer(r.sql.QueryRow(ctx, sqlinline.QSelectCustomerByAuthID, authID))
}

func (r *BillingRepositoryPG) CustomerByStripeID(ctx context.Context, customerID string) (*domain.BillingCustomer, error) {
	return scanCustomer(r.sql.QueryRow(ctx, sqlinline.QSelectCustomerByStripeID, customerID))
}

func (r *BillingRepositoryPG) SaveCustomer(ctx context.Context, c domain.BillingCustomer) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpsertCustomer, c.AuthID, c.CustomerID, c.Email)
	return err
}

// Entitlement returns the stored entitlement of authID.
func (r *BillingRepositoryPG) Entitlement(ctx context.Context, authID string) (*domain.Entitlement, error) {
	var e domain.Entitlement
	var plan string
	err := r.sql.QueryRow(ctx, sqlinline.QSelectEntitlement, authID).Scan(
		&e.AuthID, &e.CustomerID, &e.Purchase.ID, &plan, &e.Purchase.DurationDays,
		&e.Purchase.PurchasedAt, &e.Purchase.ExpiresAt, &e.Source.ID, &e.Source.Created, &e.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	e.Purchase.Plan, _ = domain.ParsePlan(plan)
	return &e, nil
}

// SaveEntitlement writes e only over state produced by an older (or the same)
// event.
func (r *BillingRepositoryPG) SaveEntitlement(ctx context.Context, e domain.Entitlement) error {
	p := e.Purchase
	tag, err := r.sql.Exec(ctx, sqlinline.QUpsertEntitlementIfNewer,
		e.AuthID, e.CustomerID, p.ID, string(p.Plan), p.DurationDays, p.PurchasedAt, p.ExpiresAt,
		e.Source.ID, e.Source.Created,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entitlement %s from event %s: %w", e.AuthID, e.Source.ID, domain.ErrStaleEvent)
	}
	return nil
}

func scanCustomer(row scanner) (*domain.BillingCustomer, error) {
	var c domain.BillingCustomer
	if err := row.Scan(&c.AuthID, &c.CustomerID, &c.Email); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

var _ domain.BillingRepository = (*BillingRepositoryPG)(nil)
