package domain

import (
	"context"
	"time"
)

// CompanionRepository persists companion profiles.
type CompanionRepository interface {
	Create(ctx context.Context, c *Companion) error
	Update(ctx context.Context, c *Companion) error
	GetByAuthID(ctx context.Context, authID string) (*Companion, error)
	GetBySlug(ctx context.Context, slug string, viewerAuthID string) (*Companion, error)
	GetByID(ctx context.Context, id string) (*Companion, error)
	List(ctx context.Context, f CompanionFilter) ([]Companion, error)
	Cities(ctx context.Context) ([]CitySummary, error)
	SetVerified(ctx context.Context, id string, verified bool, notes string, at time.Time) error
	SetSuspended(ctx context.Context, id string, suspended bool) error
	ListPendingVerification(ctx context.Context, limit int) ([]Companion, error)
	ApplyPlan(ctx context.Context, authID string, plan Plan, expiresAt *time.Time) error
	DowngradeExpired(ctx context.Context, now time.Time) (int64, error)
}

// DocumentRepository persists verification uploads.
type DocumentRepository interface {
	Create(ctx context.Context, d *Document) error
	ListByAuthID(ctx context.Context, authID string) ([]Document, error)
	TypesByAuthID(ctx context.Context, authID string) ([]DocumentType, error)
}

// ReviewRepository persists reviews.
type ReviewRepository interface {
	Create(ctx context.Context, r *Review) error
	ListByCompanion(ctx context.Context, companionID string, limit, offset int) ([]Review, error)
}

// AnalyticsRepository records and aggregates profile events.
type AnalyticsRepository interface {
	Record(ctx context.Context, e AnalyticsEvent) error
	Summary(ctx context.Context, companionID string, since time.Time) (*AnalyticsSummary, error)
	Stats(ctx context.Context) (*StatsSummary, error)
}

// BlockRepository persists companion block lists.
type BlockRepository interface {
	Block(ctx context.Context, companionID, blockedAuthID string) error
	Unblock(ctx context.Context, companionID, blockedAuthID string) error
	List(ctx context.Context, companionID string) ([]string, error)
}

// BillingRepository persists customers and entitlements.
type BillingRepository interface {
	CustomerByAuthID(ctx context.Context, authID string) (*BillingCustomer, error)
	CustomerByStripeID(ctx context.Context, customerID string) (*BillingCustomer, error)
	SaveCustomer(ctx context.Context, c BillingCustomer) error
	Entitlement(ctx context.Context, authID string) (*Entitlement, error)
	// SaveEntitlement stores e unless a newer source event is already
	// recorded, in which case it returns ErrStaleEvent.
	SaveEntitlement(ctx context.Context, e Entitlement) error
}
