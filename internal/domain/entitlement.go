package domain

import "time"

// Purchase is a completed payment for a visibility tier.
type Purchase struct {
	ID           string    `json:"id"`
	Plan         Plan      `json:"plan"`
	DurationDays int       `json:"duration_days"`
	PurchasedAt  time.Time `json:"purchased_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	AmountTotal  int64     `json:"amount_total"`
	Currency     string    `json:"currency"`
}

// Expiry returns PurchasedAt + DurationDays.
func (p Purchase) Expiry() time.Time {
	return p.PurchasedAt.AddDate(0, 0, p.DurationDays)
}

// SourceEvent identifies the payment event that produced a state change.
type SourceEvent struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
}

// NewerThan orders events by creation time, breaking ties by id so a
// redelivery of the same event is not considered newer.
func (e SourceEvent) NewerThan(other SourceEvent) bool {
	if !e.Created.Equal(other.Created) {
		return e.Created.After(other.Created)
	}
	return e.ID > other.ID
}

// Entitlement is the persisted most-recent purchase for a user.
type Entitlement struct {
	AuthID     string
	CustomerID string
	Purchase   Purchase
	Source     SourceEvent
	UpdatedAt  time.Time
}

// Active reports whether the entitlement grants its plan at now.
func (e Entitlement) Active(now time.Time) bool {
	return now.Before(e.Purchase.ExpiresAt)
}

// PurchaseSnapshot is the cached purchase list for a customer.
type PurchaseSnapshot struct {
	CustomerID string      `json:"customer_id"`
	AuthID     string      `json:"auth_id"`
	Purchases  []Purchase  `json:"purchases"`
	Source     SourceEvent `json:"source"`
}

// Latest returns the most recent purchase, if any.
func (s PurchaseSnapshot) Latest() (Purchase, bool) {
	var latest Purchase
	found := false
	for _, p := range s.Purchases {
		if !found || p.PurchasedAt.After(latest.PurchasedAt) {
			latest = p
			found = true
		}
	}
	return latest, found
}

// BillingCustomer links an identity-provider user to a payment customer.
type BillingCustomer struct {
	AuthID     string
	CustomerID string
	Email      string
}
