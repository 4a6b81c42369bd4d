package entitlement

import (
	"context"
	"sync"
	"time"

	"companions/internal/domain"
)

type fakeProvider struct {
	purchases map[string][]domain.Purchase
	err       error
	created   []string
	checkouts []CheckoutRequest
}

func (f *fakeProvider) CompletedPurchases(_ context.Context, customerID string) ([]domain.Purchase, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.Purchase(nil), f.purchases[customerID]...), nil
}

func (f *fakeProvider) CreateCustomer(_ context.Context, authID, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, authID)
	return "cus_" + authID, nil
}

func (f *fakeProvider) CreateCheckout(_ context.Context, req CheckoutRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.checkouts = append(f.checkouts, req)
	return "https://checkout.test/" + req.CustomerID, nil
}

type fakeBilling struct {
	mu           sync.Mutex
	customers    map[string]domain.BillingCustomer
	entitlements map[string]domain.Entitlement
	lookupErr    error
	saves        int
}

func newFakeBilling(customers ...domain.BillingCustomer) *fakeBilling {
	f := &fakeBilling{customers: map[string]domain.BillingCustomer{}, entitlements: map[string]domain.Entitlement{}}
	for _, c := range customers {
		f.customers[c.CustomerID] = c
	}
	return f
}

func (f *fakeBilling) CustomerByAuthID(_ context.Context, authID string) (*domain.BillingCustomer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.customers {
		if c.AuthID == authID {
			c := c
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBilling) CustomerByStripeID(_ context.Context, customerID string) (*domain.BillingCustomer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	c, ok := f.customers[customerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (f *fakeBilling) SaveCustomer(_ context.Context, c domain.BillingCustomer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customers[c.CustomerID] = c
	return nil
}

func (f *fakeBilling) Entitlement(_ context.Context, authID string) (*domain.Entitlement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entitlements[authID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func (f *fakeBilling) SaveEntitlement(_ context.Context, e domain.Entitlement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if stored, ok := f.entitlements[e.AuthID]; ok && stored.Source.NewerThan(e.Source) {
		return domain.ErrStaleEvent
	}
	f.entitlements[e.AuthID] = e
	f.saves++
	return nil
}

type appliedPlan struct {
	authID  string
	plan    domain.Plan
	expires *time.Time
}

type fakeApplier struct {
	applied []appliedPlan
}

func (f *fakeApplier) ApplyPlan(_ context.Context, authID string, plan domain.Plan, expiresAt *time.Time) error {
	f.applied = append(f.applied, appliedPlan{authID: authID, plan: plan, expires: expiresAt})
	return nil
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]domain.PurchaseSnapshot
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]domain.PurchaseSnapshot{}}
}

func (m *memoryCache) Get(_ context.Context, customerID string) (*domain.PurchaseSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.entries[customerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &snap, nil
}

func (m *memoryCache) SetIfNewer(_ context.Context, snap domain.PurchaseSnapshot) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stored, ok := m.entries[snap.CustomerID]; ok && stored.Source.NewerThan(snap.Source) {
		return false, nil
	}
	m.entries[snap.CustomerID] = snap
	return true, nil
}
