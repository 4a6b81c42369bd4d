package handlers

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"companions/internal/access"
	"companions/internal/domain"
	"companions/internal/entitlement"
	"companions/internal/storage"
)

var testNow = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

type memCompanions struct {
	mu       sync.Mutex
	byAuth   map[string]*domain.Companion
	blocked  map[string]map[string]bool
	verified map[string]bool
	nextID   int
}

func newMemCompanions(items ...domain.Companion) *memCompanions {
	m := &memCompanions{byAuth: map[string]*domain.Companion{}, blocked: map[string]map[string]bool{}, verified: map[string]bool{}}
	for i := range items {
		c := items[i]
		m.byAuth[c.AuthID] = &c
	}
	return m
}

func (m *memCompanions) Create(_ context.Context, c *domain.Companion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byAuth[c.AuthID]; ok {
		return domain.ErrConflict
	}
	m.nextID++
	c.ID = "c" + string(rune('0'+m.nextID))
	c.Plan = domain.PlanFree
	c.CreatedAt = testNow
	cp := *c
	m.byAuth[c.AuthID] = &cp
	return nil
}

func (m *memCompanions) Update(_ context.Context, c *domain.Companion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.byAuth[c.AuthID] = &cp
	return nil
}

func (m *memCompanions) GetByAuthID(_ context.Context, authID string) (*domain.Companion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byAuth[authID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCompanions) GetBySlug(_ context.Context, slug, viewer string) (*domain.Companion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byAuth {
		if c.Slug == slug && !c.Suspended && !m.blocked[c.ID][viewer] {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCompanions) GetByID(_ context.Context, id string) (*domain.Companion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byAuth {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCompanions) List(_ context.Context, f domain.CompanionFilter) ([]domain.Companion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Companion
	for _, c := range m.byAuth {
		if f.CitySlug != "" && c.CitySlug != f.CitySlug {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *memCompanions) Cities(context.Context) ([]domain.CitySummary, error) { return nil, nil }

func (m *memCompanions) SetVerified(_ context.Context, id string, verified bool, _ string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byAuth {
		if c.ID == id {
			c.Verified = verified
			c.VerificationDate = &at
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memCompanions) SetSuspended(_ context.Context, id string, suspended bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byAuth {
		if c.ID == id {
			c.Suspended = suspended
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memCompanions) ListPendingVerification(context.Context, int) ([]domain.Companion, error) {
	return nil, nil
}

func (m *memCompanions) ApplyPlan(context.Context, string, domain.Plan, *time.Time) error { return nil }

func (m *memCompanions) DowngradeExpired(context.Context, time.Time) (int64, error) { return 0, nil }

type memDocuments struct {
	mu   sync.Mutex
	docs []domain.Document
}

func (m *memDocuments) Create(_ context.Context, d *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.ID = "d" + string(rune('0'+len(m.docs)+1))
	d.CreatedAt = testNow
	m.docs = append(m.docs, *d)
	return nil
}

func (m *memDocuments) ListByAuthID(_ context.Context, authID string) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Document
	for _, d := range m.docs {
		if d.AuthID == authID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDocuments) TypesByAuthID(ctx context.Context, authID string) ([]domain.DocumentType, error) {
	docs, _ := m.ListByAuthID(ctx, authID)
	var out []domain.DocumentType
	for _, d := range docs {
		out = append(out, d.Type)
	}
	return out, nil
}

type memReviews struct {
	mu      sync.Mutex
	reviews []domain.Review
}

func (m *memReviews) Create(_ context.Context, r *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reviews {
		if existing.CompanionID == r.CompanionID && existing.ReviewerAuthID == r.ReviewerAuthID {
			return domain.ErrConflict
		}
	}
	r.ID = "r1"
	r.CreatedAt = testNow
	m.reviews = append(m.reviews, *r)
	return nil
}

func (m *memReviews) ListByCompanion(context.Context, string, int, int) ([]domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Review(nil), m.reviews...), nil
}

type memAnalytics struct {
	mu     sync.Mutex
	events []domain.AnalyticsEvent
}

func (m *memAnalytics) Record(_ context.Context, e domain.AnalyticsEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *memAnalytics) Summary(_ context.Context, _ string, since time.Time) (*domain.AnalyticsSummary, error) {
	return &domain.AnalyticsSummary{Since: since, Totals: map[domain.EventType]int{domain.EventProfileView: 7}, ByCountry: map[string]int{"ES": 7}, UniqueViewer: 3}, nil
}

func (m *memAnalytics) Stats(context.Context) (*domain.StatsSummary, error) {
	return &domain.StatsSummary{}, nil
}

type memBlocks struct{ ids []string }

func (m *memBlocks) Block(_ context.Context, _ string, id string) error {
	m.ids = append(m.ids, id)
	return nil
}
func (m *memBlocks) Unblock(context.Context, string, string) error { return nil }
func (m *memBlocks) List(context.Context, string) ([]string, error) {
	return m.ids, nil
}

type memBilling struct {
	customers map[string]domain.BillingCustomer
}

func (m *memBilling) CustomerByAuthID(_ context.Context, authID string) (*domain.BillingCustomer, error) {
	c, ok := m.customers[authID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}
func (m *memBilling) CustomerByStripeID(context.Context, string) (*domain.BillingCustomer, error) {
	return nil, domain.ErrNotFound
}
func (m *memBilling) SaveCustomer(context.Context, domain.BillingCustomer) error { return nil }
func (m *memBilling) Entitlement(context.Context, string) (*domain.Entitlement, error) {
	return nil, domain.ErrNotFound
}
func (m *memBilling) SaveEntitlement(context.Context, domain.Entitlement) error { return nil }

type recordingMetadata struct {
	mu      sync.Mutex
	patches map[string][]domain.MetadataPatch
	err     error
}

func (r *recordingMetadata) UpdateMetadata(_ context.Context, userID string, patch domain.MetadataPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.patches == nil {
		r.patches = map[string][]domain.MetadataPatch{}
	}
	r.patches[userID] = append(r.patches[userID], patch)
	return nil
}

type memStore struct {
	objects map[string][]byte
}

func (m *memStore) Put(_ context.Context, key string, r io.Reader, maxBytes int64) (storage.Object, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, maxBytes+1))
	if err != nil {
		return storage.Object{}, err
	}
	if n > maxBytes {
		return storage.Object{}, storage.ErrTooLarge
	}
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = buf.Bytes()
	return storage.Object{Key: key, URL: "http://files.test/" + key, Size: n}, nil
}

func (m *memStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

type fakeSync struct {
	events   []entitlement.Event
	synced   []string
	err      error
	snapshot *domain.PurchaseSnapshot
	outcome  entitlement.Outcome
}

func (f *fakeSync) HandleEvent(_ context.Context, ev entitlement.Event) (entitlement.Outcome, error) {
	f.events = append(f.events, ev)
	return f.outcome, f.err
}

func (f *fakeSync) SyncCustomer(_ context.Context, customerID string) (entitlement.Outcome, error) {
	f.synced = append(f.synced, customerID)
	return entitlement.OutcomeSynced, f.err
}

func (f *fakeSync) Purchases(context.Context, string) (*domain.PurchaseSnapshot, error) {
	if f.snapshot == nil {
		return nil, domain.ErrNotFound
	}
	return f.snapshot, f.err
}

type fakeCheckout struct {
	plans []domain.Plan
}

func (f *fakeCheckout) Start(_ context.Context, authID, _ string, plan domain.Plan) (string, error) {
	f.plans = append(f.plans, plan)
	return "https://pay.test/" + authID, nil
}

type testEnv struct {
	app        *App
	companions *memCompanions
	documents  *memDocuments
	reviews    *memReviews
	analytics  *memAnalytics
	blocks     *memBlocks
	metadata   *recordingMetadata
	store      *memStore
	sync       *fakeSync
	checkout   *fakeCheckout
}

func newTestEnv(companions ...domain.Companion) *testEnv {
	routes, err := access.DefaultRoutes()
	if err != nil {
		panic(err)
	}
	env := &testEnv{
		companions: newMemCompanions(companions...),
		documents:  &memDocuments{},
		reviews:    &memReviews{},
		analytics:  &memAnalytics{},
		blocks:     &memBlocks{},
		metadata:   &recordingMetadata{},
		store:      &memStore{},
		sync:       &fakeSync{outcome: entitlement.OutcomeSynced},
		checkout:   &fakeCheckout{},
	}
	env.app = NewApp(App{
		Logger:        zerolog.Nop(),
		Companions:    env.companions,
		Documents:     env.documents,
		Reviews:       env.reviews,
		Analytics:     env.analytics,
		Blocks:        env.blocks,
		Billing:       &memBilling{customers: map[string]domain.BillingCustomer{"user_paid": {AuthID: "user_paid", CustomerID: "cus_paid"}}},
		Verification:  access.NewResolver(env.companions, env.documents, zerolog.Nop()),
		Metadata:      env.metadata,
		Store:         env.store,
		Sync:          env.sync,
		Checkout:      env.checkout,
		Catalog:       entitlement.NewCatalog(map[string]string{"basico": "p_b", "plus": "p_p", "vip": "p_v"}),
		WebhookSecret: "whsec_handlers",
		Routes:        routes,
	})
	env.app.now = func() time.Time { return testNow }
	return env
}
