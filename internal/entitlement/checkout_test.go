package entitlement

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companions/internal/domain"
)

func testCatalog() *Catalog {
	return NewCatalog(map[string]string{"basico": "price_b", "plus": "price_p", "vip": "price_v"})
}

func TestCheckout_CreatesCustomerOnce(t *testing.T) {
	provider := &fakeProvider{}
	billing := newFakeBilling()
	c := NewCheckout(provider, billing, testCatalog(), "https://market.test/", zerolog.Nop())

	url, err := c.Start(context.Background(), "user_1", "a@b.test", domain.PlanVIP)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.test/cus_user_1", url)

	_, err = c.Start(context.Background(), "user_1", "a@b.test", domain.PlanPlus)
	require.NoError(t, err)

	assert.Equal(t, []string{"user_1"}, provider.created)
	require.Len(t, provider.checkouts, 2)
	assert.Equal(t, "price_v", provider.checkouts[0].Spec.PriceID)
	assert.Equal(t, 30, provider.checkouts[0].Spec.DurationDays)
	assert.Equal(t, "https://market.test/billing?checkout=success", provider.checkouts[0].SuccessURL)
}

func TestCheckout_RejectsFreeAndUnpricedPlans(t *testing.T) {
	c := NewCheckout(&fakeProvider{}, newFakeBilling(), NewCatalog(map[string]string{"vip": "price_v"}), "", zerolog.Nop())

	_, err := c.Start(context.Background(), "user_1", "", domain.PlanFree)
	assert.ErrorIs(t, err, domain.ErrUnsupportedPlan)

	_, err = c.Start(context.Background(), "user_1", "", domain.PlanBasico)
	assert.ErrorIs(t, err, domain.ErrUnsupportedPlan)
}

func TestCatalog_PlansOrderedByRank(t *testing.T) {
	plans := testCatalog().Plans()
	require.Len(t, plans, 3)
	assert.Equal(t, domain.PlanBasico, plans[0].Plan)
	assert.Equal(t, 7, plans[0].DurationDays)
	assert.Equal(t, domain.PlanPlus, plans[1].Plan)
	assert.Equal(t, 15, plans[1].DurationDays)
	assert.Equal(t, domain.PlanVIP, plans[2].Plan)
}
