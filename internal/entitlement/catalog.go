package entitlement

import (
	"fmt"
	"sort"

	"companions/internal/domain"
)

// PlanSpec is one purchasable visibility tier.
type PlanSpec struct {
	Plan         domain.Plan `json:"plan"`
	DurationDays int         `json:"duration_days"`
	PriceID      string      `json:"-"`
}

var planDurations = map[domain.Plan]int{
	domain.PlanBasico: 7,
	domain.PlanPlus:   15,
	domain.PlanVIP:    30,
}

// Catalog maps paid plans to their duration and provider price.
type Catalog struct {
	plans map[domain.Plan]PlanSpec
}

// NewCatalog builds the catalog from plan name to provider price id. Plans
// without a price are listed but can not be checked out.
func NewCatalog(prices map[string]string) *Catalog {
	c := &Catalog{plans: make(map[domain.Plan]PlanSpec, len(planDurations))}
	for plan, days := range planDurations {
		c.plans[plan] = PlanSpec{Plan: plan, DurationDays: days, PriceID: prices[string(plan)]}
	}
	return c
}

// Lookup returns the spec of a paid plan.
func (c *Catalog) Lookup(plan domain.Plan) (PlanSpec, error) {
	spec, ok := c.plans[plan]
	if !ok {
		return PlanSpec{}, fmt.Errorf("plan %q: %w", plan, domain.ErrUnsupportedPlan)
	}
	return spec, nil
}

// Purchasable returns the spec of a plan that has a configured price.
func (c *Catalog) Purchasable(plan domain.Plan) (PlanSpec, error) {
	spec, err := c.Lookup(plan)
	if err != nil {
		return PlanSpec{}, err
	}
	if spec.PriceID == "" {
		return PlanSpec{}, fmt.Errorf("plan %q has no price: %w", plan, domain.ErrUnsupportedPlan)
	}
	return spec, nil
}

// Plans lists paid plans from cheapest to most visible.
func (c *Catalog) Plans() []PlanSpec {
	out := make([]PlanSpec, 0, len(c.plans))
	for _, spec := range c.plans {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Plan.Rank() < out[j].Plan.Rank() })
	return out
}
