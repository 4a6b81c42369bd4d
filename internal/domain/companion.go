package domain

import "time"

// Companion is a registered seller profile listed in the marketplace.
type Companion struct {
	ID               string
	AuthID           string
	Slug             string
	Name             string
	Age              int
	City             string
	CitySlug         string
	Phone            string
	Description      string
	PricePerHour     int
	Plan             Plan
	PlanExpiresAt    *time.Time
	Verified         bool
	VerificationDate *time.Time
	Suspended        bool
	Characteristics  Characteristics
	RatingAverage    float64
	RatingCount      int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Characteristics holds the filterable physical attributes of a profile.
type Characteristics struct {
	HeightCM  *int
	Ethnicity string
	HairColor string
	EyeColor  string
	BodyType  string
}

// ActivePlan returns the listing tier at now, falling back to free once the
// paid period has lapsed.
func (c Companion) ActivePlan(now time.Time) Plan {
	if !c.Plan.IsPaid() || c.PlanExpiresAt == nil || !now.Before(*c.PlanExpiresAt) {
		return PlanFree
	}
	return c.Plan
}

// CompanionFilter narrows listing queries. Zero values mean "no constraint".
type CompanionFilter struct {
	CitySlug     string
	MinAge       int
	MaxAge       int
	MinPrice     int
	MaxPrice     int
	Ethnicity    string
	HairColor    string
	VerifiedOnly bool
	ViewerAuthID string
	Limit        int
	Offset       int
}

// CitySummary counts visible companions per city.
type CitySummary struct {
	City     string
	CitySlug string
	Count    int
}
