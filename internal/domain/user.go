package domain

import "strings"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// Plan enumerates visibility tiers.
type Plan string

const (
	PlanFree   Plan = "free"
	PlanBasico Plan = "basico"
	PlanPlus   Plan = "plus"
	PlanVIP    Plan = "vip"
)

// ParsePlan normalizes a plan name. Unknown values map to PlanFree and ok=false.
func ParsePlan(s string) (Plan, bool) {
	switch p := Plan(strings.ToLower(strings.TrimSpace(s))); p {
	case PlanFree, PlanBasico, PlanPlus, PlanVIP:
		return p, true
	}
	return PlanFree, false
}

// Rank orders plans for listing precedence; higher ranks list first.
func (p Plan) Rank() int {
	switch p {
	case PlanVIP:
		return 3
	case PlanPlus:
		return 2
	case PlanBasico:
		return 1
	}
	return 0
}

// IsPaid reports whether the plan is a purchased tier.
func (p Plan) IsPaid() bool {
	return p.Rank() > 0
}

// Metadata is the per-user blob stored by the identity provider and echoed in
// session claims. Absent fields decode to their zero value, which always means
// "step not completed".
type Metadata struct {
	OnboardingComplete bool     `json:"onboardingComplete,omitempty"`
	IsCompanion        bool     `json:"isCompanion,omitempty"`
	Plan               Plan     `json:"plan,omitempty"`
	HasUploadedDocs    bool     `json:"hasUploadedDocs,omitempty"`
	Role               UserRole `json:"role,omitempty"`
}

// EffectivePlan returns the plan, treating unknown or empty values as free.
func (m Metadata) EffectivePlan() Plan {
	p, _ := ParsePlan(string(m.Plan))
	return p
}

// IsAdmin reports whether the metadata carries the admin role.
func (m Metadata) IsAdmin() bool {
	return m.Role == UserRoleAdmin
}

// MetadataPatch lists the fields to change at the identity provider. Nil
// fields are left untouched.
type MetadataPatch struct {
	OnboardingComplete *bool `json:"onboardingComplete,omitempty"`
	IsCompanion        *bool `json:"isCompanion,omitempty"`
	Plan               *Plan `json:"plan,omitempty"`
	HasUploadedDocs    *bool `json:"hasUploadedDocs,omitempty"`
}

// Session is the verified identity of the caller plus the metadata snapshot
// carried in its token. A nil *Session or an empty UserID is unauthenticated.
type Session struct {
	UserID   string
	Metadata Metadata
}

// Authenticated reports whether s identifies a signed-in user.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}
