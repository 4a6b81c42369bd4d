// Package access decides, per request, whether a caller may reach a path or
// must first finish an earlier onboarding step.
//
// The decision is a pure function of the request path, the session snapshot
// and (for companions only) the profile status read from the database. Nothing
// is cached between requests.
package access

import "companions/internal/domain"

// Action is the outcome kind of a gate decision.
type Action int

const (
	Allow Action = iota
	Redirect
)

// Reason names the rule that produced a decision.
type Reason string

const (
	ReasonPublic              Reason = "public"
	ReasonUnauthenticated     Reason = "unauthenticated"
	ReasonOnboarding          Reason = "onboarding_incomplete"
	ReasonRegistration        Reason = "registration_incomplete"
	ReasonVerificationUpload  Reason = "documents_missing"
	ReasonVerificationPending Reason = "verification_pending"
	ReasonComplete            Reason = "complete"
)

// Decision is the gate's verdict for one request.
type Decision struct {
	Action Action
	Target string
	Reason Reason
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool {
	return d.Action == Allow
}

// ProfileStatus is what the gate needs to know about a companion's stored
// profile. The zero value means "nothing registered", which fails closed.
type ProfileStatus struct {
	Registered         bool
	HasRequiredUploads bool
	IsPending          bool
}

// Gate evaluates the route table against a session.
type Gate struct {
	routes *RouteTable
}

// NewGate builds a gate over routes.
func NewGate(routes *RouteTable) *Gate {
	return &Gate{routes: routes}
}

// Routes exposes the table the gate evaluates.
func (g *Gate) Routes() *RouteTable {
	return g.routes
}

// NeedsProfile reports whether Decide will consult ProfileStatus for this
// request. Callers use it to skip the database read for everyone else.
func (g *Gate) NeedsProfile(p string, s *domain.Session) bool {
	return s.Authenticated() &&
		!g.routes.IsPublic(p) &&
		s.Metadata.OnboardingComplete &&
		s.Metadata.IsCompanion
}

// Decide applies the rules in order; the first match wins.
func (g *Gate) Decide(p string, s *domain.Session, status ProfileStatus) Decision {
	p = cleanPath(p)
	rd := g.routes.Redirects
	public := g.routes.IsPublic(p)

	switch {
	case public:
		return allow(ReasonPublic)
	case !s.Authenticated():
		return redirect(rd.SignIn, ReasonUnauthenticated)
	}

	md := s.Metadata
	if !md.OnboardingComplete {
		return stayWithin(p, rd.Onboarding, ReasonOnboarding)
	}
	if md.IsCompanion {
		if !status.Registered {
			return stayWithin(p, rd.Registration, ReasonRegistration)
		}
		if !md.HasUploadedDocs {
			return stayWithin(p, rd.VerificationUpload, ReasonVerificationUpload)
		}
		if status.IsPending && g.routes.IsVerifiedOnly(p) {
			return redirect(rd.VerificationPending, ReasonVerificationPending)
		}
	}
	return allow(ReasonComplete)
}

// stayWithin allows p only when it already sits under target.
func stayWithin(p, target string, reason Reason) Decision {
	if hasPathPrefix(p, target) {
		return allow(reason)
	}
	return redirect(target, reason)
}

func allow(reason Reason) Decision {
	return Decision{Action: Allow, Reason: reason}
}

func redirect(target string, reason Reason) Decision {
	return Decision{Action: Redirect, Target: target, Reason: reason}
}
