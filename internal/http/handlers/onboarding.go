package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"companions/internal/domain"
)

type onboardingRequest struct {
	Role string `json:"role" validate:"required,oneof=companion client"`
}

// CompleteOnboarding records the caller's role at the identity provider. The
// new metadata reaches the gate with the next session token.
func (a *App) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	var req onboardingRequest
	if !a.decode(w, r, &req) {
		return
	}
	s := a.session(r)
	if s.Metadata.OnboardingComplete {
		a.error(w, http.StatusConflict, "conflict", "onboarding already completed")
		return
	}

	done := true
	isCompanion := req.Role == "companion"
	plan := domain.PlanFree
	patch := domain.MetadataPatch{OnboardingComplete: &done, IsCompanion: &isCompanion, Plan: &plan}
	if err := a.Metadata.UpdateMetadata(r.Context(), s.UserID, patch); err != nil {
		a.fail(w, r, err, "failed to save onboarding")
		return
	}
	zerolog.Ctx(r.Context()).Info().Str("role", req.Role).Msg("onboarding completed")

	next := "/"
	if isCompanion {
		next = a.Routes.Redirects.Registration
	}
	a.json(w, http.StatusOK, map[string]any{"role": req.Role, "next": next})
}
