package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// BlockUser hides the caller's profile from another user.
func (a *App) BlockUser(w http.ResponseWriter, r *http.Request) {
	c, ok := a.ownCompanion(w, r)
	if !ok {
		return
	}
	target := chi.URLParam(r, "authID")
	if target == "" || target == c.AuthID {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid user to block")
		return
	}
	if err := a.Blocks.Block(r.Context(), c.ID, target); err != nil {
		a.fail(w, r, err, "failed to block user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnblockUser lifts a block.
func (a *App) UnblockUser(w http.ResponseWriter, r *http.Request) {
	c, ok := a.ownCompanion(w, r)
	if !ok {
		return
	}
	if err := a.Blocks.Unblock(r.Context(), c.ID, chi.URLParam(r, "authID")); err != nil {
		a.fail(w, r, err, "failed to unblock user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBlocks returns the users the caller has blocked.
func (a *App) ListBlocks(w http.ResponseWriter, r *http.Request) {
	c, ok := a.ownCompanion(w, r)
	if !ok {
		return
	}
	ids, err := a.Blocks.List(r.Context(), c.ID)
	if err != nil {
		a.fail(w, r, err, "failed to load blocks")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": ids})
}
