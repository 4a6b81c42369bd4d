package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"companions/internal/domain"
	"companions/pkg/zip"
)

type verifyRequest struct {
	Verified *bool  `json:"verified" validate:"required"`
	Notes    string `json:"notes" validate:"max=1000"`
}

type suspendRequest struct {
	Suspended *bool `json:"suspended" validate:"required"`
}

// PendingVerifications lists companions waiting for document review.
func (a *App) PendingVerifications(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	items, err := a.Companions.ListPendingVerification(r.Context(), limit)
	if err != nil {
		a.fail(w, r, err, "failed to load verification queue")
		return
	}
	out := make([]map[string]any, 0, len(items))
	for _, c := range items {
		docs, err := a.Documents.ListByAuthID(r.Context(), c.AuthID)
		if err != nil {
			a.fail(w, r, err, "failed to load documents")
			return
		}
		dtos := make([]documentDTO, 0, len(docs))
		for _, d := range docs {
			dtos = append(dtos, toDocumentDTO(d))
		}
		out = append(out, map[string]any{"companion": toCompanionDTO(c, a.now()), "documents": dtos})
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}

// VerifyCompanion records an admin decision. A rejection sends the companion
// back to the upload step.
func (a *App) VerifyCompanion(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !a.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	c, err := a.Companions.GetByID(r.Context(), id)
	if err != nil {
		a.fail(w, r, err, "companion not found")
		return
	}
	if err := a.Companions.SetVerified(r.Context(), id, *req.Verified, req.Notes, a.now()); err != nil {
		a.fail(w, r, err, "failed to record verification")
		return
	}
	if !*req.Verified {
		uploaded := false
		if err := a.Metadata.UpdateMetadata(r.Context(), c.AuthID, domain.MetadataPatch{HasUploadedDocs: &uploaded}); err != nil {
			a.fail(w, r, err, "failed to reset verification state")
			return
		}
	}
	zerolog.Ctx(r.Context()).Info().
		Str("companion_id", id).
		Bool("verified", *req.Verified).
		Str("admin_id", a.currentUserID(r)).
		Msg("admin: verification decided")
	a.json(w, http.StatusOK, map[string]any{"id": id, "verified": *req.Verified})
}

// SuspendCompanion hides or restores a listing.
func (a *App) SuspendCompanion(w http.ResponseWriter, r *http.Request) {
	var req suspendRequest
	if !a.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := a.Companions.SetSuspended(r.Context(), id, *req.Suspended); err != nil {
		a.fail(w, r, err, "companion not found")
		return
	}
	zerolog.Ctx(r.Context()).Info().
		Str("companion_id", id).
		Bool("suspended", *req.Suspended).
		Str("admin_id", a.currentUserID(r)).
		Msg("admin: suspension changed")
	a.json(w, http.StatusOK, map[string]any{"id": id, "suspended": *req.Suspended})
}

// DocumentsArchive downloads all of a companion's verification files as one
// zip for offline review.
func (a *App) DocumentsArchive(w http.ResponseWriter, r *http.Request) {
	c, err := a.Companions.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err, "companion not found")
		return
	}
	docs, err := a.Documents.ListByAuthID(r.Context(), c.AuthID)
	if err != nil {
		a.fail(w, r, err, "failed to load documents")
		return
	}
	if len(docs) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no documents uploaded")
		return
	}

	entries := make([]zip.Entry, 0, len(docs))
	for _, d := range docs {
		key := d.StoragePath
		entries = append(entries, zip.Entry{
			Name:     string(d.Type) + path.Ext(key),
			Modified: d.CreatedAt,
			Open: func() (io.ReadCloser, error) {
				return a.Store.Open(r.Context(), key)
			},
		})
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-documents.zip"`, c.Slug))
	skipped, err := zip.WriteArchive(w, entries)
	logger := zerolog.Ctx(r.Context())
	if err != nil {
		logger.Error().Err(err).Str("companion_id", c.ID).Msg("admin: documents archive aborted")
		return
	}
	if len(skipped) > 0 {
		logger.Warn().Strs("missing", skipped).Str("companion_id", c.ID).Msg("admin: documents missing from storage")
	}
}
