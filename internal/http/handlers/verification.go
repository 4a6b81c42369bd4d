package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"companions/internal/domain"
	"companions/internal/storage"
)

const (
	maxVideoBytes = 50 << 20
	maxImageBytes = 10 << 20
	multipartSlop = 1 << 20
)

// UploadDocument stores one verification file for the caller. Once the
// required set is complete the session metadata is flagged accordingly.
func (a *App) UploadDocument(w http.ResponseWriter, r *http.Request) {
	c, ok := a.ownCompanion(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxVideoBytes+multipartSlop)
	mr, err := r.MultipartReader()
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "multipart form expected")
		return
	}

	var docType domain.DocumentType
	var obj storage.Object
	for obj.Key == "" {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if tooLarge(err) {
				a.error(w, http.StatusRequestEntityTooLarge, "too_large", "file exceeds the size limit")
				return
			}
			a.error(w, http.StatusBadRequest, "bad_request", "malformed multipart body")
			return
		}
		switch part.FormName() {
		case "document_type":
			raw, _ := io.ReadAll(io.LimitReader(part, 64))
			t, ok := domain.ParseDocumentType(strings.TrimSpace(string(raw)))
			if !ok {
				part.Close()
				a.error(w, http.StatusBadRequest, "bad_request", "unknown document_type")
				return
			}
			docType = t
		case "file":
			if docType == "" {
				part.Close()
				a.error(w, http.StatusBadRequest, "bad_request", "document_type must precede file")
				return
			}
			limit := int64(maxImageBytes)
			if docType.IsVideo() {
				limit = maxVideoBytes
			}
			key := storage.DocumentKey(c.AuthID, string(docType), filepath.Ext(part.FileName()))
			obj, err = a.Store.Put(r.Context(), key, part, limit)
			if err != nil {
				part.Close()
				if tooLarge(err) {
					a.error(w, http.StatusRequestEntityTooLarge, "too_large", "file exceeds the size limit")
					return
				}
				a.fail(w, r, err, "failed to store file")
				return
			}
		}
		part.Close()
	}
	if obj.Key == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "file is required")
		return
	}

	doc := &domain.Document{
		AuthID:      c.AuthID,
		CompanionID: c.ID,
		Type:        docType,
		StoragePath: obj.Key,
		PublicURL:   obj.URL,
	}
	if err := a.Documents.Create(r.Context(), doc); err != nil {
		if delErr := a.Store.Delete(r.Context(), obj.Key); delErr != nil {
			zerolog.Ctx(r.Context()).Warn().Err(delErr).Str("key", obj.Key).Msg("storage: orphaned upload")
		}
		a.fail(w, r, err, "failed to save document")
		return
	}

	status := a.Verification.Status(r.Context(), c.AuthID)
	if status.HasRequiredUploads && !a.session(r).Metadata.HasUploadedDocs {
		uploaded := true
		// The flag is re-derived from the documents table on the next upload.
		if err := a.Metadata.UpdateMetadata(r.Context(), c.AuthID, domain.MetadataPatch{HasUploadedDocs: &uploaded}); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Str("auth_id", c.AuthID).Msg("verification: metadata flag not updated")
		}
	}

	a.json(w, http.StatusCreated, map[string]any{
		"document": toDocumentDTO(*doc),
		"status":   status,
	})
}

// tooLarge reports whether err comes from the per-file or the request body cap.
func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.Is(err, storage.ErrTooLarge) || errors.As(err, &maxErr)
}

// VerificationStatus reports the caller's verification progress.
func (a *App) VerificationStatus(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Verification.Status(r.Context(), a.currentUserID(r)))
}

// VerificationPending is the holding page payload for companions awaiting
// review.
func (a *App) VerificationPending(w http.ResponseWriter, r *http.Request) {
	status := a.Verification.Status(r.Context(), a.currentUserID(r))
	next := ""
	switch {
	case !status.Registered:
		next = a.Routes.Redirects.Registration
	case !status.HasRequiredUploads:
		next = a.Routes.Redirects.VerificationUpload
	case status.Verified:
		next = "/dashboard"
	}
	a.json(w, http.StatusOK, map[string]any{"status": status, "next": next})
}
