package access

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"companions/internal/domain"
)

// ProfileReader is the read side the resolver needs from storage.
type ProfileReader interface {
	GetByAuthID(ctx context.Context, authID string) (*domain.Companion, error)
}

// DocumentTypeReader lists the document types a user has uploaded.
type DocumentTypeReader interface {
	TypesByAuthID(ctx context.Context, authID string) ([]domain.DocumentType, error)
}

// VerificationStatus answers whether a companion is mid-verification.
type VerificationStatus struct {
	Registered         bool `json:"registered"`
	HasRequiredUploads bool `json:"has_required_uploads"`
	IsPending          bool `json:"is_pending"`
	Verified           bool `json:"verified"`
}

// Resolver derives verification status from profile and document rows. It
// never writes and reports every lookup failure as "not uploaded, not
// pending".
type Resolver struct {
	profiles  ProfileReader
	documents DocumentTypeReader
	logger    zerolog.Logger
}

// NewResolver wires a Resolver to its readers.
func NewResolver(profiles ProfileReader, documents DocumentTypeReader, logger zerolog.Logger) *Resolver {
	return &Resolver{profiles: profiles, documents: documents, logger: logger}
}

// Status resolves the verification state of authID.
func (r *Resolver) Status(ctx context.Context, authID string) VerificationStatus {
	if authID == "" {
		return VerificationStatus{}
	}
	profile, err := r.profiles.GetByAuthID(ctx, authID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Warn().Err(err).Str("auth_id", authID).Msg("verification: profile lookup failed")
		}
		return VerificationStatus{}
	}

	status := VerificationStatus{Registered: true, Verified: profile.Verified}
	types, err := r.documents.TypesByAuthID(ctx, authID)
	if err != nil {
		r.logger.Warn().Err(err).Str("auth_id", authID).Msg("verification: document lookup failed")
		status.Verified = false
		return status
	}
	status.HasRequiredUploads = domain.HasRequiredUploads(types)
	status.IsPending = status.HasRequiredUploads && !profile.Verified
	return status
}

// ProfileStatus adapts Status for the gate.
func (r *Resolver) ProfileStatus(ctx context.Context, authID string) ProfileStatus {
	s := r.Status(ctx, authID)
	return ProfileStatus{
		Registered:         s.Registered,
		HasRequiredUploads: s.HasRequiredUploads,
		IsPending:          s.IsPending,
	}
}
