package entitlement

import (
	"context"
	"fmt"
	"time"

	"companions/internal/domain"
	"companions/internal/identity"
)

// PlanFanout applies a plan to the companion listing and mirrors it into the
// user's session metadata.
type PlanFanout struct {
	listings PlanApplier
	metadata identity.MetadataWriter
}

// NewPlanFanout combines the listing store and the metadata writer.
func NewPlanFanout(listings PlanApplier, metadata identity.MetadataWriter) *PlanFanout {
	return &PlanFanout{listings: listings, metadata: metadata}
}

func (f *PlanFanout) ApplyPlan(ctx context.Context, authID string, plan domain.Plan, expiresAt *time.Time) error {
	if err := f.listings.ApplyPlan(ctx, authID, plan, expiresAt); err != nil {
		return err
	}
	if f.metadata == nil {
		return nil
	}
	if err := f.metadata.UpdateMetadata(ctx, authID, domain.MetadataPatch{Plan: &plan}); err != nil {
		return fmt.Errorf("mirror plan to metadata: %w", err)
	}
	return nil
}

var _ PlanApplier = (*PlanFanout)(nil)
