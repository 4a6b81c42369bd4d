package repo

import (
	"context"
	"fmt"
	"time"

	"companions/internal/domain"
	"companions/internal/infra"
	"companions/internal/sqlinline"
)

// CompanionRepositoryPG implements domain.CompanionRepository.
type CompanionRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewCompanionRepository creates a CompanionRepositoryPG.
func NewCompanionRepository(sql infra.SQLExecutor) *CompanionRepositoryPG {
	return &CompanionRepositoryPG{sql: sql}
}

// Create inserts the profile and its characteristics in one statement. A
// second profile for the same auth id yields domain.ErrConflict.
func (r *CompanionRepositoryPG) Create(ctx context.Context, c *domain.Companion) error {
	ch := c.Characteristics
	row := r.sql.QueryRow(ctx, sqlinline.QInsertCompanion,
		c.AuthID, c.Slug, c.Name, c.Age, c.City, c.CitySlug, c.Phone, c.Description, c.PricePerHour,
		ch.HeightCM, ch.Ethnicity, ch.HairColor, ch.EyeColor, ch.BodyType,
	)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if infra.IsUniqueViolation(err) {
			return fmt.Errorf("companion for %s: %w", c.AuthID, domain.ErrConflict)
		}
		return err
	}
	c.Plan = domain.PlanFree
	return nil
}

// Update rewrites the editable profile fields.
func (r *CompanionRepositoryPG) Update(ctx context.Context, c *domain.Companion) error {
	ch := c.Characteristics
	row := r.sql.QueryRow(ctx, sqlinline.QUpdateCompanion,
		c.ID, c.Name, c.Age, c.City, c.CitySlug, c.Phone, c.Description, c.PricePerHour,
		ch.HeightCM, ch.Ethnicity, ch.HairColor, ch.EyeColor, ch.BodyType,
	)
	if err := row.Scan(&c.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// GetByAuthID fetches the profile owned by an identity-provider user.
func (r *CompanionRepositoryPG) GetByAuthID(ctx context.Context, authID string) (*domain.Companion, error) {
	return scanCompanion(r.sql.QueryRow(ctx, sqlinline.QSelectCompanionByAuthID, authID))
}

// GetBySlug fetches a listed profile, hiding suspended profiles and profiles
// that blocked viewerAuthID.
func (r *CompanionRepositoryPG) GetBySlug(ctx context.Context, slug string, viewerAuthID string) (*domain.Companion, error) {
	return scanCompanion(r.sql.QueryRow(ctx, sqlinline.QSelectCompanionBySlug, slug, viewerAuthID))
}

// GetByID fetches a profile by primary key regardless of visibility.
func (r *CompanionRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Companion, error) {
	return scanCompanion(r.sql.QueryRow(ctx, sqlinline.QSelectCompanionByID, id))
}

// List returns visible profiles matching f, paid tiers first.
func (r *CompanionRepositoryPG) List(ctx context.Context, f domain.CompanionFilter) ([]domain.Companion, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 24
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListCompanions,
		f.CitySlug, f.MinAge, f.MaxAge, f.MinPrice, f.MaxPrice, f.Ethnicity, f.HairColor, f.VerifiedOnly, f.ViewerAuthID,
		limit, f.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Companion
	for rows.Next() {
		c, err := scanCompanion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Cities counts visible profiles per city.
func (r *CompanionRepositoryPG) Cities(ctx context.Context) ([]domain.CitySummary, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListCities)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CitySummary
	for rows.Next() {
		var s domain.CitySummary
		if err := rows.Scan(&s.City, &s.CitySlug, &s.Count); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// SetVerified records an admin decision on the profile and all its documents.
func (r *CompanionRepositoryPG) SetVerified(ctx context.Context, id string, verified bool, notes string, at time.Time) error {
	var authID string
	if err := r.sql.QueryRow(ctx, sqlinline.QSetCompanionVerified, id, verified, at, notes).Scan(&authID); err != nil {
		if infra.IsNoRows(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// SetSuspended hides or restores a profile.
func (r *CompanionRepositoryPG) SetSuspended(ctx context.Context, id string, suspended bool) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QSetCompanionSuspended, id, suspended)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListPendingVerification returns unverified profiles holding the full
// document set, oldest first.
func (r *CompanionRepositoryPG) ListPendingVerification(ctx context.Context, limit int) ([]domain.Companion, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListPendingVerification, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Companion
	for rows.Next() {
		c, err := scanCompanion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// ApplyPlan sets the listing tier of the profile owned by authID. Users
// without a profile are silently skipped.
func (r *CompanionRepositoryPG) ApplyPlan(ctx context.Context, authID string, plan domain.Plan, expiresAt *time.Time) error {
	_, err := r.sql.Exec(ctx, sqlinline.QApplyCompanionPlan, authID, string(plan), expiresAt)
	return err
}

// DowngradeExpired resets lapsed paid tiers to free.
func (r *CompanionRepositoryPG) DowngradeExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.sql.Exec(ctx, sqlinline.QDowngradeExpiredPlans, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCompanion(row scanner) (*domain.Companion, error) {
	var c domain.Companion
	var plan string
	if err := row.Scan(
		&c.ID, &c.AuthID, &c.Slug, &c.Name, &c.Age, &c.City, &c.CitySlug, &c.Phone, &c.Description, &c.PricePerHour,
		&plan, &c.PlanExpiresAt, &c.Verified, &c.VerificationDate, &c.Suspended, &c.CreatedAt, &c.UpdatedAt,
		&c.Characteristics.HeightCM, &c.Characteristics.Ethnicity, &c.Characteristics.HairColor,
		&c.Characteristics.EyeColor, &c.Characteristics.BodyType,
		&c.RatingAverage, &c.RatingCount,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	c.Plan, _ = domain.ParsePlan(plan)
	return &c, nil
}

var _ domain.CompanionRepository = (*CompanionRepositoryPG)(nil)
