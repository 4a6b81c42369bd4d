package repo

import (
	"context"
	"fmt"

	"companions/internal/domain"
	"companions/internal/infra"
	"companions/internal/sqlinline"
)

// ReviewRepositoryPG implements domain.ReviewRepository.
type ReviewRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewReviewRepository creates a ReviewRepositoryPG.
func NewReviewRepository(sql infra.SQLExecutor) *ReviewRepositoryPG {
	return &ReviewRepositoryPG{sql: sql}
}

// Create inserts a review; a second review by the same reviewer is a conflict.
func (r *ReviewRepositoryPG) Create(ctx context.Context, rv *domain.Review) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertReview, rv.CompanionID, rv.ReviewerAuthID, rv.Rating, rv.Comment)
	if err := row.Scan(&rv.ID, &rv.CreatedAt); err != nil {
		if infra.IsUniqueViolation(err) {
			return fmt.Errorf("review: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

// ListByCompanion pages through a companion's reviews, newest first.
func (r *ReviewRepositoryPG) ListByCompanion(ctx context.Context, companionID string, limit, offset int) ([]domain.Review, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListReviews, companionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.CompanionID, &rv.ReviewerAuthID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, rv)
	}
	return items, rows.Err()
}

var _ domain.ReviewRepository = (*ReviewRepositoryPG)(nil)
