package repo

import (
	"context"
	"time"

	"companions/internal/domain"
	"companions/internal/infra"
	"companions/internal/sqlinline"
)

// AnalyticsRepositoryPG implements domain.AnalyticsRepository.
type AnalyticsRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAnalyticsRepository constructs the repository.
func NewAnalyticsRepository(sql infra.SQLExecutor) *AnalyticsRepositoryPG {
	return &AnalyticsRepositoryPG{sql: sql}
}

// Record appends one event.
func (r *AnalyticsRepositoryPG) Record(ctx context.Context, e domain.AnalyticsEvent) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertAnalyticsEvent, e.CompanionID, string(e.Type), e.ViewerAuthID, e.Country)
	return err
}

// Summary aggregates a companion's events since the given time.
func (r *AnalyticsRepositoryPG) Summary(ctx context.Context, companionID string, since time.Time) (*domain.AnalyticsSummary, error) {
	summary := &domain.AnalyticsSummary{
		Since:     since,
		Totals:    map[domain.EventType]int{},
		ByCountry: map[string]int{},
	}

	rows, err := r.sql.Query(ctx, sqlinline.QAnalyticsTotals, companionID, since)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var eventType string
		var n int
		if err := rows.Scan(&eventType, &n); err != nil {
			rows.Close()
			return nil, err
		}
		summary.Totals[domain.EventType(eventType)] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.sql.Query(ctx, sqlinline.QAnalyticsByCountry, companionID, since)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var country string
		var n int
		if err := rows.Scan(&country, &n); err != nil {
			rows.Close()
			return nil, err
		}
		summary.ByCountry[country] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.sql.QueryRow(ctx, sqlinline.QAnalyticsUniqueViewers, companionID, since).Scan(&summary.UniqueViewer); err != nil {
		return nil, err
	}
	return summary, nil
}

// Stats returns public marketplace counters.
func (r *AnalyticsRepositoryPG) Stats(ctx context.Context) (*domain.StatsSummary, error) {
	var s domain.StatsSummary
	if err := r.sql.QueryRow(ctx, sqlinline.QStatsSummary).Scan(&s.Companions, &s.Verified, &s.Cities, &s.Reviews); err != nil {
		return nil, err
	}
	return &s, nil
}

var _ domain.AnalyticsRepository = (*AnalyticsRepositoryPG)(nil)
