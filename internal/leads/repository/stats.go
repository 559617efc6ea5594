package repository

import (
	"context"
	"time"

	"weddinglead_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// WeeklyStats aggregates a vendor's pipeline movement over a date range.
type WeeklyStats struct {
	NewLeads   int
	Contacted  int
	QuoteSent  int
	Contracted int
	Lost       int
}

// HasActivity reports whether anything moved during the range.
func (s WeeklyStats) HasActivity() bool {
	return s.NewLeads+s.Contacted+s.QuoteSent+s.Contracted+s.Lost > 0
}

// AggregateWeeklyStats counts creations and status transitions inside
// [from, to) for the vendor.
func (r *Repository) AggregateWeeklyStats(ctx context.Context, vendorID uuid.UUID, from, to time.Time) (WeeklyStats, error) {
	var stats WeeklyStats

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM leads
		WHERE vendor_id = $1 AND created_at >= $2 AND created_at < $3
	`, vendorID, from, to).Scan(&stats.NewLeads)
	if err != nil {
		return WeeklyStats{}, err
	}

	statusCounts := map[domain.Status]*int{
		domain.StatusContacted:  &stats.Contacted,
		domain.StatusQuoteSent:  &stats.QuoteSent,
		domain.StatusContracted: &stats.Contracted,
		domain.StatusLost:       &stats.Lost,
	}
	for status, target := range statusCounts {
		err := r.pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM leads
			WHERE vendor_id = $1 AND status = $2 AND updated_at >= $3 AND updated_at < $4
		`, vendorID, status, from, to).Scan(target)
		if err != nil {
			return WeeklyStats{}, err
		}
	}

	return stats, nil
}
