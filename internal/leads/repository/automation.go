package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DueLead is a lead selected for follow-up processing, joined with the
// vendor name needed for template variables.
type DueLead struct {
	Lead
	VendorName string
}

// ListDue returns all leads whose automation is active and due at or before now.
func (r *Repository) ListDue(ctx context.Context, now time.Time) ([]DueLead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.id, l.vendor_id, l.name, l.phone, l.email, l.source, l.desired_date,
			l.guest_count, l.budget_range, l.raw_inquiry, l.parsed_summary, l.inquiry_type,
			l.status, l.priority, l.sequence_active, l.current_sequence_step,
			l.next_followup_at, l.followup_claimed_at, l.created_at, l.updated_at,
			v.name AS vendor_name
		FROM leads l
		JOIN vendors v ON v.id = l.vendor_id
		WHERE l.sequence_active = true AND l.next_followup_at <= $1
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	due := make([]DueLead, 0)
	for rows.Next() {
		var d DueLead
		err := rows.Scan(
			&d.ID, &d.VendorID, &d.Name, &d.Phone, &d.Email, &d.Source, &d.DesiredDate,
			&d.GuestCount, &d.BudgetRange, &d.RawInquiry, &d.ParsedSummary, &d.InquiryType,
			&d.Status, &d.Priority, &d.SequenceActive, &d.CurrentSequenceStep,
			&d.NextFollowupAt, &d.FollowupClaimedAt, &d.CreatedAt, &d.UpdatedAt,
			&d.VendorName,
		)
		if err != nil {
			return nil, err
		}
		due = append(due, d)
	}
	return due, rows.Err()
}

// ClaimDue atomically stamps a due lead as claimed by the current run.
// Returns false when another run already claimed it inside the stale window,
// or when the lead stopped being due since selection.
func (r *Repository) ClaimDue(ctx context.Context, id uuid.UUID, now time.Time, staleBefore time.Time) (bool, error) {
	var claimed uuid.UUID
	err := r.pool.QueryRow(ctx, `
		UPDATE leads SET followup_claimed_at = $2
		WHERE id = $1
			AND sequence_active = true
			AND next_followup_at <= $2
			AND (followup_claimed_at IS NULL OR followup_claimed_at < $3)
		RETURNING id
	`, id, now, staleBefore).Scan(&claimed)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ActivateAutomation seeds the automation state at step zero.
func (r *Repository) ActivateAutomation(ctx context.Context, id uuid.UUID, nextFollowupAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET
			sequence_active = true,
			current_sequence_step = 0,
			next_followup_at = $2,
			followup_claimed_at = NULL,
			updated_at = now()
		WHERE id = $1
	`, id, nextFollowupAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AdvanceAutomation moves the lead to the given step with its due time.
func (r *Repository) AdvanceAutomation(ctx context.Context, id uuid.UUID, step int, nextFollowupAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET
			current_sequence_step = $2,
			next_followup_at = $3,
			updated_at = now()
		WHERE id = $1
	`, id, step, nextFollowupAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateAutomation halts automated follow-up for the lead. When
// finalStep is non-nil the step counter is also set, recording how far the
// sequence ran before exhaustion.
func (r *Repository) DeactivateAutomation(ctx context.Context, id uuid.UUID, finalStep *int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET
			sequence_active = false,
			next_followup_at = NULL,
			current_sequence_step = COALESCE($2, current_sequence_step),
			updated_at = now()
		WHERE id = $1
	`, id, finalStep)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountActiveFollowups returns how many leads still have automation pending
// for the vendor.
func (r *Repository) CountActiveFollowups(ctx context.Context, vendorID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM leads
		WHERE vendor_id = $1 AND sequence_active = true AND next_followup_at IS NOT NULL
	`, vendorID).Scan(&count)
	return count, err
}
