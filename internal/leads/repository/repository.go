package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"weddinglead_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID                  uuid.UUID
	VendorID            uuid.UUID
	Name                string
	Phone               string
	Email               *string
	Source              domain.Source
	DesiredDate         *time.Time
	GuestCount          *int
	BudgetRange         *string
	RawInquiry          string
	ParsedSummary       *string
	InquiryType         *string
	Status              domain.Status
	Priority            domain.Priority
	SequenceActive      bool
	CurrentSequenceStep int
	NextFollowupAt      *time.Time
	FollowupClaimedAt   *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

const leadColumns = `id, vendor_id, name, phone, email, source, desired_date, guest_count,
	budget_range, raw_inquiry, parsed_summary, inquiry_type, status, priority,
	sequence_active, current_sequence_step, next_followup_at, followup_claimed_at,
	created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.VendorID, &lead.Name, &lead.Phone, &lead.Email, &lead.Source,
		&lead.DesiredDate, &lead.GuestCount, &lead.BudgetRange, &lead.RawInquiry,
		&lead.ParsedSummary, &lead.InquiryType, &lead.Status, &lead.Priority,
		&lead.SequenceActive, &lead.CurrentSequenceStep, &lead.NextFollowupAt,
		&lead.FollowupClaimedAt, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

type CreateLeadParams struct {
	VendorID      uuid.UUID
	Name          string
	Phone         string
	Email         *string
	Source        domain.Source
	DesiredDate   *time.Time
	GuestCount    *int
	BudgetRange   *string
	RawInquiry    string
	ParsedSummary *string
	InquiryType   *string
	Priority      domain.Priority
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			vendor_id, name, phone, email, source, desired_date, guest_count,
			budget_range, raw_inquiry, parsed_summary, inquiry_type, status, priority
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+leadColumns,
		params.VendorID, params.Name, params.Phone, params.Email, params.Source,
		params.DesiredDate, params.GuestCount, params.BudgetRange, params.RawInquiry,
		params.ParsedSummary, params.InquiryType, domain.StatusNew, params.Priority,
	)
	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, id, vendorID uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads WHERE id = $1 AND vendor_id = $2
	`, id, vendorID)
	return scanLead(row)
}

type ListFilter struct {
	Status *domain.Status
	Search string
	Limit  int
	Offset int
}

func (r *Repository) List(ctx context.Context, vendorID uuid.UUID, filter ListFilter) ([]Lead, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT ` + leadColumns + ` FROM leads WHERE vendor_id = $1`)
	args := []any{vendorID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query.WriteString(fmt.Sprintf(" AND status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query.WriteString(fmt.Sprintf(" AND (name ILIKE $%d OR phone ILIKE $%d)", len(args), len(args)))
	}

	query.WriteString(" ORDER BY created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	args = append(args, limit)
	query.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	rows, err := r.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

type UpdateLeadParams struct {
	Name        *string
	Phone       *string
	Email       *string
	DesiredDate *time.Time
	GuestCount  *int
	BudgetRange *string
	Priority    *domain.Priority
}

func (r *Repository) Update(ctx context.Context, id, vendorID uuid.UUID, params UpdateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET
			name = COALESCE($3, name),
			phone = COALESCE($4, phone),
			email = COALESCE($5, email),
			desired_date = COALESCE($6, desired_date),
			guest_count = COALESCE($7, guest_count),
			budget_range = COALESCE($8, budget_range),
			priority = COALESCE($9, priority),
			updated_at = now()
		WHERE id = $1 AND vendor_id = $2
		RETURNING `+leadColumns,
		id, vendorID, params.Name, params.Phone, params.Email,
		params.DesiredDate, params.GuestCount, params.BudgetRange, params.Priority,
	)
	return scanLead(row)
}

func (r *Repository) UpdateStatus(ctx context.Context, id, vendorID uuid.UUID, status domain.Status) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET status = $3, updated_at = now()
		WHERE id = $1 AND vendor_id = $2
		RETURNING `+leadColumns,
		id, vendorID, status,
	)
	return scanLead(row)
}
