package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("vendor not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Vendor is a wedding-service business using the platform.
type Vendor struct {
	ID              uuid.UUID
	Name            string
	Phone           string
	Email           *string
	SlackWebhookURL *string
	BusinessType    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const vendorColumns = `id, name, phone, email, slack_webhook_url, business_type, created_at, updated_at`

func scanVendor(row pgx.Row) (Vendor, error) {
	var v Vendor
	err := row.Scan(&v.ID, &v.Name, &v.Phone, &v.Email, &v.SlackWebhookURL,
		&v.BusinessType, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Vendor{}, ErrNotFound
	}
	if err != nil {
		return Vendor{}, err
	}
	return v, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Vendor, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id)
	return scanVendor(row)
}

// List returns every vendor, used by the weekly report run.
func (r *Repository) List(ctx context.Context) ([]Vendor, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+vendorColumns+` FROM vendors ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vendors := make([]Vendor, 0)
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

type UpdateSettingsParams struct {
	Name            *string
	Phone           *string
	Email           *string
	SlackWebhookURL *string
	BusinessType    *string
}

func (r *Repository) UpdateSettings(ctx context.Context, id uuid.UUID, params UpdateSettingsParams) (Vendor, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE vendors SET
			name = COALESCE($2, name),
			phone = COALESCE($3, phone),
			email = COALESCE($4, email),
			slack_webhook_url = COALESCE($5, slack_webhook_url),
			business_type = COALESCE($6, business_type),
			updated_at = now()
		WHERE id = $1
		RETURNING `+vendorColumns,
		id, params.Name, params.Phone, params.Email, params.SlackWebhookURL, params.BusinessType,
	)
	return scanVendor(row)
}
