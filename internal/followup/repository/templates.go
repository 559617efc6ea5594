package repository

import (
	"context"
	"errors"
	"time"

	"weddinglead_backend/internal/followup/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Template is a reusable message body keyed by trigger. ProviderTemplateID
// references the messaging provider's pre-approved Alimtalk template; when
// absent the dispatch gateway goes straight to SMS.
type Template struct {
	ID                 uuid.UUID
	VendorID           uuid.UUID
	Name               string
	Trigger            domain.Trigger
	Content            string
	ProviderTemplateID *string
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

const templateColumns = `id, vendor_id, name, trigger, content, provider_template_id,
	is_active, created_at, updated_at`

func scanTemplate(row pgx.Row) (Template, error) {
	var tpl Template
	err := row.Scan(&tpl.ID, &tpl.VendorID, &tpl.Name, &tpl.Trigger, &tpl.Content,
		&tpl.ProviderTemplateID, &tpl.IsActive, &tpl.CreatedAt, &tpl.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Template{}, ErrTemplateNotFound
	}
	if err != nil {
		return Template{}, err
	}
	return tpl, nil
}

type CreateTemplateParams struct {
	VendorID           uuid.UUID
	Name               string
	Trigger            domain.Trigger
	Content            string
	ProviderTemplateID *string
	IsActive           bool
}

func (r *Repository) CreateTemplate(ctx context.Context, params CreateTemplateParams) (Template, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO message_templates (vendor_id, name, trigger, content, provider_template_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+templateColumns,
		params.VendorID, params.Name, params.Trigger, params.Content,
		params.ProviderTemplateID, params.IsActive,
	)
	return scanTemplate(row)
}

func (r *Repository) GetTemplate(ctx context.Context, id, vendorID uuid.UUID) (Template, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+templateColumns+` FROM message_templates
		WHERE id = $1 AND vendor_id = $2
	`, id, vendorID)
	return scanTemplate(row)
}

func (r *Repository) ListTemplates(ctx context.Context, vendorID uuid.UUID) ([]Template, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+templateColumns+` FROM message_templates
		WHERE vendor_id = $1
		ORDER BY created_at DESC
	`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]Template, 0)
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

type UpdateTemplateParams struct {
	Name               *string
	Content            *string
	ProviderTemplateID *string
	IsActive           *bool
}

func (r *Repository) UpdateTemplate(ctx context.Context, id, vendorID uuid.UUID, params UpdateTemplateParams) (Template, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE message_templates SET
			name = COALESCE($3, name),
			content = COALESCE($4, content),
			provider_template_id = COALESCE($5, provider_template_id),
			is_active = COALESCE($6, is_active),
			updated_at = now()
		WHERE id = $1 AND vendor_id = $2
		RETURNING `+templateColumns,
		id, vendorID, params.Name, params.Content, params.ProviderTemplateID, params.IsActive,
	)
	return scanTemplate(row)
}

func (r *Repository) DeleteTemplate(ctx context.Context, id, vendorID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM message_templates WHERE id = $1 AND vendor_id = $2
	`, id, vendorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// GetActiveTemplate returns the vendor's active template for a trigger.
func (r *Repository) GetActiveTemplate(ctx context.Context, vendorID uuid.UUID, trigger domain.Trigger) (Template, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+templateColumns+` FROM message_templates
		WHERE vendor_id = $1 AND trigger = $2 AND is_active = true
		ORDER BY updated_at DESC
		LIMIT 1
	`, vendorID, trigger)
	return scanTemplate(row)
}
