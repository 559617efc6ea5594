// Package repository persists outbound message records.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"weddinglead_backend/internal/messaging/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("message not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Message is one outbound send. It is created pending, updated once with
// the synchronous send result, and optionally promoted by the delivery
// callback afterwards.
type Message struct {
	ID                uuid.UUID
	LeadID            uuid.UUID
	TemplateID        *uuid.UUID
	Channel           domain.Channel
	Content           string
	Status            domain.Status
	ProviderMessageID *string
	SentAt            *time.Time
	CreatedAt         time.Time
}

const messageColumns = `id, lead_id, template_id, channel, content, status,
	provider_message_id, sent_at, created_at`

func scanMessage(row pgx.Row) (Message, error) {
	var m Message
	err := row.Scan(&m.ID, &m.LeadID, &m.TemplateID, &m.Channel, &m.Content,
		&m.Status, &m.ProviderMessageID, &m.SentAt, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Message{}, ErrNotFound
	}
	if err != nil {
		return Message{}, err
	}
	return m, nil
}

type CreatePendingParams struct {
	LeadID     uuid.UUID
	TemplateID *uuid.UUID
	Channel    domain.Channel
	Content    string
}

// CreatePending inserts a message in the pending state before dispatch.
func (r *Repository) CreatePending(ctx context.Context, params CreatePendingParams) (Message, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO messages (lead_id, template_id, channel, content, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+messageColumns,
		params.LeadID, params.TemplateID, params.Channel, params.Content, domain.StatusPending,
	)
	return scanMessage(row)
}

type MarkResultParams struct {
	Status            domain.Status
	Channel           domain.Channel
	ProviderMessageID *string
	SentAt            *time.Time
}

// MarkResult records the synchronous dispatch outcome, including the
// channel that actually carried the message.
func (r *Repository) MarkResult(ctx context.Context, id uuid.UUID, params MarkResultParams) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE messages SET
			status = $2,
			channel = $3,
			provider_message_id = $4,
			sent_at = $5
		WHERE id = $1
	`, id, params.Status, params.Channel, params.ProviderMessageID, params.SentAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByProviderMessageID looks up a message by the provider's identifier.
func (r *Repository) GetByProviderMessageID(ctx context.Context, providerMessageID string) (Message, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE provider_message_id = $1
	`, providerMessageID)
	return scanMessage(row)
}

// UpdateDeliveryStatus applies a callback status. sent_at is stamped only
// on the first transition to delivered, which keeps duplicate callbacks
// idempotent.
func (r *Repository) UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, status domain.Status, deliveredAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE messages SET
			status = $2,
			sent_at = CASE
				WHEN $2 = 'delivered' AND status <> 'delivered' THEN $3
				ELSE sent_at
			END
		WHERE id = $1
	`, id, status, deliveredAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type ListFilter struct {
	LeadID *uuid.UUID
	Limit  int
	Offset int
}

// List returns the vendor's messages, newest first, optionally scoped to
// one lead. Vendor ownership is enforced through the leads join.
func (r *Repository) List(ctx context.Context, vendorID uuid.UUID, filter ListFilter) ([]Message, error) {
	query := `
		SELECT m.id, m.lead_id, m.template_id, m.channel, m.content, m.status,
			m.provider_message_id, m.sent_at, m.created_at
		FROM messages m
		JOIN leads l ON l.id = m.lead_id
		WHERE l.vendor_id = $1`
	args := []any{vendorID}

	if filter.LeadID != nil {
		args = append(args, *filter.LeadID)
		query += ` AND m.lead_id = $2`
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY m.created_at DESC LIMIT $%d`, len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
