// Package repository persists follow-up sequences and message templates.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"weddinglead_backend/internal/followup/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrSequenceNotFound = errors.New("sequence not found")
	ErrTemplateNotFound = errors.New("template not found")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Sequence is an ordered follow-up plan. Steps are stored as jsonb and
// validated before every write.
type Sequence struct {
	ID        uuid.UUID
	VendorID  uuid.UUID
	Name      string
	Steps     []domain.Step
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

const sequenceColumns = `id, vendor_id, name, steps, is_active, created_at, updated_at`

func scanSequence(row pgx.Row) (Sequence, error) {
	var seq Sequence
	var rawSteps []byte
	err := row.Scan(&seq.ID, &seq.VendorID, &seq.Name, &rawSteps, &seq.IsActive,
		&seq.CreatedAt, &seq.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sequence{}, ErrSequenceNotFound
	}
	if err != nil {
		return Sequence{}, err
	}
	if err := json.Unmarshal(rawSteps, &seq.Steps); err != nil {
		return Sequence{}, err
	}
	return seq, nil
}

type CreateSequenceParams struct {
	VendorID uuid.UUID
	Name     string
	Steps    []domain.Step
	IsActive bool
}

func (r *Repository) CreateSequence(ctx context.Context, params CreateSequenceParams) (Sequence, error) {
	rawSteps, err := json.Marshal(params.Steps)
	if err != nil {
		return Sequence{}, err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO followup_sequences (vendor_id, name, steps, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING `+sequenceColumns,
		params.VendorID, params.Name, rawSteps, params.IsActive,
	)
	return scanSequence(row)
}

func (r *Repository) GetSequence(ctx context.Context, id, vendorID uuid.UUID) (Sequence, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+sequenceColumns+` FROM followup_sequences
		WHERE id = $1 AND vendor_id = $2
	`, id, vendorID)
	return scanSequence(row)
}

func (r *Repository) ListSequences(ctx context.Context, vendorID uuid.UUID) ([]Sequence, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sequenceColumns+` FROM followup_sequences
		WHERE vendor_id = $1
		ORDER BY created_at DESC
	`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sequences := make([]Sequence, 0)
	for rows.Next() {
		seq, err := scanSequence(rows)
		if err != nil {
			return nil, err
		}
		sequences = append(sequences, seq)
	}
	return sequences, rows.Err()
}

type UpdateSequenceParams struct {
	Name  *string
	Steps []domain.Step
}

func (r *Repository) UpdateSequence(ctx context.Context, id, vendorID uuid.UUID, params UpdateSequenceParams) (Sequence, error) {
	var rawSteps []byte
	if params.Steps != nil {
		var err error
		rawSteps, err = json.Marshal(params.Steps)
		if err != nil {
			return Sequence{}, err
		}
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE followup_sequences SET
			name = COALESCE($3, name),
			steps = COALESCE($4, steps),
			updated_at = now()
		WHERE id = $1 AND vendor_id = $2
		RETURNING `+sequenceColumns,
		id, vendorID, params.Name, rawSteps,
	)
	return scanSequence(row)
}

func (r *Repository) DeleteSequence(ctx context.Context, id, vendorID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM followup_sequences WHERE id = $1 AND vendor_id = $2
	`, id, vendorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSequenceNotFound
	}
	return nil
}

// ActivateSequence makes the sequence the vendor's only active one. The
// sibling deactivation and activation run in a single transaction so the
// at-most-one-active invariant holds at every commit point.
func (r *Repository) ActivateSequence(ctx context.Context, id, vendorID uuid.UUID) (Sequence, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Sequence{}, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE followup_sequences SET is_active = false, updated_at = now()
		WHERE vendor_id = $1 AND is_active = true AND id <> $2
	`, vendorID, id)
	if err != nil {
		return Sequence{}, err
	}

	row := tx.QueryRow(ctx, `
		UPDATE followup_sequences SET is_active = true, updated_at = now()
		WHERE id = $1 AND vendor_id = $2
		RETURNING `+sequenceColumns,
		id, vendorID,
	)
	seq, err := scanSequence(row)
	if err != nil {
		return Sequence{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Sequence{}, err
	}
	return seq, nil
}

func (r *Repository) DeactivateSequence(ctx context.Context, id, vendorID uuid.UUID) (Sequence, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE followup_sequences SET is_active = false, updated_at = now()
		WHERE id = $1 AND vendor_id = $2
		RETURNING `+sequenceColumns,
		id, vendorID,
	)
	return scanSequence(row)
}

// GetActiveSequence returns the vendor's single active sequence.
func (r *Repository) GetActiveSequence(ctx context.Context, vendorID uuid.UUID) (Sequence, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+sequenceColumns+` FROM followup_sequences
		WHERE vendor_id = $1 AND is_active = true
		ORDER BY updated_at DESC
		LIMIT 1
	`, vendorID)
	return scanSequence(row)
}
