package repository

import (
	"context"
	"encoding/json"
	"time"

	"weddinglead_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Activity is one append-only entry on a lead's timeline.
type Activity struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	Type      domain.ActivityType
	Content   string
	Metadata  map[string]any
	CreatedAt time.Time
}

type AppendActivityParams struct {
	LeadID   uuid.UUID
	Type     domain.ActivityType
	Content  string
	Metadata map[string]any
}

// AppendActivity writes a timeline entry. Entries are never updated or
// deleted afterwards.
func (r *Repository) AppendActivity(ctx context.Context, params AppendActivityParams) error {
	metadata := params.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO activities (lead_id, type, content, metadata)
		VALUES ($1, $2, $3, $4)
	`, params.LeadID, params.Type, params.Content, raw)
	return err
}

// ListActivities returns the lead's timeline, newest first.
func (r *Repository) ListActivities(ctx context.Context, leadID uuid.UUID) ([]Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, type, content, metadata, created_at
		FROM activities
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]Activity, 0)
	for rows.Next() {
		var a Activity
		var raw []byte
		if err := rows.Scan(&a.ID, &a.LeadID, &a.Type, &a.Content, &raw, &a.CreatedAt); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &a.Metadata); err != nil {
				a.Metadata = nil
			}
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
