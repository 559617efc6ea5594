// Package transport defines the messaging module's request/response DTOs.
package transport

import (
	"time"

	"weddinglead_backend/internal/messaging/repository"

	"github.com/google/uuid"
)

type MessageResponse struct {
	ID                uuid.UUID  `json:"id"`
	LeadID            uuid.UUID  `json:"leadId"`
	TemplateID        *uuid.UUID `json:"templateId,omitempty"`
	Channel           string     `json:"channel"`
	Content           string     `json:"content"`
	Status            string     `json:"status"`
	ProviderMessageID *string    `json:"providerMessageId,omitempty"`
	SentAt            *time.Time `json:"sentAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

func ToMessageResponses(messages []repository.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, MessageResponse{
			ID:                m.ID,
			LeadID:            m.LeadID,
			TemplateID:        m.TemplateID,
			Channel:           string(m.Channel),
			Content:           m.Content,
			Status:            string(m.Status),
			ProviderMessageID: m.ProviderMessageID,
			SentAt:            m.SentAt,
			CreatedAt:         m.CreatedAt,
		})
	}
	return out
}

type ListQuery struct {
	LeadID string `form:"leadId"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}
