package service

import (
	"context"

	"weddinglead_backend/internal/messaging/repository"
	"weddinglead_backend/internal/messaging/transport"
	"weddinglead_backend/platform/apperr"

	"github.com/google/uuid"
)

// Service answers message history queries for the dashboard.
type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, vendorID uuid.UUID, query transport.ListQuery) ([]transport.MessageResponse, error) {
	var leadID *uuid.UUID
	if query.LeadID != "" {
		parsed, err := uuid.Parse(query.LeadID)
		if err != nil {
			return nil, apperr.Validation("invalid leadId")
		}
		leadID = &parsed
	}

	messages, err := s.repo.List(ctx, vendorID, repository.ListFilter{
		LeadID: leadID,
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list messages", err)
	}
	return transport.ToMessageResponses(messages), nil
}
