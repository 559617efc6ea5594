// Package service implements the lead pipeline operations used by the
// dashboard: listing, editing, status transitions and the activity timeline.
package service

import (
	"context"
	"errors"
	"fmt"

	"weddinglead_backend/internal/events"
	"weddinglead_backend/internal/leads/domain"
	"weddinglead_backend/internal/leads/repository"
	"weddinglead_backend/internal/leads/transport"
	"weddinglead_backend/platform/apperr"
	"weddinglead_backend/platform/logger"
	"weddinglead_backend/platform/phone"

	"github.com/google/uuid"
)

type Service struct {
	repo *repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

func New(repo *repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

func (s *Service) Create(ctx context.Context, vendorID uuid.UUID, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	source := domain.Source(req.Source)
	if !source.Valid() {
		return transport.LeadResponse{}, apperr.Validation(fmt.Sprintf("unknown source %q", req.Source))
	}

	priority := domain.PriorityMedium
	if req.Priority != nil {
		priority = domain.Priority(*req.Priority)
		if !priority.Valid() {
			return transport.LeadResponse{}, apperr.Validation(fmt.Sprintf("unknown priority %q", *req.Priority))
		}
	}

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		VendorID:    vendorID,
		Name:        req.Name,
		Phone:       phone.NormalizeLocal(req.Phone),
		Email:       req.Email,
		Source:      source,
		DesiredDate: req.DesiredDate,
		GuestCount:  req.GuestCount,
		BudgetRange: req.BudgetRange,
		RawInquiry:  req.RawInquiry,
		Priority:    priority,
	})
	if err != nil {
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindInternal, "failed to create lead", err)
	}

	if err := s.repo.AppendActivity(ctx, repository.AppendActivityParams{
		LeadID:  lead.ID,
		Type:    domain.ActivityInquiryReceived,
		Content: "문의가 등록되었습니다",
		Metadata: map[string]any{
			"source": string(lead.Source),
		},
	}); err != nil {
		s.log.DatabaseError("append_activity", err)
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      lead.ID,
		VendorID:    lead.VendorID,
		Name:        lead.Name,
		Phone:       lead.Phone,
		DesiredDate: lead.DesiredDate,
		GuestCount:  lead.GuestCount,
		Source:      string(lead.Source),
	})

	return transport.ToLeadResponse(lead), nil
}

func (s *Service) Get(ctx context.Context, id, vendorID uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id, vendorID)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.LeadResponse{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load lead", err)
	}
	return transport.ToLeadResponse(lead), nil
}

func (s *Service) List(ctx context.Context, vendorID uuid.UUID, query transport.ListQuery) ([]transport.LeadResponse, error) {
	status, ok := query.StatusFilter()
	if !ok {
		return nil, apperr.Validation(fmt.Sprintf("unknown status %q", query.Status))
	}

	leads, err := s.repo.List(ctx, vendorID, repository.ListFilter{
		Status: status,
		Search: query.Search,
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list leads", err)
	}
	return transport.ToLeadResponses(leads), nil
}

func (s *Service) Update(ctx context.Context, id, vendorID uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	var priority *domain.Priority
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		if !p.Valid() {
			return transport.LeadResponse{}, apperr.Validation(fmt.Sprintf("unknown priority %q", *req.Priority))
		}
		priority = &p
	}

	var normalized *string
	if req.Phone != nil {
		n := phone.NormalizeLocal(*req.Phone)
		normalized = &n
	}

	lead, err := s.repo.Update(ctx, id, vendorID, repository.UpdateLeadParams{
		Name:        req.Name,
		Phone:       normalized,
		Email:       req.Email,
		DesiredDate: req.DesiredDate,
		GuestCount:  req.GuestCount,
		BudgetRange: req.BudgetRange,
		Priority:    priority,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return transport.LeadResponse{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindInternal, "failed to update lead", err)
	}
	return transport.ToLeadResponse(lead), nil
}

// UpdateStatus moves a lead through the pipeline. Terminal states stop any
// running follow-up sequence, and every transition lands on the timeline.
func (s *Service) UpdateStatus(ctx context.Context, id, vendorID uuid.UUID, req transport.UpdateStatusRequest) (transport.LeadResponse, error) {
	status := domain.Status(req.Status)
	if !status.Valid() {
		return transport.LeadResponse{}, apperr.Validation(fmt.Sprintf("unknown status %q", req.Status))
	}

	current, err := s.repo.GetByID(ctx, id, vendorID)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.LeadResponse{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load lead", err)
	}
	if current.Status == status {
		return transport.ToLeadResponse(current), nil
	}

	lead, err := s.repo.UpdateStatus(ctx, id, vendorID, status)
	if err != nil {
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindInternal, "failed to update status", err)
	}

	if status == domain.StatusContracted || status == domain.StatusLost {
		if err := s.repo.DeactivateAutomation(ctx, id, nil); err != nil {
			s.log.DatabaseError("deactivate_automation", err)
		} else {
			lead.SequenceActive = false
			lead.NextFollowupAt = nil
		}
	}

	if err := s.repo.AppendActivity(ctx, repository.AppendActivityParams{
		LeadID:  id,
		Type:    domain.ActivityStatusChanged,
		Content: fmt.Sprintf("상태가 %s에서 %s(으)로 변경되었습니다", current.Status, status),
		Metadata: map[string]any{
			"from": string(current.Status),
			"to":   string(status),
		},
	}); err != nil {
		s.log.DatabaseError("append_activity", err)
	}

	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		VendorID:  lead.VendorID,
		Name:      lead.Name,
		From:      string(current.Status),
		To:        string(status),
	})

	return transport.ToLeadResponse(lead), nil
}

func (s *Service) AddNote(ctx context.Context, id, vendorID uuid.UUID, req transport.AddNoteRequest) error {
	if _, err := s.repo.GetByID(ctx, id, vendorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("lead not found")
		}
		return apperr.Wrap(apperr.KindInternal, "failed to load lead", err)
	}

	err := s.repo.AppendActivity(ctx, repository.AppendActivityParams{
		LeadID:  id,
		Type:    domain.ActivityNoteAdded,
		Content: req.Content,
	})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to add note", err)
	}
	return nil
}

func (s *Service) ListActivities(ctx context.Context, id, vendorID uuid.UUID) ([]transport.ActivityResponse, error) {
	if _, err := s.repo.GetByID(ctx, id, vendorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("lead not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load lead", err)
	}

	activities, err := s.repo.ListActivities(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list activities", err)
	}
	return transport.ToActivityResponses(activities), nil
}

// ListNotes returns only the note entries from the lead's timeline.
func (s *Service) ListNotes(ctx context.Context, id, vendorID uuid.UUID) ([]transport.ActivityResponse, error) {
	all, err := s.ListActivities(ctx, id, vendorID)
	if err != nil {
		return nil, err
	}
	notes := make([]transport.ActivityResponse, 0, len(all))
	for _, a := range all {
		if a.Type == string(domain.ActivityNoteAdded) {
			notes = append(notes, a)
		}
	}
	return notes, nil
}
