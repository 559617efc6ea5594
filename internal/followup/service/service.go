// Package service implements sequence and template management. Step
// lists are validated before every write so the scheduler never meets a
// malformed sequence.
package service

import (
	"context"
	"errors"
	"fmt"

	"weddinglead_backend/internal/followup/domain"
	"weddinglead_backend/internal/followup/repository"
	"weddinglead_backend/internal/followup/transport"
	"weddinglead_backend/platform/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateSequence(ctx context.Context, vendorID uuid.UUID, req transport.CreateSequenceRequest) (transport.SequenceResponse, error) {
	steps := transport.ToSteps(req.Steps)
	if err := domain.ValidateSteps(steps); err != nil {
		return transport.SequenceResponse{}, apperr.Validation(err.Error())
	}

	seq, err := s.repo.CreateSequence(ctx, repository.CreateSequenceParams{
		VendorID: vendorID,
		Name:     req.Name,
		Steps:    steps,
	})
	if err != nil {
		return transport.SequenceResponse{}, apperr.Wrap(apperr.KindInternal, "failed to create sequence", err)
	}

	if req.IsActive {
		seq, err = s.repo.ActivateSequence(ctx, seq.ID, vendorID)
		if err != nil {
			return transport.SequenceResponse{}, apperr.Wrap(apperr.KindInternal, "failed to activate sequence", err)
		}
	}
	return transport.ToSequenceResponse(seq), nil
}

func (s *Service) ListSequences(ctx context.Context, vendorID uuid.UUID) ([]transport.SequenceResponse, error) {
	seqs, err := s.repo.ListSequences(ctx, vendorID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list sequences", err)
	}
	return transport.ToSequenceResponses(seqs), nil
}

func (s *Service) GetSequence(ctx context.Context, id, vendorID uuid.UUID) (transport.SequenceResponse, error) {
	seq, err := s.repo.GetSequence(ctx, id, vendorID)
	if errors.Is(err, repository.ErrSequenceNotFound) {
		return transport.SequenceResponse{}, apperr.NotFound("sequence not found")
	}
	if err != nil {
		return transport.SequenceResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load sequence", err)
	}
	return transport.ToSequenceResponse(seq), nil
}

// UpdateSequence edits name/steps and applies activation changes.
// Activating routes through the exclusive activation so at most one
// sequence per vendor stays active.
func (s *Service) UpdateSequence(ctx context.Context, id, vendorID uuid.UUID, req transport.UpdateSequenceRequest) (transport.SequenceResponse, error) {
	var steps []domain.Step
	if req.Steps != nil {
		steps = transport.ToSteps(req.Steps)
		if err := domain.ValidateSteps(steps); err != nil {
			return transport.SequenceResponse{}, apperr.Validation(err.Error())
		}
	}

	seq, err := s.repo.UpdateSequence(ctx, id, vendorID, repository.UpdateSequenceParams{
		Name:  req.Name,
		Steps: steps,
	})
	if errors.Is(err, repository.ErrSequenceNotFound) {
		return transport.SequenceResponse{}, apperr.NotFound("sequence not found")
	}
	if err != nil {
		return transport.SequenceResponse{}, apperr.Wrap(apperr.KindInternal, "failed to update sequence", err)
	}

	if req.IsActive != nil && *req.IsActive != seq.IsActive {
		if *req.IsActive {
			seq, err = s.repo.ActivateSequence(ctx, id, vendorID)
		} else {
			seq, err = s.repo.DeactivateSequence(ctx, id, vendorID)
		}
		if err != nil {
			return transport.SequenceResponse{}, apperr.Wrap(apperr.KindInternal, "failed to change sequence activation", err)
		}
	}
	return transport.ToSequenceResponse(seq), nil
}

func (s *Service) DeleteSequence(ctx context.Context, id, vendorID uuid.UUID) error {
	err := s.repo.DeleteSequence(ctx, id, vendorID)
	if errors.Is(err, repository.ErrSequenceNotFound) {
		return apperr.NotFound("sequence not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to delete sequence", err)
	}
	return nil
}

func (s *Service) CreateTemplate(ctx context.Context, vendorID uuid.UUID, req transport.CreateTemplateRequest) (transport.TemplateResponse, error) {
	trigger := domain.Trigger(req.Trigger)
	if !trigger.Valid() {
		return transport.TemplateResponse{}, apperr.Validation(fmt.Sprintf("unknown trigger %q", req.Trigger))
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	tpl, err := s.repo.CreateTemplate(ctx, repository.CreateTemplateParams{
		VendorID:           vendorID,
		Name:               req.Name,
		Trigger:            trigger,
		Content:            req.Content,
		ProviderTemplateID: req.ProviderTemplateID,
		IsActive:           isActive,
	})
	if err != nil {
		return transport.TemplateResponse{}, apperr.Wrap(apperr.KindInternal, "failed to create template", err)
	}
	return transport.ToTemplateResponse(tpl), nil
}

func (s *Service) ListTemplates(ctx context.Context, vendorID uuid.UUID) ([]transport.TemplateResponse, error) {
	tpls, err := s.repo.ListTemplates(ctx, vendorID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list templates", err)
	}
	return transport.ToTemplateResponses(tpls), nil
}

func (s *Service) UpdateTemplate(ctx context.Context, id, vendorID uuid.UUID, req transport.UpdateTemplateRequest) (transport.TemplateResponse, error) {
	tpl, err := s.repo.UpdateTemplate(ctx, id, vendorID, repository.UpdateTemplateParams{
		Name:               req.Name,
		Content:            req.Content,
		ProviderTemplateID: req.ProviderTemplateID,
		IsActive:           req.IsActive,
	})
	if errors.Is(err, repository.ErrTemplateNotFound) {
		return transport.TemplateResponse{}, apperr.NotFound("template not found")
	}
	if err != nil {
		return transport.TemplateResponse{}, apperr.Wrap(apperr.KindInternal, "failed to update template", err)
	}
	return transport.ToTemplateResponse(tpl), nil
}

func (s *Service) DeleteTemplate(ctx context.Context, id, vendorID uuid.UUID) error {
	err := s.repo.DeleteTemplate(ctx, id, vendorID)
	if errors.Is(err, repository.ErrTemplateNotFound) {
		return apperr.NotFound("template not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to delete template", err)
	}
	return nil
}
