// Package service implements vendor profile and settings operations.
package service

import (
	"context"
	"errors"

	"weddinglead_backend/internal/vendors/repository"
	"weddinglead_backend/internal/vendors/transport"
	"weddinglead_backend/platform/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetSettings(ctx context.Context, vendorID uuid.UUID) (transport.VendorResponse, error) {
	vendor, err := s.repo.GetByID(ctx, vendorID)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.VendorResponse{}, apperr.NotFound("vendor not found")
	}
	if err != nil {
		return transport.VendorResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load vendor", err)
	}
	return transport.ToVendorResponse(vendor), nil
}

func (s *Service) UpdateSettings(ctx context.Context, vendorID uuid.UUID, req transport.UpdateSettingsRequest) (transport.VendorResponse, error) {
	vendor, err := s.repo.UpdateSettings(ctx, vendorID, repository.UpdateSettingsParams{
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		SlackWebhookURL: req.SlackWebhookURL,
		BusinessType:    req.BusinessType,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return transport.VendorResponse{}, apperr.NotFound("vendor not found")
	}
	if err != nil {
		return transport.VendorResponse{}, apperr.Wrap(apperr.KindInternal, "failed to update vendor", err)
	}
	return transport.ToVendorResponse(vendor), nil
}
