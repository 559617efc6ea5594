// Package transport defines the follow-up module's request/response DTOs.
package transport

import (
	"time"

	"weddinglead_backend/internal/followup/domain"
	"weddinglead_backend/internal/followup/repository"

	"github.com/google/uuid"
)

type StepDTO struct {
	DelayDays       int    `json:"delayDays" validate:"required,min=1"`
	TemplateTrigger string `json:"templateTrigger" validate:"required"`
}

func ToSteps(dtos []StepDTO) []domain.Step {
	steps := make([]domain.Step, 0, len(dtos))
	for _, dto := range dtos {
		steps = append(steps, domain.Step{
			DelayDays:       dto.DelayDays,
			TemplateTrigger: domain.Trigger(dto.TemplateTrigger),
		})
	}
	return steps
}

type SequenceResponse struct {
	ID        uuid.UUID     `json:"id"`
	VendorID  uuid.UUID     `json:"vendorId"`
	Name      string        `json:"name"`
	Steps     []domain.Step `json:"steps"`
	IsActive  bool          `json:"isActive"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func ToSequenceResponse(seq repository.Sequence) SequenceResponse {
	return SequenceResponse{
		ID:        seq.ID,
		VendorID:  seq.VendorID,
		Name:      seq.Name,
		Steps:     seq.Steps,
		IsActive:  seq.IsActive,
		CreatedAt: seq.CreatedAt,
		UpdatedAt: seq.UpdatedAt,
	}
}

func ToSequenceResponses(seqs []repository.Sequence) []SequenceResponse {
	out := make([]SequenceResponse, 0, len(seqs))
	for _, seq := range seqs {
		out = append(out, ToSequenceResponse(seq))
	}
	return out
}

type CreateSequenceRequest struct {
	Name     string    `json:"name" validate:"required,min=1,max=100"`
	Steps    []StepDTO `json:"steps" validate:"required,dive"`
	IsActive bool      `json:"isActive"`
}

type UpdateSequenceRequest struct {
	Name     *string   `json:"name" validate:"omitempty,min=1,max=100"`
	Steps    []StepDTO `json:"steps" validate:"omitempty,dive"`
	IsActive *bool     `json:"isActive"`
}

type TemplateResponse struct {
	ID                 uuid.UUID `json:"id"`
	VendorID           uuid.UUID `json:"vendorId"`
	Name               string    `json:"name"`
	Trigger            string    `json:"trigger"`
	Content            string    `json:"content"`
	ProviderTemplateID *string   `json:"providerTemplateId,omitempty"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func ToTemplateResponse(tpl repository.Template) TemplateResponse {
	return TemplateResponse{
		ID:                 tpl.ID,
		VendorID:           tpl.VendorID,
		Name:               tpl.Name,
		Trigger:            string(tpl.Trigger),
		Content:            tpl.Content,
		ProviderTemplateID: tpl.ProviderTemplateID,
		IsActive:           tpl.IsActive,
		CreatedAt:          tpl.CreatedAt,
		UpdatedAt:          tpl.UpdatedAt,
	}
}

func ToTemplateResponses(tpls []repository.Template) []TemplateResponse {
	out := make([]TemplateResponse, 0, len(tpls))
	for _, tpl := range tpls {
		out = append(out, ToTemplateResponse(tpl))
	}
	return out
}

type CreateTemplateRequest struct {
	Name               string  `json:"name" validate:"required,min=1,max=100"`
	Trigger            string  `json:"trigger" validate:"required"`
	Content            string  `json:"content" validate:"required,min=1"`
	ProviderTemplateID *string `json:"providerTemplateId"`
	IsActive           *bool   `json:"isActive"`
}

type UpdateTemplateRequest struct {
	Name               *string `json:"name" validate:"omitempty,min=1,max=100"`
	Content            *string `json:"content" validate:"omitempty,min=1"`
	ProviderTemplateID *string `json:"providerTemplateId"`
	IsActive           *bool   `json:"isActive"`
}
