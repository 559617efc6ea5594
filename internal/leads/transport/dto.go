// Package transport defines the lead module's request/response DTOs.
package transport

import (
	"time"

	"weddinglead_backend/internal/leads/domain"
	"weddinglead_backend/internal/leads/repository"

	"github.com/google/uuid"
)

type LeadResponse struct {
	ID                  uuid.UUID  `json:"id"`
	VendorID            uuid.UUID  `json:"vendorId"`
	Name                string     `json:"name"`
	Phone               string     `json:"phone"`
	Email               *string    `json:"email,omitempty"`
	Source              string     `json:"source"`
	DesiredDate         *time.Time `json:"desiredDate,omitempty"`
	GuestCount          *int       `json:"guestCount,omitempty"`
	BudgetRange         *string    `json:"budgetRange,omitempty"`
	RawInquiry          string     `json:"rawInquiry"`
	ParsedSummary       *string    `json:"parsedSummary,omitempty"`
	InquiryType         *string    `json:"inquiryType,omitempty"`
	Status              string     `json:"status"`
	Priority            string     `json:"priority"`
	SequenceActive      bool       `json:"sequenceActive"`
	CurrentSequenceStep int        `json:"currentSequenceStep"`
	NextFollowupAt      *time.Time `json:"nextFollowupAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func ToLeadResponse(lead repository.Lead) LeadResponse {
	return LeadResponse{
		ID:                  lead.ID,
		VendorID:            lead.VendorID,
		Name:                lead.Name,
		Phone:               lead.Phone,
		Email:               lead.Email,
		Source:              string(lead.Source),
		DesiredDate:         lead.DesiredDate,
		GuestCount:          lead.GuestCount,
		BudgetRange:         lead.BudgetRange,
		RawInquiry:          lead.RawInquiry,
		ParsedSummary:       lead.ParsedSummary,
		InquiryType:         lead.InquiryType,
		Status:              string(lead.Status),
		Priority:            string(lead.Priority),
		SequenceActive:      lead.SequenceActive,
		CurrentSequenceStep: lead.CurrentSequenceStep,
		NextFollowupAt:      lead.NextFollowupAt,
		CreatedAt:           lead.CreatedAt,
		UpdatedAt:           lead.UpdatedAt,
	}
}

func ToLeadResponses(leads []repository.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, ToLeadResponse(lead))
	}
	return out
}

type ActivityResponse struct {
	ID        uuid.UUID      `json:"id"`
	LeadID    uuid.UUID      `json:"leadId"`
	Type      string         `json:"type"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

func ToActivityResponses(activities []repository.Activity) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, ActivityResponse{
			ID:        a.ID,
			LeadID:    a.LeadID,
			Type:      string(a.Type),
			Content:   a.Content,
			Metadata:  a.Metadata,
			CreatedAt: a.CreatedAt,
		})
	}
	return out
}

type CreateLeadRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=100"`
	Phone       string     `json:"phone" validate:"required,min=8,max=20"`
	Email       *string    `json:"email" validate:"omitempty,email"`
	Source      string     `json:"source" validate:"required"`
	DesiredDate *time.Time `json:"desiredDate"`
	GuestCount  *int       `json:"guestCount" validate:"omitempty,min=1"`
	BudgetRange *string    `json:"budgetRange"`
	RawInquiry  string     `json:"rawInquiry"`
	Priority    *string    `json:"priority"`
}

type UpdateLeadRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=100"`
	Phone       *string    `json:"phone" validate:"omitempty,min=8,max=20"`
	Email       *string    `json:"email" validate:"omitempty,email"`
	DesiredDate *time.Time `json:"desiredDate"`
	GuestCount  *int       `json:"guestCount" validate:"omitempty,min=1"`
	BudgetRange *string    `json:"budgetRange"`
	Priority    *string    `json:"priority"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type AddNoteRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type ListQuery struct {
	Status string `form:"status"`
	Search string `form:"search"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// StatusFilter parses the optional status query parameter.
func (q ListQuery) StatusFilter() (*domain.Status, bool) {
	if q.Status == "" {
		return nil, true
	}
	status := domain.Status(q.Status)
	if !status.Valid() {
		return nil, false
	}
	return &status, true
}
