// Package transport defines the vendor module's request/response DTOs.
package transport

import (
	"time"

	"weddinglead_backend/internal/vendors/repository"

	"github.com/google/uuid"
)

type VendorResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Email           *string   `json:"email,omitempty"`
	SlackWebhookURL *string   `json:"slackWebhookUrl,omitempty"`
	BusinessType    string    `json:"businessType"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func ToVendorResponse(v repository.Vendor) VendorResponse {
	return VendorResponse{
		ID:              v.ID,
		Name:            v.Name,
		Phone:           v.Phone,
		Email:           v.Email,
		SlackWebhookURL: v.SlackWebhookURL,
		BusinessType:    v.BusinessType,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

type UpdateSettingsRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=100"`
	Phone           *string `json:"phone" validate:"omitempty,min=8,max=20"`
	Email           *string `json:"email" validate:"omitempty,email"`
	SlackWebhookURL *string `json:"slackWebhookUrl" validate:"omitempty,url"`
	BusinessType    *string `json:"businessType" validate:"omitempty,oneof=wedding_hall studio dress honeymoon invitation"`
}
