// Package transport defines the public inquiry webhook DTOs.
package transport

import (
	"time"

	"github.com/google/uuid"
)

type InquiryRequest struct {
	VendorID    string  `json:"vendorId" validate:"required,uuid"`
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Phone       string  `json:"phone" validate:"required,min=8,max=20"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Source      string  `json:"source"`
	Message     string  `json:"message" validate:"required,min=1"`
	DesiredDate *string `json:"desiredDate"`
	GuestCount  *int    `json:"guestCount" validate:"omitempty,min=1"`
	BudgetRange *string `json:"budgetRange"`
}

// ParsedDesiredDate reads the optional YYYY-MM-DD date. A malformed
// value is ignored rather than rejected; the parser may still recover a
// date from the message text.
func (r InquiryRequest) ParsedDesiredDate() *time.Time {
	if r.DesiredDate == nil {
		return nil
	}
	t, err := time.Parse("2006-01-02", *r.DesiredDate)
	if err != nil {
		return nil
	}
	return &t
}

type InquiryResponse struct {
	Success bool      `json:"success"`
	LeadID  uuid.UUID `json:"leadId"`
}
