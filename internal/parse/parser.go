// Package parse extracts structured fields from free-form inquiry text.
// The primary implementation asks a Gemini model for JSON; a deterministic
// fallback keeps intake working when no API key is configured or the
// model call fails.
package parse

import (
	"context"
	"time"
)

// Parsed is the structured reading of a raw inquiry.
type Parsed struct {
	Summary     string
	InquiryType string
	DesiredDate *time.Time
	GuestCount  *int
	BudgetRange *string
	// Urgency is one of LOW, MEDIUM, HIGH.
	Urgency string
}

// Parser turns a raw inquiry into Parsed fields.
type Parser interface {
	Parse(ctx context.Context, raw string) (Parsed, error)
}
