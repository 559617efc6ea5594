package parse

import (
	"context"
	"strings"
)

const summaryLimit = 100

// Static is the deterministic fallback parser: it truncates the raw
// inquiry into a summary and reports medium urgency, so intake keeps
// working without a model.
type Static struct{}

func NewStatic() *Static {
	return &Static{}
}

func (s *Static) Parse(_ context.Context, raw string) (Parsed, error) {
	summary := strings.TrimSpace(raw)
	if runes := []rune(summary); len(runes) > summaryLimit {
		summary = string(runes[:summaryLimit])
	}
	return Parsed{
		Summary: summary,
		Urgency: "MEDIUM",
	}, nil
}
