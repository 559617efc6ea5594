// Package dispatch sends outbound messages through the messaging provider.
// The primary channel is a pre-approved Alimtalk template; when the
// provider rejects the send, or no template reference is configured, a
// single SMS fallback is attempted with the rendered text.
package dispatch

import (
	"context"

	"weddinglead_backend/internal/messaging/domain"
)

// Params describes one outbound send.
type Params struct {
	// To is the recipient phone number in local digits form (01012345678).
	To string
	// TemplateRef is the provider-side Alimtalk template ID. Empty means
	// no Alimtalk attempt is possible.
	TemplateRef string
	// Variables fill the provider template's placeholders.
	Variables map[string]string
	// FallbackText is the fully rendered body used for the SMS fallback.
	// Empty disables the fallback.
	FallbackText string
}

// Result is the outcome of a send attempt, including which channel
// actually carried the message.
type Result struct {
	Success           bool
	ProviderMessageID string
	Error             string
	Method            domain.Channel
}

// Dispatcher is the outbound gateway. Implementations: the provider
// HTTP client and a development no-op, chosen at composition time.
type Dispatcher interface {
	Send(ctx context.Context, params Params) Result
}
