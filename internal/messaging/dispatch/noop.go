package dispatch

import (
	"context"

	"weddinglead_backend/internal/messaging/domain"
	"weddinglead_backend/platform/logger"

	"github.com/google/uuid"
)

// Noop is the development gateway used when no provider credentials are
// configured. Every send is logged and reported as a successful mock
// Alimtalk delivery so the rest of the pipeline behaves normally.
type Noop struct {
	log *logger.Logger
}

func NewNoop(log *logger.Logger) *Noop {
	return &Noop{log: log}
}

func (n *Noop) Send(ctx context.Context, params Params) Result {
	id := "dev-" + uuid.NewString()
	n.log.Info("mock dispatch",
		"to", params.To,
		"template_ref", params.TemplateRef,
		"provider_message_id", id,
	)
	return Result{Success: true, ProviderMessageID: id, Method: domain.ChannelAlimtalk}
}
