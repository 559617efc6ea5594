// Package notification wires staff alerting: an event-bus subscriber
// that forwards new-lead events to the vendor's chat-ops webhook.
package notification

import (
	"context"
	"fmt"

	"weddinglead_backend/internal/events"
	"weddinglead_backend/internal/http"
	leadsrepo "weddinglead_backend/internal/leads/repository"
	"weddinglead_backend/internal/notification/chatops"
	"weddinglead_backend/internal/notification/service"
	vendorsrepo "weddinglead_backend/internal/vendors/repository"
	"weddinglead_backend/platform/config"
	"weddinglead_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	svc    *service.Service
	sender chatops.Sender
}

func NewModule(pool *pgxpool.Pool, bus events.Bus, cfg config.NotificationConfig, log *logger.Logger) *Module {
	sender := chatops.NewWebhook()
	svc := service.New(vendorsrepo.New(pool), leadsrepo.New(pool), sender, cfg, log)

	bus.Subscribe((events.LeadCreated{}).EventName(), events.HandlerFunc(
		func(ctx context.Context, event events.Event) error {
			created, ok := event.(events.LeadCreated)
			if !ok {
				return fmt.Errorf("unexpected event type %T", event)
			}
			return svc.NotifyNewLead(ctx, created)
		},
	))

	return &Module{svc: svc, sender: sender}
}

func (m *Module) Name() string { return "notification" }

// Sender exposes the chat-ops gateway to the weekly report engine.
func (m *Module) Sender() chatops.Sender { return m.sender }

// RegisterRoutes is a no-op: this module only reacts to events.
func (m *Module) RegisterRoutes(_ *http.RouterContext) {}
