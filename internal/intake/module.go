// Package intake wires the public inquiry intake bounded context.
package intake

import (
	"weddinglead_backend/internal/events"
	furepo "weddinglead_backend/internal/followup/repository"
	"weddinglead_backend/internal/http"
	"weddinglead_backend/internal/intake/handler"
	"weddinglead_backend/internal/intake/service"
	leadsrepo "weddinglead_backend/internal/leads/repository"
	"weddinglead_backend/internal/messaging/dispatch"
	msgrepo "weddinglead_backend/internal/messaging/repository"
	"weddinglead_backend/internal/parse"
	vendorsrepo "weddinglead_backend/internal/vendors/repository"
	"weddinglead_backend/platform/logger"
	"weddinglead_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, followups *furepo.Repository, messages *msgrepo.Repository,
	parser parse.Parser, dispatcher dispatch.Dispatcher, bus events.Bus,
	log *logger.Logger, validate *validator.Validator) *Module {
	svc := service.New(
		vendorsrepo.New(pool),
		leadsrepo.New(pool),
		followups,
		messages,
		parser,
		dispatcher,
		bus,
		log,
	)
	return &Module{handler: handler.New(svc, validate)}
}

func (m *Module) Name() string { return "intake" }

func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	ctx.Public.POST("/inquiry", ctx.IntakeRateLimiter.RateLimit(), m.handler.ReceiveInquiry)
}
