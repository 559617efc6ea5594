// Package messaging wires the outbound message bounded context: the
// message log, the dispatch gateway and the delivery reconciler.
package messaging

import (
	"weddinglead_backend/internal/http"
	"weddinglead_backend/internal/messaging/dispatch"
	"weddinglead_backend/internal/messaging/handler"
	"weddinglead_backend/internal/messaging/repository"
	"weddinglead_backend/internal/messaging/service"
	"weddinglead_backend/platform/config"
	"weddinglead_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler    *handler.Handler
	repo       *repository.Repository
	dispatcher dispatch.Dispatcher
}

func NewModule(pool *pgxpool.Pool, cfg config.DispatchConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	reconciler := service.NewReconciler(repo, log)
	return &Module{
		handler:    handler.New(svc, reconciler),
		repo:       repo,
		dispatcher: dispatch.New(cfg, log),
	}
}

func (m *Module) Name() string { return "messaging" }

// Repository and Dispatcher are consumed by the follow-up engine and the
// intake processor during composition.
func (m *Module) Repository() *repository.Repository { return m.repo }
func (m *Module) Dispatcher() dispatch.Dispatcher    { return m.dispatcher }

func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	ctx.Public.POST("/delivery", ctx.IntakeRateLimiter.RateLimit(), m.handler.DeliveryCallback)
	ctx.Protected.GET("/messages", m.handler.List)
}
