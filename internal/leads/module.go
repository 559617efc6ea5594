// Package leads wires the lead pipeline bounded context.
package leads

import (
	"weddinglead_backend/internal/events"
	"weddinglead_backend/internal/http"
	"weddinglead_backend/internal/leads/handler"
	"weddinglead_backend/internal/leads/repository"
	"weddinglead_backend/internal/leads/service"
	"weddinglead_backend/platform/logger"
	"weddinglead_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger, validate *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	return &Module{
		handler: handler.New(svc, validate),
		service: svc,
	}
}

func (m *Module) Name() string { return "leads" }

// Service exposes the lead service to sibling modules that need it during
// composition.
func (m *Module) Service() *service.Service { return m.service }

func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	leads := ctx.Protected.Group("/leads")
	leads.POST("", m.handler.Create)
	leads.GET("", m.handler.List)
	leads.GET("/:id", m.handler.Get)
	leads.PUT("/:id", m.handler.Update)
	leads.PATCH("/:id/status", m.handler.UpdateStatus)
	leads.POST("/:id/notes", m.handler.AddNote)
	leads.GET("/:id/notes", m.handler.ListNotes)
	leads.GET("/:id/activities", m.handler.ListActivities)
}
