// Package followup wires the follow-up bounded context: sequences,
// templates and the batch engine.
package followup

import (
	"weddinglead_backend/internal/followup/engine"
	"weddinglead_backend/internal/followup/handler"
	"weddinglead_backend/internal/followup/repository"
	"weddinglead_backend/internal/followup/service"
	"weddinglead_backend/internal/http"
	leadsrepo "weddinglead_backend/internal/leads/repository"
	"weddinglead_backend/internal/messaging/dispatch"
	msgrepo "weddinglead_backend/internal/messaging/repository"
	"weddinglead_backend/platform/logger"
	"weddinglead_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
	engine  *engine.Engine
}

func NewModule(pool *pgxpool.Pool, messages *msgrepo.Repository, dispatcher dispatch.Dispatcher, log *logger.Logger, validate *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	eng := engine.New(leadsrepo.New(pool), repo, messages, dispatcher, log)
	return &Module{
		handler: handler.New(svc, eng, validate),
		repo:    repo,
		engine:  eng,
	}
}

func (m *Module) Name() string { return "followup" }

// Repository exposes sequence/template lookups to the intake processor.
func (m *Module) Repository() *repository.Repository { return m.repo }

// Engine exposes the batch runner to the background worker.
func (m *Module) Engine() *engine.Engine { return m.engine }

func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	ctx.Cron.POST("/followup", m.handler.RunFollowups)

	sequences := ctx.Protected.Group("/sequences")
	sequences.POST("", m.handler.CreateSequence)
	sequences.GET("", m.handler.ListSequences)
	sequences.GET("/:id", m.handler.GetSequence)
	sequences.PATCH("/:id", m.handler.UpdateSequence)
	sequences.DELETE("/:id", m.handler.DeleteSequence)

	templates := ctx.Protected.Group("/templates")
	templates.POST("", m.handler.CreateTemplate)
	templates.GET("", m.handler.ListTemplates)
	templates.PATCH("/:id", m.handler.UpdateTemplate)
	templates.DELETE("/:id", m.handler.DeleteTemplate)
}
