// Package vendors wires the vendor settings bounded context.
package vendors

import (
	"weddinglead_backend/internal/http"
	"weddinglead_backend/internal/vendors/handler"
	"weddinglead_backend/internal/vendors/repository"
	"weddinglead_backend/internal/vendors/service"
	"weddinglead_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, validate *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	return &Module{handler: handler.New(svc, validate)}
}

func (m *Module) Name() string { return "vendors" }

func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	settings := ctx.Protected.Group("/settings")
	settings.GET("", m.handler.GetSettings)
	settings.PUT("", m.handler.UpdateSettings)
}
