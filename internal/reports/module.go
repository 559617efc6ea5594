// Package reports wires the weekly KPI report engine.
package reports

import (
	"weddinglead_backend/internal/email"
	"weddinglead_backend/internal/http"
	leadsrepo "weddinglead_backend/internal/leads/repository"
	"weddinglead_backend/internal/notification/chatops"
	"weddinglead_backend/internal/reports/handler"
	"weddinglead_backend/internal/reports/service"
	vendorsrepo "weddinglead_backend/internal/vendors/repository"
	"weddinglead_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, emailSender email.Sender, chatopsSender chatops.Sender, log *logger.Logger) *Module {
	svc := service.New(vendorsrepo.New(pool), leadsrepo.New(pool), emailSender, chatopsSender, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

func (m *Module) Name() string { return "reports" }

// Service exposes the report runner to the background worker.
func (m *Module) Service() *service.Service { return m.service }

func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	ctx.Cron.POST("/report", m.handler.RunWeeklyReport)
}
