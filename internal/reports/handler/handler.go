// Package handler exposes the cron weekly-report endpoint.
package handler

import (
	"net/http"

	"weddinglead_backend/internal/reports/service"
	"weddinglead_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RunWeeklyReport(c *gin.Context) {
	summary, err := h.svc.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
			"summary": summary,
		})
		return
	}
	httpkit.OK(c, gin.H{"success": true, "summary": summary})
}
