// Package handler exposes sequence/template management and the cron
// follow-up endpoint.
package handler

import (
	"net/http"

	"weddinglead_backend/internal/followup/engine"
	"weddinglead_backend/internal/followup/service"
	"weddinglead_backend/internal/followup/transport"
	"weddinglead_backend/platform/httpkit"
	"weddinglead_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc      *service.Service
	engine   *engine.Engine
	validate *validator.Validator
}

func New(svc *service.Service, eng *engine.Engine, validate *validator.Validator) *Handler {
	return &Handler{svc: svc, engine: eng, validate: validate}
}

// RunFollowups executes one engine batch. Per-lead failures are inside
// the summary; a non-nil error means the run itself could not start.
func (h *Handler) RunFollowups(c *gin.Context) {
	summary, err := h.engine.Run(c.Request.Context())
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

func (h *Handler) CreateSequence(c *gin.Context) {
	vendorID, ok := httpkit.VendorID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req transport.CreateSequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.svc.CreateSequence(c.Request.Context(), vendorID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) ListSequences(c *gin.Context) {
	vendorID, ok := httpkit.VendorID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	resp, err := h.svc.ListSequences(c.Request.Context(), vendorID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) GetSequence(c *gin.Context) {
	vendorID, id, ok := h.params(c)
	if !ok {
		return
	}

	resp, err := h.svc.GetSequence(c.Request.Context(), id, vendorID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) UpdateSequence(c *gin.Context) {
	vendorID, id, ok := h.params(c)
	if !ok {
		return
	}

	var req transport.UpdateSequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.svc.UpdateSequence(c.Request.Context(), id, vendorID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) DeleteSequence(c *gin.Context) {
	vendorID, id, ok := h.params(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteSequence(c.Request.Context(), id, vendorID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateTemplate(c *gin.Context) {
	vendorID, ok := httpkit.VendorID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req transport.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.svc.CreateTemplate(c.Request.Context(), vendorID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) ListTemplates(c *gin.Context) {
	vendorID, ok := httpkit.VendorID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	resp, err := h.svc.ListTemplates(c.Request.Context(), vendorID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) UpdateTemplate(c *gin.Context) {
	vendorID, id, ok := h.params(c)
	if !ok {
		return
	}

	var req transport.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.svc.UpdateTemplate(c.Request.Context(), id, vendorID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) DeleteTemplate(c *gin.Context) {
	vendorID, id, ok := h.params(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteTemplate(c.Request.Context(), id, vendorID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) params(c *gin.Context) (vendorID, id uuid.UUID, ok bool) {
	vendorID, found := httpkit.VendorID(c)
	if !found {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid id", nil)
		return uuid.Nil, uuid.Nil, false
	}
	return vendorID, id, true
}
