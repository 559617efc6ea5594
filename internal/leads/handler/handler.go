// Package handler exposes the lead pipeline HTTP endpoints.
package handler

import (
	"net/http"

	"weddinglead_backend/internal/leads/service"
	"weddinglead_backend/internal/leads/transport"
	"weddinglead_backend/platform/httpkit"
	"weddinglead_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc      *service.Service
	validate *validator.Validator
}

func New(svc *service.Service, validate *validator.Validator) *Handler {
	return &Handler{svc: svc, validate: validate}
}

func (h *Handler) Create(c *gin.Context) {
	vendorID, ok := httpkit.VendorID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), vendorID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) List(c *gin.Context) {
	vendorID, ok := httpkit.VendorID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var query transport.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query", err.Error())
		return
	}

	resp, err := h.svc.List(c.Request.Context(), vendorID, query)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Get(c *gin.Context) {
	vendorID, leadID, ok := h.params(c)
	if !ok {
		return
	}

	resp, err := h.svc.Get(c.Request.Context(), leadID, vendorID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Update(c *gin.Context) {
	vendorID, leadID, ok := h.params(c)
	if !ok {
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), leadID, vendorID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	vendorID, leadID, ok := h.params(c)
	if !ok {
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.svc.UpdateStatus(c.Request.Context(), leadID, vendorID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) AddNote(c *gin.Context) {
	vendorID, leadID, ok := h.params(c)
	if !ok {
		return
	}

	var req transport.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	err := h.svc.AddNote(c.Request.Context(), leadID, vendorID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, gin.H{"ok": true})
}

func (h *Handler) ListNotes(c *gin.Context) {
	vendorID, leadID, ok := h.params(c)
	if !ok {
		return
	}

	resp, err := h.svc.ListNotes(c.Request.Context(), leadID, vendorID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) ListActivities(c *gin.Context) {
	vendorID, leadID, ok := h.params(c)
	if !ok {
		return
	}

	resp, err := h.svc.ListActivities(c.Request.Context(), leadID, vendorID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) params(c *gin.Context) (vendorID, leadID uuid.UUID, ok bool) {
	vendorID, found := httpkit.VendorID(c)
	if !found {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, uuid.Nil, false
	}
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return uuid.Nil, uuid.Nil, false
	}
	return vendorID, leadID, true
}
