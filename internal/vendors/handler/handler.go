// Package handler exposes the vendor settings HTTP endpoints.
package handler

import (
	"net/http"

	"weddinglead_backend/internal/vendors/service"
	"weddinglead_backend/internal/vendors/transport"
	"weddinglead_backend/platform/httpkit"
	"weddinglead_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc      *service.Service
	validate *validator.Validator
}

func New(svc *service.Service, validate *validator.Validator) *Handler {
	return &Handler{svc: svc, validate: validate}
}

func (h *Handler) GetSettings(c *gin.Context) {
	vendorID, ok := httpkit.VendorID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	resp, err := h.svc.GetSettings(c.Request.Context(), vendorID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	vendorID, ok := httpkit.VendorID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req transport.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.svc.UpdateSettings(c.Request.Context(), vendorID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
