// Package handler exposes the public inquiry webhook.
package handler

import (
	"net/http"

	"weddinglead_backend/internal/intake/service"
	"weddinglead_backend/internal/intake/transport"
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

func (h *Handler) ReceiveInquiry(c *gin.Context) {
	var req transport.InquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.svc.Process(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}
