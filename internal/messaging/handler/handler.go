// Package handler exposes the delivery callback webhook and the message
// history endpoint.
package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"weddinglead_backend/internal/messaging/service"
	"weddinglead_backend/internal/messaging/transport"
	"weddinglead_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const maxCallbackBody = 1 << 20

type Handler struct {
	svc        *service.Service
	reconciler *service.Reconciler
}

func New(svc *service.Service, reconciler *service.Reconciler) *Handler {
	return &Handler{svc: svc, reconciler: reconciler}
}

// DeliveryCallback accepts a single report or an array of reports from
// the provider. Per-item failures are reported inside the batch result;
// the endpoint itself always answers 200 so the provider stops retrying.
func (h *Handler) DeliveryCallback(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCallbackBody))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unreadable body", nil)
		return
	}

	callbacks, err := parseCallbacks(raw)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid callback payload", err.Error())
		return
	}

	result := h.reconciler.Process(c.Request.Context(), callbacks)
	httpkit.OK(c, gin.H{"success": true, "results": result})
}

func parseCallbacks(raw []byte) ([]service.Callback, error) {
	var batch []service.Callback
	if err := json.Unmarshal(raw, &batch); err == nil {
		return batch, nil
	}
	var single service.Callback
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []service.Callback{single}, nil
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
