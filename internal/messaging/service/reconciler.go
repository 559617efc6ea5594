// Package service implements delivery-status reconciliation and message
// queries.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"weddinglead_backend/internal/messaging/domain"
	"weddinglead_backend/internal/messaging/repository"
	"weddinglead_backend/platform/logger"

	"github.com/google/uuid"
)

// Callback is one delivery report from the provider.
type Callback struct {
	ProviderMessageID string `json:"providerMessageId"`
	StatusCode        string `json:"statusCode"`
}

// BatchResult summarizes a reconciliation batch. The callback endpoint
// always reports this with HTTP 200 regardless of per-item failures.
type BatchResult struct {
	Updated  int      `json:"updated"`
	NotFound int      `json:"notFound"`
	Errors   []string `json:"errors"`
}

// MessageStore is the persistence surface the reconciler needs.
type MessageStore interface {
	GetByProviderMessageID(ctx context.Context, providerMessageID string) (repository.Message, error)
	UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, status domain.Status, deliveredAt time.Time) error
}

// Reconciler applies provider delivery callbacks to message records.
type Reconciler struct {
	store MessageStore
	log   *logger.Logger
	now   func() time.Time
}

func NewReconciler(store MessageStore, log *logger.Logger) *Reconciler {
	return &Reconciler{store: store, log: log, now: time.Now}
}

// Process applies a batch of callbacks. Items with a missing identifier
// are counted as errors, unknown identifiers as notFound; neither stops
// the batch. Re-delivered callbacks are safe to apply twice.
func (r *Reconciler) Process(ctx context.Context, callbacks []Callback) BatchResult {
	result := BatchResult{Errors: []string{}}

	for i, cb := range callbacks {
		if cb.ProviderMessageID == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("item %d: missing providerMessageId", i))
			continue
		}

		msg, err := r.store.GetByProviderMessageID(ctx, cb.ProviderMessageID)
		if errors.Is(err, repository.ErrNotFound) {
			result.NotFound++
			continue
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("item %d: %v", i, err))
			continue
		}

		status := domain.StatusFromProviderCode(cb.StatusCode)
		if err := r.store.UpdateDeliveryStatus(ctx, msg.ID, status, r.now()); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		result.Updated++
	}

	return result
}
