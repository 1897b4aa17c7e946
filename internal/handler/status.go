package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/conversor/webhook-relay/internal/domain"
	"github.com/conversor/webhook-relay/internal/logging"
	"github.com/conversor/webhook-relay/internal/service"
	"github.com/conversor/webhook-relay/internal/store"
)

type gatewayQuerier interface {
	GetPayment(ctx context.Context, transactionID string) (*service.GatewayPayment, error)
}

type StatusHandler struct {
	store   store.StatusStore
	gateway gatewayQuerier
}

func NewStatusHandler(st store.StatusStore, gateway gatewayQuerier) *StatusHandler {
	return &StatusHandler{store: st, gateway: gateway}
}

// GetStatus serves the cached status record, falling through to a live
// gateway query on a cache miss or when the caller passes live=true.
// Proxied responses are not written back to the store.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	transactionID := r.URL.Query().Get("transaction")
	if transactionID == "" {
		RespondAppError(w, ErrMissingParameter, nil)
		return
	}

	if r.URL.Query().Get("live") != "true" {
		record, err := h.store.Get(r.Context(), transactionID)
		if err == nil {
			RespondSuccess(w, http.StatusOK, record)
			return
		}
		if !errors.Is(err, domain.ErrNotFound) {
			log.Error("status store read failed", "transaction_id", transactionID, "error", err)
		}
	}

	payment, err := h.gateway.GetPayment(r.Context(), transactionID)
	if err != nil {
		log.Warn("gateway status query failed", "transaction_id", transactionID, "error", err)
		RespondAppError(w, ErrPaymentNotFound, nil)
		return
	}

	RespondSuccess(w, http.StatusOK, payment)
}
