package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/conversor/webhook-relay/internal/domain"
	"github.com/conversor/webhook-relay/internal/logging"
	"github.com/conversor/webhook-relay/internal/service"
)

type relayService interface {
	Process(ctx context.Context, payload *domain.WebhookPayload) (*service.Outcome, error)
}

type WebhookHandler struct {
	relay  relayService
	secret string
}

// NewWebhookHandler wires the payment-status endpoint. An empty secret
// disables signature verification, matching gateways that sign nothing.
func NewWebhookHandler(relay relayService, secret string) *WebhookHandler {
	return &WebhookHandler{relay: relay, secret: secret}
}

// The gateway has used several signature header names over time.
var signatureHeaders = []string{"X-Signature", "X-Hub-Signature-256", "Signature"}

func (h *WebhookHandler) ReceivePaymentStatus(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		log.Error("failed to read webhook body", "error", err)
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if h.secret != "" && !verifySignature(body, signatureOf(r), h.secret) {
		log.Warn("webhook signature verification failed")
		RespondAppError(w, ErrInvalidSignature, nil)
		return
	}

	var payload domain.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Warn("failed to parse webhook payload", "error", err)
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	outcome, err := h.relay.Process(r.Context(), &payload)
	if err != nil {
		log.Error("webhook processing failed", "transaction_id", payload.TransactionID(), "error", err)
		RespondDomainError(w, err)
		return
	}

	if !outcome.Approved {
		RespondSuccess(w, http.StatusOK, map[string]string{
			"message": "webhook received - payment not approved",
		})
		return
	}

	log.Info("webhook processed",
		"transaction_id", outcome.TransactionID,
		"event_id", outcome.EventID,
	)
	RespondSuccess(w, http.StatusOK, map[string]string{
		"message": "webhook processed successfully",
		"eventId": outcome.EventID,
	})
}

func signatureOf(r *http.Request) string {
	for _, header := range signatureHeaders {
		if sig := r.Header.Get(header); sig != "" {
			return sig
		}
	}
	return ""
}

func verifySignature(body []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}
	signature = strings.TrimPrefix(signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
