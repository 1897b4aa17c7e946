package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/conversor/webhook-relay/internal/logging"
)

// Echo logs and returns the received payload verbatim. Diagnostic aid for
// inspecting what the gateway actually sends; not part of the relay
// contract.
func Echo(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		payload = string(body)
	}

	log.Info("debug webhook received", "bytes", len(body))
	RespondSuccess(w, http.StatusOK, map[string]any{
		"message": "payload received",
		"payload": payload,
	})
}
