package handler

import (
	"net/http"
	"time"
)

type HealthHandler struct {
	service string
}

func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{service: service}
}

// Liveness always reports healthy: the relay holds no connection that
// could degrade it short of the process being gone.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   h.service,
	})
}
