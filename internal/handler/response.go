package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/conversor/webhook-relay/internal/domain"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondSuccess(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Error:   nil,
	})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	RespondJSON(w, appErr.Status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &APIError{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

func RespondDomainError(w http.ResponseWriter, err error) {
	var appErr *AppError

	switch {
	case errors.Is(err, domain.ErrMissingTransactionID):
		appErr = ErrMissingTransactionID
	case errors.Is(err, domain.ErrMissingCustomer), errors.Is(err, domain.ErrMissingAmount):
		appErr = ErrInsufficientData
	case errors.Is(err, domain.ErrNotFound):
		appErr = ErrPaymentNotFound
	case errors.Is(err, domain.ErrUpstream), errors.Is(err, domain.ErrSenderNotConfigured):
		appErr = ErrConversionFailed
	default:
		slog.Error("unhandled domain error", "error", err)
		appErr = ErrInternalError
	}

	RespondAppError(w, appErr, nil)
}
