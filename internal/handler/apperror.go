package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest       = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrMissingTransactionID = &AppError{http.StatusBadRequest, "MISSING_TRANSACTION_ID", "Transaction id is required"}
	ErrInsufficientData     = &AppError{http.StatusBadRequest, "INSUFFICIENT_DATA", "Customer or transaction data is missing"}
	ErrMissingParameter     = &AppError{http.StatusBadRequest, "MISSING_PARAMETER", "Query parameter transaction is required"}
	ErrInvalidSignature     = &AppError{http.StatusUnauthorized, "INVALID_SIGNATURE", "Webhook signature is invalid"}
	ErrPaymentNotFound      = &AppError{http.StatusNotFound, "PAYMENT_NOT_FOUND", "Payment not found or gateway unavailable"}
	ErrConversionFailed     = &AppError{http.StatusInternalServerError, "CONVERSION_FAILED", "Failed to send conversion event"}
	ErrInternalError        = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}
)
