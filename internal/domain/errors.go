package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrMissingTransactionID = errors.New("transaction id missing")
	ErrMissingCustomer      = errors.New("customer email and name are required")
	ErrMissingAmount        = errors.New("amount must be greater than zero")
	ErrSenderNotConfigured  = errors.New("sender credentials not configured")
	ErrUpstream             = errors.New("upstream call failed")
)
