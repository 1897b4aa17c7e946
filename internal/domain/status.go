package domain

import "time"

const (
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusPending   = "PENDING"
)

// StatusRecord is the per-transaction entry kept in the status store,
// written on every webhook receipt (last writer wins).
type StatusRecord struct {
	Status    string           `json:"status"`
	Amount    int64            `json:"amount"`
	Customer  *CustomerPayload `json:"customer,omitempty"`
	Items     []ItemPayload    `json:"items"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
