package testutil

import (
	"encoding/json"
	"testing"

	"github.com/conversor/webhook-relay/internal/domain"
)

// ApprovedPayload is the canonical happy-path webhook body used across
// handler and service tests.
func ApprovedPayload() *domain.WebhookPayload {
	return &domain.WebhookPayload{
		ID:     "t1",
		Status: "paid",
		Amount: 1000,
		Method: "pix",
		Customer: &domain.CustomerPayload{
			Name:  "A B",
			Email: "a@b.com",
			Phone: "(11) 98765-4321",
			CPF:   "12345678901",
		},
		Items: []domain.ItemPayload{
			{ID: "i1", Title: "X", Quantity: 1, UnitPrice: 1000},
		},
		CreatedAt: "2026-03-01T12:00:00Z",
	}
}

func MarshalPayload(t *testing.T, p *domain.WebhookPayload) string {
	t.Helper()
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return string(b)
}
