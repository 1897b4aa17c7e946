// Package store persists per-transaction status records behind a small
// key-value interface. Three backends exist: in-process memory (default),
// Redis, and Postgres. Every write carries a TTL so the store cannot grow
// without bound.
package store

import (
	"context"
	"time"

	"github.com/conversor/webhook-relay/internal/domain"
)

// StatusStore is the contract the webhook and lookup paths depend on.
// Get returns domain.ErrNotFound for missing or expired entries. Writes
// are whole-record replacements; concurrent writers for the same id race
// harmlessly toward last-writer-wins.
type StatusStore interface {
	Set(ctx context.Context, transactionID string, record domain.StatusRecord) error
	Get(ctx context.Context, transactionID string) (*domain.StatusRecord, error)
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
	Close() error
}
