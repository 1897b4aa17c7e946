package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/conversor/webhook-relay/internal/domain"
)

// PostgresStore persists status records in the payment_status table for
// deployments that cannot afford losing the cache on restart. Rows carry
// an expires_at column the sweeper purges.
type PostgresStore struct {
	db  *sql.DB
	ttl time.Duration
}

func NewPostgresStore(db *sql.DB, ttl time.Duration) *PostgresStore {
	return &PostgresStore{db: db, ttl: ttl}
}

func (s *PostgresStore) Set(ctx context.Context, transactionID string, record domain.StatusRecord) error {
	if transactionID == "" {
		return fmt.Errorf("PostgresStore.Set: %w", domain.ErrMissingTransactionID)
	}

	customer, err := json.Marshal(record.Customer)
	if err != nil {
		return fmt.Errorf("PostgresStore.Set: marshal customer: %w", err)
	}
	items, err := json.Marshal(record.Items)
	if err != nil {
		return fmt.Errorf("PostgresStore.Set: marshal items: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO payment_status (
			transaction_id, status, amount, customer, items, updated_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (transaction_id) DO UPDATE SET
			status = EXCLUDED.status,
			amount = EXCLUDED.amount,
			customer = EXCLUDED.customer,
			items = EXCLUDED.items,
			updated_at = EXCLUDED.updated_at,
			expires_at = EXCLUDED.expires_at`,
		transactionID, record.Status, record.Amount, customer, items,
		record.UpdatedAt, record.UpdatedAt.Add(s.ttl),
	)
	if err != nil {
		return fmt.Errorf("PostgresStore.Set: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, transactionID string) (*domain.StatusRecord, error) {
	var (
		record   domain.StatusRecord
		customer []byte
		items    []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT status, amount, customer, items, updated_at FROM payment_status
		WHERE transaction_id = $1 AND expires_at > now()`,
		transactionID,
	).Scan(&record.Status, &record.Amount, &customer, &items, &record.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("PostgresStore.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("PostgresStore.Get: %w", err)
	}

	if err := json.Unmarshal(customer, &record.Customer); err != nil {
		return nil, fmt.Errorf("PostgresStore.Get: unmarshal customer: %w", err)
	}
	if err := json.Unmarshal(items, &record.Items); err != nil {
		return nil, fmt.Errorf("PostgresStore.Get: unmarshal items: %w", err)
	}
	return &record, nil
}

func (s *PostgresStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM payment_status WHERE expires_at <= $1`, now,
	)
	if err != nil {
		return 0, fmt.Errorf("PostgresStore.PurgeExpired: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("PostgresStore.PurgeExpired: rows affected: %w", err)
	}
	return int(rows), nil
}

// Close is a no-op; the pool is owned by the caller.
func (s *PostgresStore) Close() error { return nil }
