package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conversor/webhook-relay/internal/domain"
	"github.com/conversor/webhook-relay/internal/store"
	"github.com/conversor/webhook-relay/internal/testutil"
)

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	addr := testutil.SetupTestRedis(t)

	newStore := func(t *testing.T, ttl time.Duration) *store.RedisStore {
		t.Helper()
		s, err := store.NewRedisStore(addr, "", 0, ttl)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	}

	t.Run("set then get round-trips the record", func(t *testing.T) {
		s := newStore(t, time.Hour)

		record := domain.StatusRecord{
			Status: domain.PaymentStatusCompleted,
			Amount: 2830,
			Customer: &domain.CustomerPayload{
				Name:  "Maria da Silva",
				Email: "maria@example.com",
			},
			Items:     []domain.ItemPayload{{ID: "i1", Title: "Curso X", Quantity: 2, UnitPrice: 1415}},
			UpdatedAt: time.Now().UTC().Truncate(time.Second),
		}
		require.NoError(t, s.Set(ctx, "redis-t1", record))

		got, err := s.Get(ctx, "redis-t1")
		require.NoError(t, err)
		assert.Equal(t, record.Status, got.Status)
		assert.Equal(t, record.Amount, got.Amount)
		require.NotNil(t, got.Customer)
		assert.Equal(t, "maria@example.com", got.Customer.Email)
		require.Len(t, got.Items, 1)
		assert.Equal(t, "Curso X", got.Items[0].Title)
		assert.True(t, record.UpdatedAt.Equal(got.UpdatedAt))
	})

	t.Run("missing id is a not-found", func(t *testing.T) {
		s := newStore(t, time.Hour)
		_, err := s.Get(ctx, "redis-missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("set replaces the whole record", func(t *testing.T) {
		s := newStore(t, time.Hour)

		first := domain.StatusRecord{Status: domain.PaymentStatusPending, Amount: 100, UpdatedAt: time.Now().UTC()}
		second := domain.StatusRecord{Status: domain.PaymentStatusCompleted, Amount: 100, UpdatedAt: time.Now().UTC()}
		require.NoError(t, s.Set(ctx, "redis-t2", first))
		require.NoError(t, s.Set(ctx, "redis-t2", second))

		got, err := s.Get(ctx, "redis-t2")
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusCompleted, got.Status)
	})

	t.Run("entries expire after the ttl", func(t *testing.T) {
		s := newStore(t, 500*time.Millisecond)

		record := domain.StatusRecord{Status: domain.PaymentStatusPending, Amount: 100, UpdatedAt: time.Now().UTC()}
		require.NoError(t, s.Set(ctx, "redis-t3", record))

		_, err := s.Get(ctx, "redis-t3")
		require.NoError(t, err, "entry must be readable before the ttl lapses")

		time.Sleep(time.Second)
		_, err = s.Get(ctx, "redis-t3")
		assert.ErrorIs(t, err, domain.ErrNotFound, "expired key must read as a miss")
	})

	t.Run("rejects an empty transaction id", func(t *testing.T) {
		s := newStore(t, time.Hour)
		err := s.Set(ctx, "", domain.StatusRecord{Status: domain.PaymentStatusPending})
		assert.ErrorIs(t, err, domain.ErrMissingTransactionID)
	})

	t.Run("purge is a no-op", func(t *testing.T) {
		s := newStore(t, time.Hour)
		purged, err := s.PurgeExpired(ctx, time.Now())
		require.NoError(t, err)
		assert.Zero(t, purged)
	})
}
