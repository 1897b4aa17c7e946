package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/conversor/webhook-relay/internal/domain"
)

const redisKeyPrefix = "payment_status:"

// RedisStore keeps status records as JSON values with a native key TTL,
// so expiry needs no sweeping.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("NewRedisStore: ping: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Set(ctx context.Context, transactionID string, record domain.StatusRecord) error {
	if transactionID == "" {
		return fmt.Errorf("RedisStore.Set: %w", domain.ErrMissingTransactionID)
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("RedisStore.Set: marshal: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+transactionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("RedisStore.Set: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, transactionID string) (*domain.StatusRecord, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+transactionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("RedisStore.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("RedisStore.Get: %w", err)
	}

	var record domain.StatusRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("RedisStore.Get: unmarshal: %w", err)
	}
	return &record, nil
}

// PurgeExpired is a no-op: Redis evicts keys itself when their TTL lapses.
func (s *RedisStore) PurgeExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
