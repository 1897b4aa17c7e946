package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/conversor/webhook-relay/internal/domain"
)

type memoryEntry struct {
	record    domain.StatusRecord
	expiresAt time.Time
}

// MemoryStore is the default backend: a mutex-guarded map with per-entry
// expiry. Entries expire lazily on read; the sweeper reclaims the rest.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

func (s *MemoryStore) Set(_ context.Context, transactionID string, record domain.StatusRecord) error {
	if transactionID == "" {
		return fmt.Errorf("MemoryStore.Set: %w", domain.ErrMissingTransactionID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[transactionID] = memoryEntry{
		record:    record,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, transactionID string) (*domain.StatusRecord, error) {
	s.mu.RLock()
	entry, ok := s.entries[transactionID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("MemoryStore.Get: %w", domain.ErrNotFound)
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; the entry may have been replaced.
		if current, ok := s.entries[transactionID]; ok && time.Now().After(current.expiresAt) {
			delete(s.entries, transactionID)
		}
		s.mu.Unlock()
		return nil, fmt.Errorf("MemoryStore.Get: %w", domain.ErrNotFound)
	}

	record := entry.record
	return &record, nil
}

func (s *MemoryStore) PurgeExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
			purged++
		}
	}
	return purged, nil
}

func (s *MemoryStore) Close() error { return nil }

// Len reports stored entries, including any not yet swept.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
