package pricestore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mealcart/backend/internal/domain"
)

// MemoryStore is a thread-safe, append-only in-memory price log. Writers
// append new observations but never mutate existing ones, so readers only
// need the lock long enough to copy a snapshot.
type MemoryStore struct {
	byCity map[string][]domain.PriceObservation
	mutex  sync.RWMutex
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byCity: make(map[string][]domain.PriceObservation),
	}
}

// Append records a new observation. History is retained for audit; nothing
// is superseded at the storage layer.
func (s *MemoryStore) Append(ctx context.Context, obs domain.PriceObservation) error {
	city := strings.ToLower(obs.City)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.byCity[city] = append(s.byCity[city], obs)
	return nil
}

// SnapshotCity returns a consistent point-in-time copy of every observation
// for a city.
func (s *MemoryStore) SnapshotCity(ctx context.Context, city string) ([]domain.PriceObservation, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	observations := s.byCity[strings.ToLower(city)]
	snapshot := make([]domain.PriceObservation, len(observations))
	copy(snapshot, observations)
	return snapshot, nil
}

// History returns every retained observation for a (product, store) key,
// newest first.
func (s *MemoryStore) History(ctx context.Context, city string, key domain.PriceKey) ([]domain.PriceObservation, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var history []domain.PriceObservation
	for _, obs := range s.byCity[strings.ToLower(city)] {
		if obs.ProductName == key.ProductName && obs.Store == key.Store {
			history = append(history, obs)
		}
	}
	sort.Slice(history, func(a, b int) bool {
		return history[a].ObservedAt.After(history[b].ObservedAt)
	})
	return history, nil
}

// Size returns the total number of retained observations (for monitoring).
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	total := 0
	for _, observations := range s.byCity {
		total += len(observations)
	}
	return total
}
