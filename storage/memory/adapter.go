package memory

import (
	"context"
	"sync"

	"github.com/sig-0/largestbanks/storage/types"
)

// Storage is an in-memory report store.
// Saves replace the whole report, like the relational store does
type Storage struct {
	banks []types.EnrichedBank
	saves int

	mu sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{}
}

func (s *Storage) SaveBanks(_ context.Context, banks []*types.EnrichedBank) error {
	data := make([]types.EnrichedBank, 0, len(banks))

	for _, bank := range banks {
		data = append(data, *bank)
	}

	s.mu.Lock()
	s.banks = data
	s.saves++
	s.mu.Unlock()

	return nil
}

func (s *Storage) ListBanks(_ context.Context) ([]*types.EnrichedBank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.EnrichedBank, 0, len(s.banks))

	for i := range s.banks {
		bank := s.banks[i]

		out = append(out, &bank)
	}

	return out, nil
}

// Saves returns the number of completed saves
func (s *Storage) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.saves
}

// Close is a no-op, the stored report survives it
func (s *Storage) Close() error {
	return nil
}
