package repository

import (
	"context"
	"sync"

	"sip-calculator/domain"
)

// HistoryRepositoryMemory is an in-memory implementation of HistoryRepository.
type HistoryRepositoryMemory struct {
	mu   sync.RWMutex
	data []domain.HistoryEntry
}

// NewHistoryRepositoryMemory creates a new in-memory history repository.
func NewHistoryRepositoryMemory() *HistoryRepositoryMemory {
	return &HistoryRepositoryMemory{
		data: []domain.HistoryEntry{},
	}
}

// Save stores the entry in memory.
func (r *HistoryRepositoryMemory) Save(
	_ context.Context,
	entry domain.HistoryEntry,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = append(r.data, entry)
	return nil
}

func (r *HistoryRepositoryMemory) List(
	_ context.Context,
	limit int,
) ([]domain.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.data)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]domain.HistoryEntry, 0, n)
	for i := len(r.data) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.data[i])
	}
	return out, nil
}
