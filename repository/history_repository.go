package repository

import (
	"context"

	"sip-calculator/domain"
)

// HistoryRepository stores past calculations. List returns the newest first.
type HistoryRepository interface {
	Save(ctx context.Context, entry domain.HistoryEntry) error
	List(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}
