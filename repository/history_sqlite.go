package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"sip-calculator/domain"
)

// HistorySQLite persists calculations in a SQLite database.
type HistorySQLite struct {
	db *sql.DB
}

func NewHistorySQLite(dbPath string) (*HistorySQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	return &HistorySQLite{db: db}, nil
}

func (r *HistorySQLite) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const insertHistory = `
INSERT INTO calculation_history (
    id, created_at, contribution_amount, annual_rate_percent, duration_years,
    compounding_frequency, inflation_adjusted, total_invested, estimated_returns, total_value
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (r *HistorySQLite) Save(ctx context.Context, e domain.HistoryEntry) error {
	freq := e.Input.CompoundingFrequency
	if freq == "" {
		freq = domain.FrequencyMonthly
	}

	_, err := r.db.ExecContext(ctx, insertHistory,
		e.ID,
		e.CreatedAt.UnixNano(),
		e.Input.ContributionAmount,
		e.Input.AnnualRatePercent,
		e.Input.DurationYears,
		string(freq),
		e.InflationAdjusted,
		e.Result.TotalInvested,
		e.Result.EstimatedReturns,
		e.Result.TotalValue,
	)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

const listHistory = `
SELECT id, created_at, contribution_amount, annual_rate_percent, duration_years,
       compounding_frequency, inflation_adjusted, total_invested, estimated_returns, total_value
FROM calculation_history
ORDER BY created_at DESC, rowid DESC
LIMIT ?`

func (r *HistorySQLite) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = -1 // sin límite
	}

	rows, err := r.db.QueryContext(ctx, listHistory, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []domain.HistoryEntry
	for rows.Next() {
		var (
			e         domain.HistoryEntry
			createdAt int64
			freq      string
		)
		if err := rows.Scan(
			&e.ID,
			&createdAt,
			&e.Input.ContributionAmount,
			&e.Input.AnnualRatePercent,
			&e.Input.DurationYears,
			&freq,
			&e.InflationAdjusted,
			&e.Result.TotalInvested,
			&e.Result.EstimatedReturns,
			&e.Result.TotalValue,
		); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		e.CreatedAt = time.Unix(0, createdAt).UTC()
		e.Input.CompoundingFrequency = domain.Frequency(freq)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return out, nil
}
