package repository

import (
	"context"
	"fmt"

	"vestlock/database"
	"vestlock/models"
)

// AccrualHistoryRepository implements the AccrualHistoryRepository interface
type AccrualHistoryRepository struct {
	q Queryable
}

// NewAccrualHistoryRepository creates a new accrual history repository
func NewAccrualHistoryRepository(db *database.DB) *AccrualHistoryRepository {
	return &AccrualHistoryRepository{q: db.Pool}
}

func newAccrualHistoryRepository(tx Queryable) *AccrualHistoryRepository {
	return &AccrualHistoryRepository{q: tx}
}

// Record appends an accrual entry
func (r *AccrualHistoryRepository) Record(ctx context.Context, entry *models.AccrualEntry) error {
	query := `
		INSERT INTO accrual_history (
			pool, account, periods_released, amount_released,
			remaining_after, reference_time, evaluated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.Pool,
		entry.Account,
		entry.PeriodsReleased,
		entry.AmountReleased,
		entry.RemainingAfter,
		entry.ReferenceTime,
		entry.EvaluatedAt,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record accrual for pool %s account %s: %w", entry.Pool, entry.Account, err)
	}

	return nil
}

// GetByAccount returns the most recent entries for an account
func (r *AccrualHistoryRepository) GetByAccount(ctx context.Context, account string, limit int) ([]*models.AccrualEntry, error) {
	query := `
		SELECT id, pool, account, periods_released, amount_released,
			remaining_after, reference_time, evaluated_at, created_at
		FROM accrual_history
		WHERE account = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, account, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query accrual history for account %s: %w", account, err)
	}
	defer rows.Close()

	var entries []*models.AccrualEntry
	for rows.Next() {
		var e models.AccrualEntry
		err := rows.Scan(
			&e.ID,
			&e.Pool,
			&e.Account,
			&e.PeriodsReleased,
			&e.AmountReleased,
			&e.RemainingAfter,
			&e.ReferenceTime,
			&e.EvaluatedAt,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan accrual entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accrual history: %w", err)
	}

	return entries, nil
}
