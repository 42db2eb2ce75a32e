package repository

import (
	"context"
	"fmt"

	"vestlock/database"
	"vestlock/models"

	"github.com/jackc/pgx/v5"
)

// ScheduleRepository implements the ScheduleRepository interface
type ScheduleRepository struct {
	q Queryable
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *database.DB) *ScheduleRepository {
	return &ScheduleRepository{q: db.Pool}
}

func newScheduleRepository(tx Queryable) *ScheduleRepository {
	return &ScheduleRepository{q: tx}
}

const scheduleColumns = `
	pool,
	account,
	cliff_duration,
	period_length,
	period_amount,
	remaining_locked,
	last_released_period,
	created_at,
	updated_at`

func scanSchedule(row pgx.Row) (*models.VestingSchedule, error) {
	var s models.VestingSchedule
	err := row.Scan(
		&s.Pool,
		&s.Account,
		&s.CliffDuration,
		&s.PeriodLength,
		&s.PeriodAmount,
		&s.RemainingLocked,
		&s.LastReleasedPeriod,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Get retrieves the schedule for a (pool, account) pair, or nil if none exists
func (r *ScheduleRepository) Get(ctx context.Context, pool models.Pool, account string) (*models.VestingSchedule, error) {
	query := `
		SELECT` + scheduleColumns + `
		FROM vesting_schedules
		WHERE pool = $1 AND account = $2
	`

	schedule, err := scanSchedule(r.q.QueryRow(ctx, query, pool, account))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule for pool %s account %s: %w", pool, account, err)
	}

	return schedule, nil
}

// GetForUpdate retrieves the schedule with a row lock, serializing
// concurrent accrual against the same pair. Must run inside a
// transaction; the lock is held until commit or rollback.
func (r *ScheduleRepository) GetForUpdate(ctx context.Context, pool models.Pool, account string) (*models.VestingSchedule, error) {
	query := `
		SELECT` + scheduleColumns + `
		FROM vesting_schedules
		WHERE pool = $1 AND account = $2
		FOR UPDATE
	`

	schedule, err := scanSchedule(r.q.QueryRow(ctx, query, pool, account))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock schedule for pool %s account %s: %w", pool, account, err)
	}

	return schedule, nil
}

// Upsert writes a schedule, replacing any prior schedule for the pair
func (r *ScheduleRepository) Upsert(ctx context.Context, schedule *models.VestingSchedule) error {
	query := `
		INSERT INTO vesting_schedules (
			pool, account, cliff_duration, period_length, period_amount,
			remaining_locked, last_released_period
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (pool, account) DO UPDATE SET
			cliff_duration = EXCLUDED.cliff_duration,
			period_length = EXCLUDED.period_length,
			period_amount = EXCLUDED.period_amount,
			remaining_locked = EXCLUDED.remaining_locked,
			last_released_period = EXCLUDED.last_released_period,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		schedule.Pool,
		schedule.Account,
		schedule.CliffDuration,
		schedule.PeriodLength,
		schedule.PeriodAmount,
		schedule.RemainingLocked,
		schedule.LastReleasedPeriod,
	).Scan(&schedule.CreatedAt, &schedule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert schedule for pool %s account %s: %w", schedule.Pool, schedule.Account, err)
	}

	return nil
}

// UpdateProgress persists the mutable accrual fields of an existing schedule
func (r *ScheduleRepository) UpdateProgress(ctx context.Context, schedule *models.VestingSchedule) error {
	query := `
		UPDATE vesting_schedules
		SET remaining_locked = $3,
			last_released_period = $4,
			updated_at = NOW()
		WHERE pool = $1 AND account = $2
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		schedule.Pool,
		schedule.Account,
		schedule.RemainingLocked,
		schedule.LastReleasedPeriod,
	).Scan(&schedule.UpdatedAt)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("no schedule to update for pool %s account %s", schedule.Pool, schedule.Account)
	}
	if err != nil {
		return fmt.Errorf("failed to update schedule for pool %s account %s: %w", schedule.Pool, schedule.Account, err)
	}

	return nil
}

// GetByAccount returns all schedules for an account across pools
func (r *ScheduleRepository) GetByAccount(ctx context.Context, account string) ([]*models.VestingSchedule, error) {
	query := `
		SELECT` + scheduleColumns + `
		FROM vesting_schedules
		WHERE account = $1
		ORDER BY pool
	`

	rows, err := r.q.Query(ctx, query, account)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules for account %s: %w", account, err)
	}
	defer rows.Close()

	var schedules []*models.VestingSchedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedules: %w", err)
	}

	return schedules, nil
}
