package service

import (
	"context"
	"fmt"

	"vestlock/events"
	"vestlock/models"
	"vestlock/safemath"

	log "github.com/sirupsen/logrus"
)

type vestingService struct {
	uowFactory UnitOfWorkFactory
	clock      Clock
}

// NewVestingService creates a new vesting service
func NewVestingService(uowFactory UnitOfWorkFactory, clock Clock) VestingService {
	return &vestingService{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (s *vestingService) SetupVesting(ctx context.Context, caller string, pool models.Pool, account string, cliffDuration, periodLength, periodAmount, totalLocked uint64) error {
	if account == "" {
		return ErrInvalidAccount
	}
	if periodLength == 0 {
		return ErrInvalidPeriodLength
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := authorize(ctx, uow, pool.SetupRole(), caller); err != nil {
		return err
	}

	schedule := &models.VestingSchedule{
		Pool:            pool,
		Account:         account,
		CliffDuration:   cliffDuration,
		PeriodLength:    periodLength,
		PeriodAmount:    periodAmount,
		RemainingLocked: totalLocked,
	}

	if err := uow.ScheduleRepository().Upsert(ctx, schedule); err != nil {
		return fmt.Errorf("failed to store schedule: %w", err)
	}

	uow.EventBus().Publish(events.ScheduleCreatedEvent{
		Pool:          string(pool),
		Account:       account,
		CliffDuration: cliffDuration,
		PeriodLength:  periodLength,
		PeriodAmount:  periodAmount,
		TotalLocked:   totalLocked,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"pool":        pool,
		"account":     account,
		"totalLocked": totalLocked,
	}).Info("Vesting schedule registered")

	return nil
}

func (s *vestingService) CheckLocked(ctx context.Context, caller string, account string, referenceTime uint64) (uint64, error) {
	return s.aggregateLocked(ctx, caller, account, referenceTime, true)
}

func (s *vestingService) PreviewLocked(ctx context.Context, caller string, account string, referenceTime uint64) (uint64, error) {
	return s.aggregateLocked(ctx, caller, account, referenceTime, false)
}

// aggregateLocked walks the four pools in their fixed order, accrues
// each non-inert schedule to the current instant, and sums what stays
// locked. With persist set, accrual results are written back and the
// whole walk commits or rolls back as one transaction; without it the
// accrual happens on in-memory copies only.
func (s *vestingService) aggregateLocked(ctx context.Context, caller string, account string, referenceTime uint64, persist bool) (uint64, error) {
	if account == "" {
		return 0, ErrInvalidAccount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := authorize(ctx, uow, models.RoleToken, caller); err != nil {
		return 0, err
	}

	now := s.clock.unix()
	var total uint64

	for _, pool := range models.AllPools() {
		var (
			schedule *models.VestingSchedule
			err      error
		)
		if persist && referenceTime != 0 {
			schedule, err = uow.ScheduleRepository().GetForUpdate(ctx, pool, account)
		} else {
			schedule, err = uow.ScheduleRepository().Get(ctx, pool, account)
		}
		if err != nil {
			return 0, fmt.Errorf("failed to load %s schedule: %w", pool, err)
		}
		if schedule == nil || schedule.FullyVested() {
			continue
		}

		// A zero reference time means the public sale has not happened:
		// nothing accrues and the full remainder counts as locked.
		if referenceTime != 0 {
			result, err := accrue(schedule, referenceTime, now)
			if err != nil {
				return 0, fmt.Errorf("accrual failed for %s schedule of %s: %w", pool, account, err)
			}

			if persist {
				if err := uow.ScheduleRepository().UpdateProgress(ctx, schedule); err != nil {
					return 0, fmt.Errorf("failed to persist accrual for %s schedule: %w", pool, err)
				}
				if result.Released > 0 {
					entry := &models.AccrualEntry{
						Pool:            pool,
						Account:         account,
						PeriodsReleased: result.NewPeriods,
						AmountReleased:  result.Released,
						RemainingAfter:  schedule.RemainingLocked,
						ReferenceTime:   referenceTime,
						EvaluatedAt:     now,
					}
					if err := uow.AccrualHistoryRepository().Record(ctx, entry); err != nil {
						return 0, fmt.Errorf("failed to record accrual history: %w", err)
					}

					uow.EventBus().Publish(events.AccrualAppliedEvent{
						Pool:            string(pool),
						Account:         account,
						PeriodsReleased: result.NewPeriods,
						AmountReleased:  result.Released,
						RemainingAfter:  schedule.RemainingLocked,
						ReferenceTime:   referenceTime,
						EvaluatedAt:     now,
					})
					if schedule.FullyVested() {
						uow.EventBus().Publish(events.ScheduleFullyVestedEvent{
							Pool:    string(pool),
							Account: account,
						})
					}
				}
			}
		}

		total, err = safemath.Add(total, schedule.RemainingLocked)
		if err != nil {
			return 0, fmt.Errorf("aggregating locked balance: %w", err)
		}
	}

	if persist {
		if err := uow.Commit(); err != nil {
			return 0, fmt.Errorf("failed to commit transaction: %w", err)
		}
	}

	return total, nil
}

func (s *vestingService) GetSchedules(ctx context.Context, account string) ([]*models.VestingSchedule, error) {
	if account == "" {
		return nil, ErrInvalidAccount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	schedules, err := uow.ScheduleRepository().GetByAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}
	return schedules, nil
}

func (s *vestingService) GetAccrualHistory(ctx context.Context, account string, limit int) ([]*models.AccrualEntry, error) {
	if account == "" {
		return nil, ErrInvalidAccount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.AccrualHistoryRepository().GetByAccount(ctx, account, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load accrual history: %w", err)
	}
	return entries, nil
}

// authorize checks the caller against the registry binding for a role.
func authorize(ctx context.Context, uow UnitOfWork, role models.PrincipalRole, caller string) error {
	principal, err := uow.PrincipalRepository().Get(ctx, role)
	if err != nil {
		return fmt.Errorf("failed to look up %s principal: %w", role, err)
	}
	if principal == nil || principal.Address == "" || principal.Address != caller {
		return fmt.Errorf("%w: role %s", ErrUnauthorized, role)
	}
	return nil
}
