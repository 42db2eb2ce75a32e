package service

import (
	"fmt"

	"vestlock/models"
	"vestlock/safemath"
)

// accrualResult describes what one accrual pass released.
type accrualResult struct {
	NewPeriods uint64
	Released   uint64
}

// accrue advances a schedule to the evaluation instant now, measured
// against the public-sale anchor referenceTime, and mutates its
// RemainingLocked and LastReleasedPeriod in place.
//
// The release count is periods-due-inclusive: the moment the cliff
// elapses, the 0th period is already due, hence the +1. Catch-up is
// idempotent — LastReleasedPeriod records how much has been applied, so
// re-evaluating at the same instant releases nothing further.
//
// Callers must only invoke this on schedules with RemainingLocked > 0
// and a nonzero referenceTime. Every arithmetic step is checked; a
// fault aborts the accrual with the schedule untouched.
func accrue(s *models.VestingSchedule, referenceTime, now uint64) (accrualResult, error) {
	cliffEnd, err := safemath.Add(referenceTime, s.CliffDuration)
	if err != nil {
		return accrualResult{}, fmt.Errorf("computing cliff end: %w", err)
	}
	if now <= cliffEnd {
		return accrualResult{}, ErrCliffNotElapsed
	}

	sinceCliff, err := safemath.Sub(now, cliffEnd)
	if err != nil {
		return accrualResult{}, fmt.Errorf("computing time since cliff: %w", err)
	}
	elapsed, err := safemath.Div(sinceCliff, s.PeriodLength)
	if err != nil {
		return accrualResult{}, fmt.Errorf("computing elapsed periods: %w", err)
	}
	periodsDue, err := safemath.Add(elapsed, 1)
	if err != nil {
		return accrualResult{}, fmt.Errorf("computing periods due: %w", err)
	}

	// Underflows if the evaluation instant moved backwards relative to
	// the last persisted accrual, which the time source contract rules
	// out; treat it as a fault rather than releasing negative periods.
	newPeriods, err := safemath.Sub(periodsDue, s.LastReleasedPeriod)
	if err != nil {
		return accrualResult{}, fmt.Errorf("computing new periods: %w", err)
	}

	released, err := safemath.Mul(s.PeriodAmount, newPeriods)
	if err != nil {
		return accrualResult{}, fmt.Errorf("computing released amount: %w", err)
	}

	// Clamp rather than underflow on the final release, and treat a
	// leftover smaller than one period's amount as fully vested so no
	// dust remainder survives.
	before := s.RemainingLocked
	remaining := uint64(0)
	if released < before {
		remaining = before - released
		if remaining < s.PeriodAmount {
			remaining = 0
		}
	}

	s.RemainingLocked = remaining
	s.LastReleasedPeriod = periodsDue

	return accrualResult{NewPeriods: newPeriods, Released: before - remaining}, nil
}
