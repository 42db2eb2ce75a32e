package models

import (
	"time"
)

// VestingSchedule is the per-account, per-pool record of lock terms and
// the balance still locked under them. All durations and timestamps are
// unsigned seconds; amounts are integral token units.
//
// RemainingLocked only decreases after creation, and only through the
// accrual engine. A schedule with RemainingLocked == 0 is fully vested
// and inert: accrual skips it and aggregation counts it as zero.
type VestingSchedule struct {
	Pool    Pool   `db:"pool" json:"pool"`
	Account string `db:"account" json:"account"`

	// CliffDuration is the wait after the reference time before any
	// release begins.
	CliffDuration uint64 `db:"cliff_duration" json:"cliff_duration"`
	// PeriodLength is the length of one release period. Always nonzero
	// for a stored schedule; setup rejects zero.
	PeriodLength uint64 `db:"period_length" json:"period_length"`
	// PeriodAmount is the amount released per elapsed period.
	PeriodAmount uint64 `db:"period_amount" json:"period_amount"`

	RemainingLocked uint64 `db:"remaining_locked" json:"remaining_locked"`
	// LastReleasedPeriod counts how many periods' worth of release have
	// already been applied to this schedule.
	LastReleasedPeriod uint64 `db:"last_released_period" json:"last_released_period"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FullyVested reports whether the schedule has nothing left to release.
func (s *VestingSchedule) FullyVested() bool {
	return s.RemainingLocked == 0
}
