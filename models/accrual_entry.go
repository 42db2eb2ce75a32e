package models

import "time"

// AccrualEntry records one persisted accrual against a schedule: how
// many periods were released, how much unlocked, and what remained
// afterwards. One row is appended per schedule per CheckLocked call
// that actually released something.
type AccrualEntry struct {
	ID      int64  `db:"id" json:"id"`
	Pool    Pool   `db:"pool" json:"pool"`
	Account string `db:"account" json:"account"`

	PeriodsReleased uint64 `db:"periods_released" json:"periods_released"`
	AmountReleased  uint64 `db:"amount_released" json:"amount_released"`
	RemainingAfter  uint64 `db:"remaining_after" json:"remaining_after"`

	// ReferenceTime is the public-sale anchor the accrual was computed
	// against; EvaluatedAt is the caller-supplied current time.
	ReferenceTime uint64 `db:"reference_time" json:"reference_time"`
	EvaluatedAt   uint64 `db:"evaluated_at" json:"evaluated_at"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
