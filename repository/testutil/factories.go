package testutil

import (
	"vestlock/models"
)

// CreateTestSchedule builds a schedule with sane defaults for tests
func CreateTestSchedule(pool models.Pool, account string) *models.VestingSchedule {
	return &models.VestingSchedule{
		Pool:            pool,
		Account:         account,
		CliffDuration:   86400,
		PeriodLength:    2592000,
		PeriodAmount:    1000,
		RemainingLocked: 12000,
	}
}

// CreateTestAccrualEntry builds an accrual entry for tests
func CreateTestAccrualEntry(pool models.Pool, account string) *models.AccrualEntry {
	return &models.AccrualEntry{
		Pool:            pool,
		Account:         account,
		PeriodsReleased: 1,
		AmountReleased:  1000,
		RemainingAfter:  11000,
		ReferenceTime:   1700000000,
		EvaluatedAt:     1702678400,
	}
}
