package service

import (
	"context"

	"vestlock/events"
	"vestlock/models"
)

// ScheduleRepository defines the interface for vesting schedule data access
type ScheduleRepository interface {
	// Get retrieves the schedule for a (pool, account) pair, or nil if none exists
	Get(ctx context.Context, pool models.Pool, account string) (*models.VestingSchedule, error)

	// GetForUpdate retrieves the schedule with a row lock, serializing
	// concurrent accrual and setup on the same pair
	GetForUpdate(ctx context.Context, pool models.Pool, account string) (*models.VestingSchedule, error)

	// Upsert writes a schedule, replacing any prior schedule for the pair
	Upsert(ctx context.Context, schedule *models.VestingSchedule) error

	// UpdateProgress persists the mutable accrual fields of an existing schedule
	UpdateProgress(ctx context.Context, schedule *models.VestingSchedule) error

	// GetByAccount returns all schedules for an account across pools
	GetByAccount(ctx context.Context, account string) ([]*models.VestingSchedule, error)
}

// AccrualHistoryRepository defines the interface for the accrual audit trail
type AccrualHistoryRepository interface {
	// Record appends an accrual entry
	Record(ctx context.Context, entry *models.AccrualEntry) error

	// GetByAccount returns the most recent entries for an account
	GetByAccount(ctx context.Context, account string, limit int) ([]*models.AccrualEntry, error)
}

// PrincipalRepository defines the interface for the authorized-principal registry
type PrincipalRepository interface {
	// Get retrieves the principal holding a role, or nil if unset
	Get(ctx context.Context, role models.PrincipalRole) (*models.Principal, error)

	// Set binds a role to an address, creating or replacing the binding
	Set(ctx context.Context, role models.PrincipalRole, address string) error

	// GetAll returns every role binding
	GetAll(ctx context.Context) ([]*models.Principal, error)
}

// VestingService defines the operations the surrounding platform drives.
// The caller argument is the platform-authenticated identity of the
// invoking contract; the service only matches it against the registry.
type VestingService interface {
	// SetupVesting registers a schedule for an account in a pool.
	// Re-registering overwrites the prior schedule for the pair.
	SetupVesting(ctx context.Context, caller string, pool models.Pool, account string, cliffDuration, periodLength, periodAmount, totalLocked uint64) error

	// CheckLocked accrues every non-inert schedule the account holds as
	// of referenceTime, persists the result, and returns the total
	// still locked across all pools. referenceTime == 0 means the
	// public sale has not happened: nothing accrues, everything counts
	// as locked.
	CheckLocked(ctx context.Context, caller string, account string, referenceTime uint64) (uint64, error)

	// PreviewLocked computes the same total without persisting any
	// accrual. Repeated previews re-derive from stored state.
	PreviewLocked(ctx context.Context, caller string, account string, referenceTime uint64) (uint64, error)

	// GetSchedules returns the account's raw stored schedules.
	GetSchedules(ctx context.Context, account string) ([]*models.VestingSchedule, error)

	// GetAccrualHistory returns the account's most recent accruals.
	GetAccrualHistory(ctx context.Context, account string, limit int) ([]*models.AccrualEntry, error)
}

// AdminService defines owner-gated registry administration
type AdminService interface {
	// SetPrincipal rebinds a non-owner role to a new address
	SetPrincipal(ctx context.Context, caller string, role models.PrincipalRole, address string) error

	// TransferOwnership hands the owner role to a new identity
	TransferOwnership(ctx context.Context, caller string, newOwner string) error

	// GetPrincipals returns the current registry contents
	GetPrincipals(ctx context.Context) ([]*models.Principal, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	ScheduleRepository() ScheduleRepository
	AccrualHistoryRepository() AccrualHistoryRepository
	PrincipalRepository() PrincipalRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
