package repository

import (
	"context"
	"fmt"

	"vestlock/database"
	"vestlock/events"
	"vestlock/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the service.UnitOfWork interface
type unitOfWork struct {
	db  *database.DB
	tx  pgx.Tx
	ctx context.Context

	eventBus *events.TransactionalBus

	scheduleRepo  service.ScheduleRepository
	accrualRepo   service.AccrualHistoryRepository
	principalRepo service.PrincipalRepository
}

type unitOfWorkFactory struct {
	db  *database.DB
	bus *events.Bus
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. Events
// published during a unit of work are flushed to bus on commit.
func NewUnitOfWorkFactory(db *database.DB, bus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db, bus: bus}
}

// Create creates a new UnitOfWork
func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:       f.db,
		eventBus: events.NewTransactionalBus(f.bus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Bind repositories to the transaction
	u.scheduleRepo = newScheduleRepository(tx)
	u.accrualRepo = newAccrualHistoryRepository(tx)
	u.principalRepo = newPrincipalRepository(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events only after a successful commit
	if err := u.eventBus.Flush(u.ctx); err != nil {
		return fmt.Errorf("failed to flush events: %w", err)
	}

	return nil
}

// Rollback rolls back the transaction. No-op if already committed.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil
	u.eventBus.Discard()

	return nil
}

// ScheduleRepository returns the schedule repository for this unit of work
func (u *unitOfWork) ScheduleRepository() service.ScheduleRepository {
	if u.scheduleRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.scheduleRepo
}

// AccrualHistoryRepository returns the accrual history repository for this unit of work
func (u *unitOfWork) AccrualHistoryRepository() service.AccrualHistoryRepository {
	if u.accrualRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accrualRepo
}

// PrincipalRepository returns the principal repository for this unit of work
func (u *unitOfWork) PrincipalRepository() service.PrincipalRepository {
	if u.principalRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.principalRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	return u.eventBus
}
