package service

import (
	"context"

	"vestlock/events"
	"vestlock/models"

	"github.com/stretchr/testify/mock"
)

// MockScheduleRepository is a mock implementation of ScheduleRepository
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) Get(ctx context.Context, pool models.Pool, account string) (*models.VestingSchedule, error) {
	args := m.Called(ctx, pool, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VestingSchedule), args.Error(1)
}

func (m *MockScheduleRepository) GetForUpdate(ctx context.Context, pool models.Pool, account string) (*models.VestingSchedule, error) {
	args := m.Called(ctx, pool, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VestingSchedule), args.Error(1)
}

func (m *MockScheduleRepository) Upsert(ctx context.Context, schedule *models.VestingSchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockScheduleRepository) UpdateProgress(ctx context.Context, schedule *models.VestingSchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockScheduleRepository) GetByAccount(ctx context.Context, account string) ([]*models.VestingSchedule, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.VestingSchedule), args.Error(1)
}

// MockAccrualHistoryRepository is a mock implementation of AccrualHistoryRepository
type MockAccrualHistoryRepository struct {
	mock.Mock
}

func (m *MockAccrualHistoryRepository) Record(ctx context.Context, entry *models.AccrualEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAccrualHistoryRepository) GetByAccount(ctx context.Context, account string, limit int) ([]*models.AccrualEntry, error) {
	args := m.Called(ctx, account, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AccrualEntry), args.Error(1)
}

// MockPrincipalRepository is a mock implementation of PrincipalRepository
type MockPrincipalRepository struct {
	mock.Mock
}

func (m *MockPrincipalRepository) Get(ctx context.Context, role models.PrincipalRole) (*models.Principal, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Principal), args.Error(1)
}

func (m *MockPrincipalRepository) Set(ctx context.Context, role models.PrincipalRole, address string) error {
	args := m.Called(ctx, role, address)
	return args.Error(0)
}

func (m *MockPrincipalRepository) GetAll(ctx context.Context) ([]*models.Principal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Principal), args.Error(1)
}

// RecordingPublisher collects events published during a unit of work
type RecordingPublisher struct {
	Events []events.Event
}

func (p *RecordingPublisher) Publish(event events.Event) {
	p.Events = append(p.Events, event)
}

// MockUnitOfWork is a fake unit of work backed by mock repositories.
// Begin/Commit/Rollback are tracked, not transactional.
type MockUnitOfWork struct {
	ScheduleRepo  *MockScheduleRepository
	AccrualRepo   *MockAccrualHistoryRepository
	PrincipalRepo *MockPrincipalRepository
	Publisher     *RecordingPublisher

	Began      bool
	Committed  bool
	RolledBack bool
}

// NewMockUnitOfWork creates a MockUnitOfWork with fresh mock repositories
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		ScheduleRepo:  &MockScheduleRepository{},
		AccrualRepo:   &MockAccrualHistoryRepository{},
		PrincipalRepo: &MockPrincipalRepository{},
		Publisher:     &RecordingPublisher{},
	}
}

func (u *MockUnitOfWork) Begin(ctx context.Context) error {
	u.Began = true
	return nil
}

func (u *MockUnitOfWork) Commit() error {
	u.Committed = true
	return nil
}

func (u *MockUnitOfWork) Rollback() error {
	if !u.Committed {
		u.RolledBack = true
	}
	return nil
}

func (u *MockUnitOfWork) ScheduleRepository() ScheduleRepository {
	return u.ScheduleRepo
}

func (u *MockUnitOfWork) AccrualHistoryRepository() AccrualHistoryRepository {
	return u.AccrualRepo
}

func (u *MockUnitOfWork) PrincipalRepository() PrincipalRepository {
	return u.PrincipalRepo
}

func (u *MockUnitOfWork) EventBus() EventPublisher {
	return u.Publisher
}

// MockUnitOfWorkFactory returns the same MockUnitOfWork for every Create
type MockUnitOfWorkFactory struct {
	UoW *MockUnitOfWork
}

func (f *MockUnitOfWorkFactory) Create() UnitOfWork {
	return f.UoW
}
