package service

import (
	"context"
	"testing"
	"time"

	"vestlock/events"
	"vestlock/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	tokenAddr   = "token-contract"
	presaleAddr = "presale1-contract"
)

func fixedClock(unix uint64) Clock {
	return func() time.Time {
		return time.Unix(int64(unix), 0)
	}
}

func bindPrincipal(uow *MockUnitOfWork, role models.PrincipalRole, address string) {
	uow.PrincipalRepo.On("Get", mock.Anything, role).Return(&models.Principal{
		Role:    role,
		Address: address,
	}, nil)
}

func TestVestingService_SetupVesting(t *testing.T) {
	ctx := context.Background()

	t.Run("token contract registers a team schedule", func(t *testing.T) {
		uow := NewMockUnitOfWork()
		bindPrincipal(uow, models.RoleToken, tokenAddr)
		uow.ScheduleRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(s *models.VestingSchedule) bool {
			return s.Pool == models.PoolTeam && s.Account == "alice" &&
				s.RemainingLocked == 12000 && s.LastReleasedPeriod == 0
		})).Return(nil)

		svc := NewVestingService(&MockUnitOfWorkFactory{UoW: uow}, fixedClock(0))
		err := svc.SetupVesting(ctx, tokenAddr, models.PoolTeam, "alice", day, month, 1000, 12000)
		require.NoError(t, err)

		assert.True(t, uow.Committed)
		require.Len(t, uow.Publisher.Events, 1)
		created, ok := uow.Publisher.Events[0].(events.ScheduleCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, "alice", created.Account)
		uow.ScheduleRepo.AssertExpectations(t)
	})

	t.Run("presale pool requires its own principal", func(t *testing.T) {
		uow := NewMockUnitOfWork()
		bindPrincipal(uow, models.RolePresale1, presaleAddr)

		svc := NewVestingService(&MockUnitOfWorkFactory{UoW: uow}, fixedClock(0))
		err := svc.SetupVesting(ctx, tokenAddr, models.PoolPresale1, "alice", day, month, 1000, 12000)
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.False(t, uow.Committed)
		assert.Empty(t, uow.Publisher.Events)
	})

	t.Run("unbound role rejects everyone", func(t *testing.T) {
		uow := NewMockUnitOfWork()
		uow.PrincipalRepo.On("Get", mock.Anything, models.RoleToken).Return(nil, nil)

		svc := NewVestingService(&MockUnitOfWorkFactory{UoW: uow}, fixedClock(0))
		err := svc.SetupVesting(ctx, tokenAddr, models.PoolTeam, "alice", day, month, 1000, 12000)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("zero period length rejected before any IO", func(t *testing.T) {
		uow := NewMockUnitOfWork()

		svc := NewVestingService(&MockUnitOfWorkFactory{UoW: uow}, fixedClock(0))
		err := svc.SetupVesting(ctx, tokenAddr, models.PoolTeam, "alice", day, 0, 1000, 12000)
		assert.ErrorIs(t, err, ErrInvalidPeriodLength)
		assert.False(t, uow.Began)
	})

	t.Run("empty account rejected", func(t *testing.T) {
		uow := NewMockUnitOfWork()

		svc := NewVestingService(&MockUnitOfWorkFactory{UoW: uow}, fixedClock(0))
		err := svc.SetupVesting(ctx, tokenAddr, models.PoolTeam, "", day, month, 1000, 12000)
		assert.ErrorIs(t, err, ErrInvalidAccount)
	})
}

func TestVestingService_CheckLocked(t *testing.T) {
	ctx := context.Background()
	ref := uint64(1_700_000_000)

	t.Run("only the token principal may query", func(t *testing.T) {
		uow := NewMockUnitOfWork()
		bindPrincipal(uow, models.RoleToken, tokenAddr)

		svc := NewVestingService(&MockUnitOfWorkFactory{UoW: uow}, fixedClock(ref))
		_, err := svc.CheckLocked(ctx, "someone-else", "alice", ref)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("zero reference time counts everything as locked", func(t *testing.T) {
		uow := NewMockUnitOfWork()
		bindPrincipal(uow, models.RoleToken, tokenAddr)

		team := &models.VestingSchedule{Pool: models.PoolTeam, Account: "alice", PeriodLength: month, PeriodAmount: 1000, RemainingLocked: 12000}
		presale := &models.VestingSchedule{Pool: models.PoolPresale2, Account: "alice", PeriodLength: month, PeriodAmount: 500, RemainingLocked: 6000}
		uow.ScheduleRepo.On("Get", mock.Anything, models.PoolTeam, "alice").Return(team, nil)
		uow.ScheduleRepo.On("Get", mock.Anything, models.PoolPresale1, "alice").Return(nil, nil)
		uow.ScheduleRepo.On("Get", mock.Anything, models.PoolPresale2, "alice").Return(presale, nil)
		uow.ScheduleRepo.On("Get", mock.Anything, models.PoolPresale3, "alice").Return(nil, nil)

		svc := NewVestingService(&MockUnitOfWorkFactory{UoW: uow}, fixedClock(ref))
		total, err := svc.CheckLocked(ctx, tokenAddr, "alice", 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(18000), total)

		// Nothing accrued, nothing written
		uow.ScheduleRepo.AssertNotCalled(t, "UpdateProgress", mock.Anything, mock.Anything)
		assert.Empty(t, uow.Publisher.Events)
	})

	t.Run("accrues and persists across pools", func(t *testing.T) {
		uow := NewMockUnitOfWork()
		bindPrincipal(uow, models.RoleToken, tokenAddr)

		team := &models.VestingSchedule{Pool: models.PoolTeam, Account: "alice", CliffDuration: 30 * day, PeriodLength: month, PeriodAmount: 1000, RemainingLocked: 12000}
		presale := &models.VestingSchedule{Pool: models.PoolPresale3, Account: "alice", CliffDuration: 30 * day, PeriodLength: month, PeriodAmount: 500, RemainingLocked: 6000}
		uow.ScheduleRepo.On("GetForUpdate", mock.Anything, models.PoolTeam, "alice").Return(team, nil)
		uow.ScheduleRepo.On("GetForUpdate", mock.Anything, models.PoolPresale1, "alice").Return(nil, nil)
		uow.ScheduleRepo.On("GetForUpdate", mock.Anything, models.PoolPresale2, "alice").Return(nil, nil)
		uow.ScheduleRepo.On("GetForUpdate", mock.Anything, models.PoolPresale3, "alice").Return(presale, nil)
		uow.ScheduleRepo.On("UpdateProgress", mock.Anything, mock.Anything).Return(nil)
		uow.AccrualRepo.On("Record", mock.Anything, mock.Anything).Return(nil)

		svc := NewVestingService(&MockUnitOfWorkFactory{UoW: uow}, fixedClock(ref+31*day))
		total, err := svc.CheckLocked(ctx, tokenAddr, "alice", ref)
		require.NoError(t, err)

		// One period released from each schedule
		assert.Equal(t, uint64(11000+5500), total)
		assert.Equal(t, uint64(11000), team.RemainingLocked)
		assert.Equal(t, uint64(5500), presale.RemainingLocked)
		assert.True(t, uow.Committed)

		uow.ScheduleRepo.AssertNumberOfCalls(t, "UpdateProgress", 2)
		uow.AccrualRepo.AssertNumberOfCalls(t, "Record", 2)
		assert.Len(t, uow.Publisher.Events, 2)
	})

	t.Run("fully vested schedules are skipped", func(t *testing.T) {
		uow := NewMockUnitOfWork()
		bindPrincipal(uow, models.RoleToken, tokenAddr)

		vested := &models.VestingSchedule{Pool: models.PoolTeam, Account: "alice", CliffDuration: 0, PeriodLength: month, PeriodAmount: 1000, RemainingLocked: 0}
		uow.ScheduleRepo.On("GetForUpdate", mock.Anything, models.PoolTeam, "alice").Return(vested, nil)
		uow.ScheduleRepo.On("GetForUpdate", mock.Anything, mock.Anything, "alice").Return(nil, nil)

		svc := NewVestingService(&MockUnitOfWorkFactory{UoW: uow}, fixedClock(ref+31*day))
		total, err := svc.CheckLocked(ctx, tokenAddr, "alice", ref)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), total)
		uow.ScheduleRepo.AssertNotCalled(t, "UpdateProgress", mock.Anything, mock.Anything)
	})

	t.Run("cliff not elapsed rejects the whole call", func(t *testing.T) {
		uow := NewMockUnitOfWork()
		bindPrincipal(uow, models.RoleToken, tokenAddr)

		// First pool would accrue fine; second is still in cliff
		team := &models.VestingSchedule{Pool: models.PoolTeam, Account: "alice", CliffDuration: 0, PeriodLength: month, PeriodAmount: 1000, RemainingLocked: 12000}
		late := &models.VestingSchedule{Pool: models.PoolPresale1, Account: "alice", CliffDuration: 90 * day, PeriodLength: month, PeriodAmount: 500, RemainingLocked: 6000}
		uow.ScheduleRepo.On("GetForUpdate", mock.Anything, models.PoolTeam, "alice").Return(team, nil)
		uow.ScheduleRepo.On("GetForUpdate", mock.Anything, models.PoolPresale1, "alice").Return(late, nil)
		uow.ScheduleRepo.On("UpdateProgress", mock.Anything, mock.Anything).Return(nil)
		uow.AccrualRepo.On("Record", mock.Anything, mock.Anything).Return(nil)

		svc := NewVestingService(&MockUnitOfWorkFactory{UoW: uow}, fixedClock(ref+31*day))
		_, err := svc.CheckLocked(ctx, tokenAddr, "alice", ref)
		assert.ErrorIs(t, err, ErrCliffNotElapsed)
		assert.False(t, uow.Committed)
		assert.True(t, uow.RolledBack)
	})

	t.Run("empty account rejected", func(t *testing.T) {
		uow := NewMockUnitOfWork()

		svc := NewVestingService(&MockUnitOfWorkFactory{UoW: uow}, fixedClock(ref))
		_, err := svc.CheckLocked(ctx, tokenAddr, "", ref)
		assert.ErrorIs(t, err, ErrInvalidAccount)
	})
}

func TestVestingService_PreviewLocked(t *testing.T) {
	ctx := context.Background()
	ref := uint64(1_700_000_000)

	t.Run("computes without persisting", func(t *testing.T) {
		uow := NewMockUnitOfWork()
		bindPrincipal(uow, models.RoleToken, tokenAddr)

		team := &models.VestingSchedule{Pool: models.PoolTeam, Account: "alice", CliffDuration: 30 * day, PeriodLength: month, PeriodAmount: 1000, RemainingLocked: 12000}
		uow.ScheduleRepo.On("Get", mock.Anything, models.PoolTeam, "alice").Return(team, nil)
		uow.ScheduleRepo.On("Get", mock.Anything, mock.Anything, "alice").Return(nil, nil)

		svc := NewVestingService(&MockUnitOfWorkFactory{UoW: uow}, fixedClock(ref+31*day))
		total, err := svc.PreviewLocked(ctx, tokenAddr, "alice", ref)
		require.NoError(t, err)
		assert.Equal(t, uint64(11000), total)

		// Read-only: no writes, no commit, no events
		uow.ScheduleRepo.AssertNotCalled(t, "UpdateProgress", mock.Anything, mock.Anything)
		uow.AccrualRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
		assert.False(t, uow.Committed)
		assert.Empty(t, uow.Publisher.Events)
	})
}
