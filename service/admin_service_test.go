package service

import (
	"context"
	"testing"

	"vestlock/events"
	"vestlock/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const ownerAddr = "owner"

func TestAdminService_SetPrincipal(t *testing.T) {
	ctx := context.Background()

	t.Run("owner rebinds a role", func(t *testing.T) {
		uow := NewMockUnitOfWork()
		bindPrincipal(uow, models.RoleOwner, ownerAddr)
		uow.PrincipalRepo.On("Set", mock.Anything, models.RolePresale2, "new-presale2").Return(nil)

		svc := NewAdminService(&MockUnitOfWorkFactory{UoW: uow})
		err := svc.SetPrincipal(ctx, ownerAddr, models.RolePresale2, "new-presale2")
		require.NoError(t, err)

		assert.True(t, uow.Committed)
		require.Len(t, uow.Publisher.Events, 1)
		updated, ok := uow.Publisher.Events[0].(events.PrincipalUpdatedEvent)
		require.True(t, ok)
		assert.Equal(t, "presale2", updated.Role)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		uow := NewMockUnitOfWork()
		bindPrincipal(uow, models.RoleOwner, ownerAddr)

		svc := NewAdminService(&MockUnitOfWorkFactory{UoW: uow})
		err := svc.SetPrincipal(ctx, "intruder", models.RoleToken, "addr")
		assert.ErrorIs(t, err, ErrUnauthorized)
		uow.PrincipalRepo.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("owner role cannot be set directly", func(t *testing.T) {
		uow := NewMockUnitOfWork()

		svc := NewAdminService(&MockUnitOfWorkFactory{UoW: uow})
		err := svc.SetPrincipal(ctx, ownerAddr, models.RoleOwner, "addr")
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.False(t, uow.Began)
	})

	t.Run("empty address rejected", func(t *testing.T) {
		uow := NewMockUnitOfWork()

		svc := NewAdminService(&MockUnitOfWorkFactory{UoW: uow})
		err := svc.SetPrincipal(ctx, ownerAddr, models.RoleToken, "")
		assert.ErrorIs(t, err, ErrInvalidPrincipal)
	})
}

func TestAdminService_TransferOwnership(t *testing.T) {
	ctx := context.Background()

	t.Run("owner hands over", func(t *testing.T) {
		uow := NewMockUnitOfWork()
		bindPrincipal(uow, models.RoleOwner, ownerAddr)
		uow.PrincipalRepo.On("Set", mock.Anything, models.RoleOwner, "successor").Return(nil)

		svc := NewAdminService(&MockUnitOfWorkFactory{UoW: uow})
		err := svc.TransferOwnership(ctx, ownerAddr, "successor")
		require.NoError(t, err)

		assert.True(t, uow.Committed)
		require.Len(t, uow.Publisher.Events, 1)
		transferred, ok := uow.Publisher.Events[0].(events.OwnershipTransferredEvent)
		require.True(t, ok)
		assert.Equal(t, ownerAddr, transferred.PreviousOwner)
		assert.Equal(t, "successor", transferred.NewOwner)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		uow := NewMockUnitOfWork()
		bindPrincipal(uow, models.RoleOwner, ownerAddr)

		svc := NewAdminService(&MockUnitOfWorkFactory{UoW: uow})
		err := svc.TransferOwnership(ctx, "intruder", "successor")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("empty new owner rejected", func(t *testing.T) {
		uow := NewMockUnitOfWork()

		svc := NewAdminService(&MockUnitOfWorkFactory{UoW: uow})
		err := svc.TransferOwnership(ctx, ownerAddr, "")
		assert.ErrorIs(t, err, ErrInvalidNewOwner)
		assert.False(t, uow.Began)
	})
}

func TestAdminService_GetPrincipals(t *testing.T) {
	ctx := context.Background()

	uow := NewMockUnitOfWork()
	uow.PrincipalRepo.On("GetAll", mock.Anything).Return([]*models.Principal{
		{Role: models.RoleOwner, Address: ownerAddr},
		{Role: models.RoleToken, Address: tokenAddr},
	}, nil)

	svc := NewAdminService(&MockUnitOfWorkFactory{UoW: uow})
	principals, err := svc.GetPrincipals(ctx)
	require.NoError(t, err)
	assert.Len(t, principals, 2)
}
