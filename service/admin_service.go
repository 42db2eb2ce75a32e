package service

import (
	"context"
	"fmt"

	"vestlock/events"
	"vestlock/models"

	log "github.com/sirupsen/logrus"
)

type adminService struct {
	uowFactory UnitOfWorkFactory
}

// NewAdminService creates a new admin service
func NewAdminService(uowFactory UnitOfWorkFactory) AdminService {
	return &adminService{
		uowFactory: uowFactory,
	}
}

func (s *adminService) SetPrincipal(ctx context.Context, caller string, role models.PrincipalRole, address string) error {
	if role == models.RoleOwner {
		return fmt.Errorf("%w: use TransferOwnership for the owner role", ErrUnauthorized)
	}
	if address == "" {
		return ErrInvalidPrincipal
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := authorize(ctx, uow, models.RoleOwner, caller); err != nil {
		return err
	}

	if err := uow.PrincipalRepository().Set(ctx, role, address); err != nil {
		return fmt.Errorf("failed to set %s principal: %w", role, err)
	}

	uow.EventBus().Publish(events.PrincipalUpdatedEvent{
		Role:    string(role),
		Address: address,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"role":    role,
		"address": address,
	}).Info("Principal updated")

	return nil
}

func (s *adminService) TransferOwnership(ctx context.Context, caller string, newOwner string) error {
	if newOwner == "" {
		return ErrInvalidNewOwner
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := authorize(ctx, uow, models.RoleOwner, caller); err != nil {
		return err
	}

	if err := uow.PrincipalRepository().Set(ctx, models.RoleOwner, newOwner); err != nil {
		return fmt.Errorf("failed to transfer ownership: %w", err)
	}

	uow.EventBus().Publish(events.OwnershipTransferredEvent{
		PreviousOwner: caller,
		NewOwner:      newOwner,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"previousOwner": caller,
		"newOwner":      newOwner,
	}).Info("Ownership transferred")

	return nil
}

func (s *adminService) GetPrincipals(ctx context.Context) ([]*models.Principal, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	principals, err := uow.PrincipalRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load principals: %w", err)
	}
	return principals, nil
}
