package service

import "errors"

var (
	// ErrUnauthorized is returned when the caller is not the principal
	// designated for the requested pool or operation.
	ErrUnauthorized = errors.New("caller is not an authorized principal")

	// ErrCliffNotElapsed is returned when accrual is evaluated before a
	// schedule's cliff has fully elapsed. It rejects the whole
	// aggregate query, never a single pool in isolation.
	ErrCliffNotElapsed = errors.New("cliff has not elapsed")

	// ErrInvalidPeriodLength rejects a zero period length at setup,
	// where it is a caller mistake, rather than at accrual, where it
	// would surface as a division fault.
	ErrInvalidPeriodLength = errors.New("period length must be nonzero")

	// ErrInvalidAccount rejects an empty account identifier.
	ErrInvalidAccount = errors.New("account identifier must not be empty")

	// ErrInvalidPrincipal rejects an empty principal address in the
	// registry.
	ErrInvalidPrincipal = errors.New("principal address must not be empty")

	// ErrInvalidNewOwner rejects an empty identity on ownership
	// transfer.
	ErrInvalidNewOwner = errors.New("new owner must not be empty")
)
