package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeScheduleCreated      EventType = "schedule_created"
	EventTypeAccrualApplied       EventType = "accrual_applied"
	EventTypeScheduleFullyVested  EventType = "schedule_fully_vested"
	EventTypePrincipalUpdated     EventType = "principal_updated"
	EventTypeOwnershipTransferred EventType = "ownership_transferred"
)

// AllEventTypes returns every event type the service emits, in a stable
// order; the kafka forwarder subscribes to each.
func AllEventTypes() []EventType {
	return []EventType{
		EventTypeScheduleCreated,
		EventTypeAccrualApplied,
		EventTypeScheduleFullyVested,
		EventTypePrincipalUpdated,
		EventTypeOwnershipTransferred,
	}
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// ScheduleCreatedEvent represents a newly registered vesting schedule
type ScheduleCreatedEvent struct {
	Pool          string `json:"pool"`
	Account       string `json:"account"`
	CliffDuration uint64 `json:"cliff_duration"`
	PeriodLength  uint64 `json:"period_length"`
	PeriodAmount  uint64 `json:"period_amount"`
	TotalLocked   uint64 `json:"total_locked"`
}

func (e ScheduleCreatedEvent) Type() EventType {
	return EventTypeScheduleCreated
}

// AccrualAppliedEvent represents a persisted release of vested periods
type AccrualAppliedEvent struct {
	Pool            string `json:"pool"`
	Account         string `json:"account"`
	PeriodsReleased uint64 `json:"periods_released"`
	AmountReleased  uint64 `json:"amount_released"`
	RemainingAfter  uint64 `json:"remaining_after"`
	ReferenceTime   uint64 `json:"reference_time"`
	EvaluatedAt     uint64 `json:"evaluated_at"`
}

func (e AccrualAppliedEvent) Type() EventType {
	return EventTypeAccrualApplied
}

// ScheduleFullyVestedEvent marks a schedule reaching zero remaining
type ScheduleFullyVestedEvent struct {
	Pool    string `json:"pool"`
	Account string `json:"account"`
}

func (e ScheduleFullyVestedEvent) Type() EventType {
	return EventTypeScheduleFullyVested
}

// PrincipalUpdatedEvent represents a registry rebinding
type PrincipalUpdatedEvent struct {
	Role    string `json:"role"`
	Address string `json:"address"`
}

func (e PrincipalUpdatedEvent) Type() EventType {
	return EventTypePrincipalUpdated
}

// OwnershipTransferredEvent represents an owner handover
type OwnershipTransferredEvent struct {
	PreviousOwner string `json:"previous_owner"`
	NewOwner      string `json:"new_owner"`
}

func (e OwnershipTransferredEvent) Type() EventType {
	return EventTypeOwnershipTransferred
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus stashes events published during a unit of work and
// flushes them to the underlying bus only after the transaction
// commits, so no event describes a rolled-back mutation.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful commit.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Events outlive the transaction; emit with a background context so
	// a cancelled request context does not drop them.
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard is called after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
