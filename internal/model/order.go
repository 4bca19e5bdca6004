package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type (
	OrderStatus   string
	OrderPriority string
)

const (
	StatusPending         OrderStatus = "PENDING"
	StatusScheduled       OrderStatus = "SCHEDULED"
	StatusInProgress      OrderStatus = "IN_PROGRESS"
	StatusWaitingForParts OrderStatus = "WAITING_FOR_PARTS"
	StatusCompleted       OrderStatus = "COMPLETED"
	StatusClosed          OrderStatus = "CLOSED"
	StatusCancelled       OrderStatus = "CANCELLED"
)

const (
	PriorityLow    OrderPriority = "LOW"
	PriorityNormal OrderPriority = "NORMAL"
	PriorityHigh   OrderPriority = "HIGH"
	PriorityUrgent OrderPriority = "URGENT"
)

// orderTransitions is the allowed status graph. CANCELLED is reachable from
// every non-terminal state; CLOSED and CANCELLED are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:         {StatusScheduled, StatusInProgress, StatusCancelled},
	StatusScheduled:       {StatusInProgress, StatusPending, StatusCancelled},
	StatusInProgress:      {StatusWaitingForParts, StatusCompleted, StatusCancelled},
	StatusWaitingForParts: {StatusInProgress, StatusCancelled},
	StatusCompleted:       {StatusClosed, StatusCancelled},
	StatusClosed:          {},
	StatusCancelled:       {},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

type ServiceOrder struct {
	// Unique identifier of the order.
	ID uuid.UUID
	// Unique human-readable number, e.g. "WS-2026-00042".
	OrderNumber string
	// Owning customer; the vehicle must belong to them.
	CustomerID uuid.UUID
	VehicleID  uuid.UUID
	// Mechanic assigned to the job, if any.
	AssignedMechanicID *uuid.UUID
	// What the customer asked for.
	Description string
	Status      OrderStatus
	Priority    OrderPriority
	ScheduledAt *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	ClosedAt    *time.Time
	// Odometer reading when the vehicle was accepted.
	MileageAtAcceptance *int64
	LaborCost           decimal.Decimal
	// Derived: SUM(total_price) over the order's part lines. Owned by the
	// cost aggregator; direct edits are overwritten on the next line change.
	PartsCost decimal.Decimal
	// Invariant: TotalCost = LaborCost + PartsCost.
	TotalCost     decimal.Decimal
	MechanicNotes *string
	InternalNotes *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CreateOrderParams struct {
	CustomerID          uuid.UUID
	VehicleID           uuid.UUID
	AssignedMechanicID  *uuid.UUID
	Description         string
	Priority            OrderPriority
	ScheduledAt         *time.Time
	MileageAtAcceptance *int64
	InternalNotes       *string
}

type UpdateOrderParams struct {
	AssignedMechanicID  *uuid.UUID
	Description         *string
	Status              *OrderStatus
	Priority            *OrderPriority
	ScheduledAt         *time.Time
	MileageAtAcceptance *int64
	LaborCost           *decimal.Decimal
	MechanicNotes       *string
	InternalNotes       *string
}

type OrdersFilter struct {
	Status     *OrderStatus
	Priority   *OrderPriority
	CustomerID *uuid.UUID
	MechanicID *uuid.UUID
}

type OrderList struct {
	Items []*ServiceOrder
	Total int64
	Page  int64
	Limit int64
}

type OrderStats struct {
	Total      int64
	Pending    int64
	InProgress int64
	Completed  int64
	Closed     int64
	Cancelled  int64
}
