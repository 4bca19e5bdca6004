package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderCompleted is published when a service order reaches COMPLETED.
type OrderCompleted struct {
	EventID     uuid.UUID
	OrderID     uuid.UUID
	OrderNumber string
	CustomerID  uuid.UUID
	VehicleID   uuid.UUID
	TotalCost   decimal.Decimal
	CompletedAt time.Time
}
