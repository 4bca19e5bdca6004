package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderPart is one line item of parts used on a service order.
type OrderPart struct {
	ID             uuid.UUID
	ServiceOrderID uuid.UUID
	PartID         uuid.UUID
	// Units consumed from stock. Always >= 1.
	Quantity int64
	// Price per unit captured when the line was created. Immutable: later
	// catalog price changes never touch existing lines.
	UnitPrice decimal.Decimal
	// Invariant: TotalPrice = Quantity * UnitPrice.
	TotalPrice decimal.Decimal
	Notes      *string
	CreatedAt  time.Time
}

type AddOrderPartParams struct {
	PartID   uuid.UUID
	Quantity int64
	// Overrides the part's selling price for this line when set.
	UnitPrice *decimal.Decimal
	Notes     *string
}

type UpdateOrderPartParams struct {
	Quantity *int64
	Notes    *string
}
