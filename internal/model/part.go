package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type (
	PartCategory string
	PartStatus   string
)

const (
	CategoryEngine       PartCategory = "ENGINE"
	CategoryBrakes       PartCategory = "BRAKES"
	CategorySuspension   PartCategory = "SUSPENSION"
	CategoryElectrical   PartCategory = "ELECTRICAL"
	CategoryTransmission PartCategory = "TRANSMISSION"
	CategoryExhaust      PartCategory = "EXHAUST"
	CategoryFilters      PartCategory = "FILTERS"
	CategoryFluids       PartCategory = "FLUIDS"
	CategoryTires        PartCategory = "TIRES"
	CategoryBodywork     PartCategory = "BODYWORK"
	CategoryInterior     PartCategory = "INTERIOR"
	CategoryOther        PartCategory = "OTHER"
)

const (
	PartStatusAvailable    PartStatus = "AVAILABLE"
	PartStatusLowStock     PartStatus = "LOW_STOCK"
	PartStatusOutOfStock   PartStatus = "OUT_OF_STOCK"
	PartStatusDiscontinued PartStatus = "DISCONTINUED"
)

type Part struct {
	// Unique identifier of the part.
	ID uuid.UUID
	// Unique catalog number.
	PartNumber string
	// Human-readable part name.
	Name string
	// Detailed description of the part.
	Description *string
	// Category of the part.
	Category PartCategory
	// Manufacturer name.
	Manufacturer *string
	// Brand under which the part is sold.
	Brand *string
	// Price the workshop paid for one unit.
	PurchasePrice decimal.Decimal
	// Price one unit is sold for; snapshotted onto order lines.
	SellingPrice decimal.Decimal
	// Quantity currently available in stock. Never negative.
	QuantityInStock int64
	// Threshold below which the part is considered low on stock.
	MinStockLevel int64
	// Warehouse location, e.g. "A3".
	Location *string
	// Availability status derived from stock level; DISCONTINUED is
	// administrator-set and survives stock changes.
	Status PartStatus
	// Supplier contact data.
	Supplier      *string
	SupplierEmail *string
	SupplierPhone *string
	// Free-text list of compatible vehicles.
	CompatibleVehicles *string
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DeriveStatus maps a stock level to an availability status. DISCONTINUED is
// never overridden by automatic derivation; it can only be set or cleared by
// an explicit status update.
func DeriveStatus(quantity, minStockLevel int64, current PartStatus) PartStatus {
	if current == PartStatusDiscontinued {
		return current
	}

	switch {
	case quantity == 0:
		return PartStatusOutOfStock
	case quantity <= minStockLevel:
		return PartStatusLowStock
	default:
		return PartStatusAvailable
	}
}

type CreatePartParams struct {
	PartNumber         string
	Name               string
	Description        *string
	Category           PartCategory
	Manufacturer       *string
	Brand              *string
	PurchasePrice      decimal.Decimal
	SellingPrice       decimal.Decimal
	QuantityInStock    int64
	MinStockLevel      *int64
	Location           *string
	Supplier           *string
	SupplierEmail      *string
	SupplierPhone      *string
	CompatibleVehicles *string
	Notes              *string
}

type UpdatePartParams struct {
	Name               *string
	Description        *string
	Category           *PartCategory
	Manufacturer       *string
	Brand              *string
	PurchasePrice      *decimal.Decimal
	SellingPrice       *decimal.Decimal
	MinStockLevel      *int64
	Location           *string
	// Explicit status override; the only way to set or clear DISCONTINUED.
	Status             *PartStatus
	Supplier           *string
	SupplierEmail      *string
	SupplierPhone      *string
	CompatibleVehicles *string
	Notes              *string
}

type PartsFilter struct {
	// Matches name, part number or manufacturer, case-insensitive.
	Search       string
	Category     *PartCategory
	Status       *PartStatus
	LowStockOnly bool
}

type PartList struct {
	Items []*Part
	Total int64
	Page  int64
	Limit int64
}

type PartStats struct {
	Total        int64
	Available    int64
	LowStock     int64
	OutOfStock   int64
	Discontinued int64
	// SUM(selling_price * quantity_in_stock) over all parts.
	TotalValue decimal.Decimal
}
