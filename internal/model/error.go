package model

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation error")     // 400
	ErrUnauthorized      = errors.New("unauthorized")         // 401
	ErrForbidden         = errors.New("forbidden")            // 403
	ErrOwnershipMismatch = errors.New("vehicle does not belong to customer") // 400

	ErrPartNotFound      = errors.New("part not found")           // 404
	ErrOrderNotFound     = errors.New("service order not found")  // 404
	ErrOrderPartNotFound = errors.New("order part not found")     // 404
	ErrCustomerNotFound  = errors.New("customer not found")       // 404
	ErrVehicleNotFound   = errors.New("vehicle not found")        // 404
	ErrUserNotFound      = errors.New("user not found")           // 404

	ErrPartNumberTaken   = errors.New("part number already in use")  // 409
	ErrVINTaken          = errors.New("vin already in use")          // 409
	ErrEmailTaken        = errors.New("email already registered")    // 409
	ErrStatusTransition  = errors.New("status transition not allowed") // 409

	ErrOrderNumberConflict = errors.New("order number already taken") // 409 after retries

	ErrInsufficientStock = errors.New("insufficient stock") // 422
)

// InsufficientStockError wraps ErrInsufficientStock with the amounts the
// caller needs to act on the shortage.
func InsufficientStockError(available, requested int64) error {
	return fmt.Errorf("%w: available %d, requested %d", ErrInsufficientStock, available, requested)
}
