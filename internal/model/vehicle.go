package model

import (
	"time"

	"github.com/google/uuid"
)

type Vehicle struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	// Vehicle identification number, unique across the workshop.
	VIN                string
	Brand              string
	Model              string
	Year               int64
	RegistrationNumber *string
	Mileage            int64
	Color              *string
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type CreateVehicleParams struct {
	CustomerID         uuid.UUID
	VIN                string
	Brand              string
	Model              string
	Year               int64
	RegistrationNumber *string
	Mileage            int64
	Color              *string
	Notes              *string
}

type UpdateVehicleParams struct {
	RegistrationNumber *string
	Mileage            *int64
	Color              *string
	Notes              *string
}
