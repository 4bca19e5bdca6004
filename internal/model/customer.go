package model

import (
	"time"

	"github.com/google/uuid"
)

type CustomerType string

const (
	CustomerIndividual CustomerType = "INDIVIDUAL"
	CustomerBusiness   CustomerType = "BUSINESS"
)

type Customer struct {
	ID        uuid.UUID
	Type      CustomerType
	FirstName string
	LastName  string
	Email     *string
	Phone     string
	Street    *string
	PostalCode *string
	City       *string
	// National identifiers: PESEL for individuals, NIP for companies.
	Pesel       *string
	Nip         *string
	CompanyName *string
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateCustomerParams struct {
	Type        CustomerType
	FirstName   string
	LastName    string
	Email       *string
	Phone       string
	Street      *string
	PostalCode  *string
	City        *string
	Pesel       *string
	Nip         *string
	CompanyName *string
	Notes       *string
}

type UpdateCustomerParams struct {
	Type        *CustomerType
	FirstName   *string
	LastName    *string
	Email       *string
	Phone       *string
	Street      *string
	PostalCode  *string
	City        *string
	Pesel       *string
	Nip         *string
	CompanyName *string
	Notes       *string
}

type CustomersFilter struct {
	// Matches name, phone or email.
	Search string
}

type CustomerList struct {
	Items []*Customer
	Total int64
	Page  int64
	Limit int64
}
