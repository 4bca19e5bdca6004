package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
)

type MockVehicleRepository struct {
	mock.Mock
}

func NewMockVehicleRepository(t *testing.T) *MockVehicleRepository {
	m := &MockVehicleRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockVehicleRepository) Create(ctx context.Context, v *model.Vehicle) (*model.Vehicle, error) {
	args := m.Called(ctx, v)
	var r0 *model.Vehicle
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.Vehicle)
	}
	return r0, args.Error(1)
}

func (m *MockVehicleRepository) VehicleByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	args := m.Called(ctx, id)
	var r0 *model.Vehicle
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.Vehicle)
	}
	return r0, args.Error(1)
}

func (m *MockVehicleRepository) VehicleByVIN(ctx context.Context, vin string) (*model.Vehicle, error) {
	args := m.Called(ctx, vin)
	var r0 *model.Vehicle
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.Vehicle)
	}
	return r0, args.Error(1)
}

func (m *MockVehicleRepository) ListByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*model.Vehicle, error) {
	args := m.Called(ctx, customerID)
	var r0 []*model.Vehicle
	if args.Get(0) != nil {
		r0 = args.Get(0).([]*model.Vehicle)
	}
	return r0, args.Error(1)
}

func (m *MockVehicleRepository) Update(ctx context.Context, upd *model.Vehicle) error {
	args := m.Called(ctx, upd)
	return args.Error(0)
}

func (m *MockVehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
