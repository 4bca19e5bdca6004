package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
)

type MockOrderPartRepository struct {
	mock.Mock
}

func NewMockOrderPartRepository(t *testing.T) *MockOrderPartRepository {
	m := &MockOrderPartRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOrderPartRepository) Create(ctx context.Context, op *model.OrderPart) (*model.OrderPart, error) {
	args := m.Called(ctx, op)
	var r0 *model.OrderPart
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.OrderPart)
	}
	return r0, args.Error(1)
}

func (m *MockOrderPartRepository) ByID(ctx context.Context, id uuid.UUID) (*model.OrderPart, error) {
	args := m.Called(ctx, id)
	var r0 *model.OrderPart
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.OrderPart)
	}
	return r0, args.Error(1)
}

func (m *MockOrderPartRepository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*model.OrderPart, error) {
	args := m.Called(ctx, orderID)
	var r0 []*model.OrderPart
	if args.Get(0) != nil {
		r0 = args.Get(0).([]*model.OrderPart)
	}
	return r0, args.Error(1)
}

func (m *MockOrderPartRepository) Update(ctx context.Context, upd *model.OrderPart) error {
	args := m.Called(ctx, upd)
	return args.Error(0)
}

func (m *MockOrderPartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderPartRepository) PartsCostByOrderID(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
