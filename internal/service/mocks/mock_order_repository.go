package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
)

type MockOrderRepository struct {
	mock.Mock
}

func NewMockOrderRepository(t *testing.T) *MockOrderRepository {
	m := &MockOrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOrderRepository) Create(ctx context.Context, ord *model.ServiceOrder) (*model.ServiceOrder, error) {
	args := m.Called(ctx, ord)
	var r0 *model.ServiceOrder
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.ServiceOrder)
	}
	return r0, args.Error(1)
}

func (m *MockOrderRepository) OrderByID(ctx context.Context, id uuid.UUID) (*model.ServiceOrder, error) {
	args := m.Called(ctx, id)
	var r0 *model.ServiceOrder
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.ServiceOrder)
	}
	return r0, args.Error(1)
}

func (m *MockOrderRepository) OrderByNumber(ctx context.Context, orderNumber string) (*model.ServiceOrder, error) {
	args := m.Called(ctx, orderNumber)
	var r0 *model.ServiceOrder
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.ServiceOrder)
	}
	return r0, args.Error(1)
}

func (m *MockOrderRepository) LastOrderNumber(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) List(
	ctx context.Context,
	filter model.OrdersFilter,
	page, limit uint64,
) ([]*model.ServiceOrder, int64, error) {
	args := m.Called(ctx, filter, page, limit)
	var r0 []*model.ServiceOrder
	if args.Get(0) != nil {
		r0 = args.Get(0).([]*model.ServiceOrder)
	}
	return r0, args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Update(ctx context.Context, upd *model.ServiceOrder) error {
	args := m.Called(ctx, upd)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateCosts(
	ctx context.Context,
	id uuid.UUID,
	partsCost, totalCost decimal.Decimal,
) error {
	args := m.Called(ctx, id, partsCost, totalCost)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Stats(ctx context.Context) (*model.OrderStats, error) {
	args := m.Called(ctx)
	var r0 *model.OrderStats
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.OrderStats)
	}
	return r0, args.Error(1)
}
