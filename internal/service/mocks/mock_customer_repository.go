package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
)

type MockCustomerRepository struct {
	mock.Mock
}

func NewMockCustomerRepository(t *testing.T) *MockCustomerRepository {
	m := &MockCustomerRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	args := m.Called(ctx, c)
	var r0 *model.Customer
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.Customer)
	}
	return r0, args.Error(1)
}

func (m *MockCustomerRepository) CustomerByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	args := m.Called(ctx, id)
	var r0 *model.Customer
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.Customer)
	}
	return r0, args.Error(1)
}

func (m *MockCustomerRepository) List(
	ctx context.Context,
	filter model.CustomersFilter,
	page, limit uint64,
) ([]*model.Customer, int64, error) {
	args := m.Called(ctx, filter, page, limit)
	var r0 []*model.Customer
	if args.Get(0) != nil {
		r0 = args.Get(0).([]*model.Customer)
	}
	return r0, args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Update(ctx context.Context, upd *model.Customer) error {
	args := m.Called(ctx, upd)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
