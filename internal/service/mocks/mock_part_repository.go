package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
)

type MockPartRepository struct {
	mock.Mock
}

func NewMockPartRepository(t *testing.T) *MockPartRepository {
	m := &MockPartRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPartRepository) Create(ctx context.Context, p *model.Part) (*model.Part, error) {
	args := m.Called(ctx, p)
	var r0 *model.Part
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.Part)
	}
	return r0, args.Error(1)
}

func (m *MockPartRepository) PartByID(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	args := m.Called(ctx, id)
	var r0 *model.Part
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.Part)
	}
	return r0, args.Error(1)
}

func (m *MockPartRepository) PartByNumber(ctx context.Context, partNumber string) (*model.Part, error) {
	args := m.Called(ctx, partNumber)
	var r0 *model.Part
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.Part)
	}
	return r0, args.Error(1)
}

func (m *MockPartRepository) List(
	ctx context.Context,
	filter model.PartsFilter,
	page, limit uint64,
) ([]*model.Part, int64, error) {
	args := m.Called(ctx, filter, page, limit)
	var r0 []*model.Part
	if args.Get(0) != nil {
		r0 = args.Get(0).([]*model.Part)
	}
	return r0, args.Get(1).(int64), args.Error(2)
}

func (m *MockPartRepository) Update(ctx context.Context, upd *model.Part) error {
	args := m.Called(ctx, upd)
	return args.Error(0)
}

func (m *MockPartRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int64) (*model.Part, error) {
	args := m.Called(ctx, id, delta)
	var r0 *model.Part
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.Part)
	}
	return r0, args.Error(1)
}

func (m *MockPartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPartRepository) LowStock(ctx context.Context) ([]*model.Part, error) {
	args := m.Called(ctx)
	var r0 []*model.Part
	if args.Get(0) != nil {
		r0 = args.Get(0).([]*model.Part)
	}
	return r0, args.Error(1)
}

func (m *MockPartRepository) Stats(ctx context.Context) (*model.PartStats, error) {
	args := m.Called(ctx)
	var r0 *model.PartStats
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.PartStats)
	}
	return r0, args.Error(1)
}
