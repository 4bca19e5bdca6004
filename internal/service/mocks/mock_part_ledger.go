package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
)

type MockPartLedger struct {
	mock.Mock
}

func NewMockPartLedger(t *testing.T) *MockPartLedger {
	m := &MockPartLedger{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPartLedger) PartByID(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	args := m.Called(ctx, id)
	var r0 *model.Part
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.Part)
	}
	return r0, args.Error(1)
}

func (m *MockPartLedger) IncreaseStock(ctx context.Context, id uuid.UUID, quantity int64) (*model.Part, error) {
	args := m.Called(ctx, id, quantity)
	var r0 *model.Part
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.Part)
	}
	return r0, args.Error(1)
}

func (m *MockPartLedger) DecreaseStock(ctx context.Context, id uuid.UUID, quantity int64) (*model.Part, error) {
	args := m.Called(ctx, id, quantity)
	var r0 *model.Part
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.Part)
	}
	return r0, args.Error(1)
}
