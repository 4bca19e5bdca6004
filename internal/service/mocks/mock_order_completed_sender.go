package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
)

type MockOrderCompletedSender struct {
	mock.Mock
}

func NewMockOrderCompletedSender(t *testing.T) *MockOrderCompletedSender {
	m := &MockOrderCompletedSender{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOrderCompletedSender) SendOrderCompleted(ctx context.Context, event model.OrderCompleted) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
