package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
)

type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository(t *testing.T) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUserRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	args := m.Called(ctx, u)
	var r0 *model.User
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.User)
	}
	return r0, args.Error(1)
}

func (m *MockUserRepository) UserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	var r0 *model.User
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.User)
	}
	return r0, args.Error(1)
}

func (m *MockUserRepository) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	var r0 *model.User
	if args.Get(0) != nil {
		r0 = args.Get(0).(*model.User)
	}
	return r0, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, page, limit uint64) ([]*model.User, int64, error) {
	args := m.Called(ctx, page, limit)
	var r0 []*model.User
	if args.Get(0) != nil {
		r0 = args.Get(0).([]*model.User)
	}
	return r0, args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(ctx context.Context, upd *model.User) error {
	args := m.Called(ctx, upd)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
