package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
	"github.com/notWeev/warsztat-samochodowy/internal/service/mocks"
)

type orderDeps struct {
	repository *mocks.MockOrderRepository
	customers  *mocks.MockCustomerRepository
	vehicles   *mocks.MockVehicleRepository
	users      *mocks.MockUserRepository
	events     *mocks.MockOrderCompletedSender
}

func newOrderDeps(t *testing.T) orderDeps {
	return orderDeps{
		repository: mocks.NewMockOrderRepository(t),
		customers:  mocks.NewMockCustomerRepository(t),
		vehicles:   mocks.NewMockVehicleRepository(t),
		users:      mocks.NewMockUserRepository(t),
		events:     mocks.NewMockOrderCompletedSender(t),
	}
}

func newOrderSvc(d orderDeps) *service {
	return NewOrderService(
		d.repository, d.customers, d.vehicles, d.users, d.events,
		time.Second, time.Second,
	)
}

func TestServiceCreateOrder(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	vehicleID := uuid.New()
	mechanicID := uuid.New()

	yearPrefix := fmt.Sprintf("WS-%d-", time.Now().Year())

	validParams := func() model.CreateOrderParams {
		return model.CreateOrderParams{
			CustomerID:  customerID,
			VehicleID:   vehicleID,
			Description: "brake pads squeaking",
		}
	}

	type testCase struct {
		name   string
		params func() model.CreateOrderParams
		setup  func(d orderDeps)
		assert func(t *testing.T, res *model.ServiceOrder, err error, d orderDeps)
	}

	tests := []testCase{
		{
			name: "validation error: empty description",
			params: func() model.CreateOrderParams {
				p := validParams()
				p.Description = "   "
				return p
			},
			setup: func(d orderDeps) {},
			assert: func(t *testing.T, res *model.ServiceOrder, err error, d orderDeps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrValidation)
				assert.Nil(t, res)

				d.repository.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "customer not found",
			params: validParams,
			setup: func(d orderDeps) {
				d.customers.
					On("CustomerByID", mock.Anything, customerID).
					Return((*model.Customer)(nil), model.ErrCustomerNotFound).
					Once()
			},
			assert: func(t *testing.T, res *model.ServiceOrder, err error, d orderDeps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrCustomerNotFound)
				assert.Nil(t, res)
			},
		},
		{
			name:   "vehicle owned by another customer",
			params: validParams,
			setup: func(d orderDeps) {
				d.customers.
					On("CustomerByID", mock.Anything, customerID).
					Return(&model.Customer{ID: customerID}, nil).
					Once()
				d.vehicles.
					On("VehicleByID", mock.Anything, vehicleID).
					Return(&model.Vehicle{ID: vehicleID, CustomerID: uuid.New()}, nil).
					Once()
			},
			assert: func(t *testing.T, res *model.ServiceOrder, err error, d orderDeps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrOwnershipMismatch)
				assert.Nil(t, res)

				d.repository.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			},
		},
		{
			name: "validation error: assignee is not a mechanic",
			params: func() model.CreateOrderParams {
				p := validParams()
				p.AssignedMechanicID = &mechanicID
				return p
			},
			setup: func(d orderDeps) {
				d.customers.
					On("CustomerByID", mock.Anything, customerID).
					Return(&model.Customer{ID: customerID}, nil).
					Once()
				d.vehicles.
					On("VehicleByID", mock.Anything, vehicleID).
					Return(&model.Vehicle{ID: vehicleID, CustomerID: customerID}, nil).
					Once()
				d.users.
					On("UserByID", mock.Anything, mechanicID).
					Return(&model.User{ID: mechanicID, Role: model.RoleReception}, nil).
					Once()
			},
			assert: func(t *testing.T, res *model.ServiceOrder, err error, d orderDeps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrValidation)
				assert.Nil(t, res)
			},
		},
		{
			name:   "success: first order of the year",
			params: validParams,
			setup: func(d orderDeps) {
				d.customers.
					On("CustomerByID", mock.Anything, customerID).
					Return(&model.Customer{ID: customerID}, nil).
					Once()
				d.vehicles.
					On("VehicleByID", mock.Anything, vehicleID).
					Return(&model.Vehicle{ID: vehicleID, CustomerID: customerID}, nil).
					Once()
				d.repository.
					On("LastOrderNumber", mock.Anything, yearPrefix).
					Return("", nil).
					Once()
				d.repository.
					On("Create", mock.Anything, mock.MatchedBy(func(ord *model.ServiceOrder) bool {
						return ord.OrderNumber == yearPrefix+"00001" &&
							ord.Status == model.StatusPending &&
							ord.Priority == model.PriorityNormal &&
							ord.TotalCost.IsZero()
					})).
					Return(&model.ServiceOrder{
						ID:          uuid.New(),
						OrderNumber: yearPrefix + "00001",
						Status:      model.StatusPending,
					}, nil).
					Once()
			},
			assert: func(t *testing.T, res *model.ServiceOrder, err error, d orderDeps) {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.Equal(t, yearPrefix+"00001", res.OrderNumber)
				assert.Equal(t, model.StatusPending, res.Status)
			},
		},
		{
			name:   "success: sequence continues from the last number",
			params: validParams,
			setup: func(d orderDeps) {
				d.customers.
					On("CustomerByID", mock.Anything, customerID).
					Return(&model.Customer{ID: customerID}, nil).
					Once()
				d.vehicles.
					On("VehicleByID", mock.Anything, vehicleID).
					Return(&model.Vehicle{ID: vehicleID, CustomerID: customerID}, nil).
					Once()
				d.repository.
					On("LastOrderNumber", mock.Anything, yearPrefix).
					Return(yearPrefix+"00041", nil).
					Once()
				d.repository.
					On("Create", mock.Anything, mock.MatchedBy(func(ord *model.ServiceOrder) bool {
						return ord.OrderNumber == yearPrefix+"00042"
					})).
					Return(&model.ServiceOrder{
						ID:          uuid.New(),
						OrderNumber: yearPrefix + "00042",
					}, nil).
					Once()
			},
			assert: func(t *testing.T, res *model.ServiceOrder, err error, d orderDeps) {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.Equal(t, yearPrefix+"00042", res.OrderNumber)
			},
		},
		{
			name:   "retries with a fresh number when a concurrent create wins",
			params: validParams,
			setup: func(d orderDeps) {
				d.customers.
					On("CustomerByID", mock.Anything, customerID).
					Return(&model.Customer{ID: customerID}, nil).
					Once()
				d.vehicles.
					On("VehicleByID", mock.Anything, vehicleID).
					Return(&model.Vehicle{ID: vehicleID, CustomerID: customerID}, nil).
					Once()
				d.repository.
					On("LastOrderNumber", mock.Anything, yearPrefix).
					Return(yearPrefix+"00041", nil).
					Once()
				d.repository.
					On("Create", mock.Anything, mock.MatchedBy(func(ord *model.ServiceOrder) bool {
						return ord.OrderNumber == yearPrefix+"00042"
					})).
					Return((*model.ServiceOrder)(nil), model.ErrOrderNumberConflict).
					Once()
				d.repository.
					On("LastOrderNumber", mock.Anything, yearPrefix).
					Return(yearPrefix+"00042", nil).
					Once()
				d.repository.
					On("Create", mock.Anything, mock.MatchedBy(func(ord *model.ServiceOrder) bool {
						return ord.OrderNumber == yearPrefix+"00043"
					})).
					Return(&model.ServiceOrder{
						ID:          uuid.New(),
						OrderNumber: yearPrefix + "00043",
					}, nil).
					Once()
			},
			assert: func(t *testing.T, res *model.ServiceOrder, err error, d orderDeps) {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.Equal(t, yearPrefix+"00043", res.OrderNumber)
			},
		},
		{
			name:   "gives up after exhausting the number attempts",
			params: validParams,
			setup: func(d orderDeps) {
				d.customers.
					On("CustomerByID", mock.Anything, customerID).
					Return(&model.Customer{ID: customerID}, nil).
					Once()
				d.vehicles.
					On("VehicleByID", mock.Anything, vehicleID).
					Return(&model.Vehicle{ID: vehicleID, CustomerID: customerID}, nil).
					Once()
				d.repository.
					On("LastOrderNumber", mock.Anything, yearPrefix).
					Return(yearPrefix+"00041", nil).
					Times(orderNumberAttempts)
				d.repository.
					On("Create", mock.Anything, mock.Anything).
					Return((*model.ServiceOrder)(nil), model.ErrOrderNumberConflict).
					Times(orderNumberAttempts)
			},
			assert: func(t *testing.T, res *model.ServiceOrder, err error, d orderDeps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrOrderNumberConflict)
				assert.Nil(t, res)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newOrderDeps(t)
			if tt.setup != nil {
				tt.setup(d)
			}

			svc := newOrderSvc(d)

			res, err := svc.Create(context.Background(), tt.params())
			tt.assert(t, res, err, d)
		})
	}
}

func TestServiceUpdateOrder(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()

	stored := func(status model.OrderStatus) *model.ServiceOrder {
		return &model.ServiceOrder{
			ID:          orderID,
			OrderNumber: "WS-2026-00007",
			CustomerID:  uuid.New(),
			VehicleID:   uuid.New(),
			Description: "timing belt replacement",
			Status:      status,
			Priority:    model.PriorityNormal,
			LaborCost:   decimal.NewFromInt(200),
			PartsCost:   decimal.NewFromInt(150),
			TotalCost:   decimal.NewFromInt(350),
		}
	}

	completedStatus := model.StatusCompleted
	closedStatus := model.StatusClosed

	type testCase struct {
		name   string
		params model.UpdateOrderParams
		setup  func(d orderDeps)
		assert func(t *testing.T, res *model.ServiceOrder, err error, d orderDeps)
	}

	tests := []testCase{
		{
			name:   "transition not allowed: PENDING to COMPLETED",
			params: model.UpdateOrderParams{Status: &completedStatus},
			setup: func(d orderDeps) {
				d.repository.
					On("OrderByID", mock.Anything, orderID).
					Return(stored(model.StatusPending), nil).
					Once()
			},
			assert: func(t *testing.T, res *model.ServiceOrder, err error, d orderDeps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrStatusTransition)
				assert.Nil(t, res)

				d.repository.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "transition not allowed: reopening a closed order",
			params: model.UpdateOrderParams{Status: ptr(model.StatusInProgress)},
			setup: func(d orderDeps) {
				d.repository.
					On("OrderByID", mock.Anything, orderID).
					Return(stored(model.StatusClosed), nil).
					Once()
			},
			assert: func(t *testing.T, res *model.ServiceOrder, err error, d orderDeps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrStatusTransition)
				assert.Nil(t, res)
			},
		},
		{
			name:   "validation error: negative labor cost",
			params: model.UpdateOrderParams{LaborCost: decPtr(decimal.NewFromInt(-10))},
			setup: func(d orderDeps) {
				d.repository.
					On("OrderByID", mock.Anything, orderID).
					Return(stored(model.StatusInProgress), nil).
					Once()
			},
			assert: func(t *testing.T, res *model.ServiceOrder, err error, d orderDeps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrValidation)
				assert.Nil(t, res)
			},
		},
		{
			name:   "labor cost change restores the total invariant",
			params: model.UpdateOrderParams{LaborCost: decPtr(decimal.NewFromInt(300))},
			setup: func(d orderDeps) {
				d.repository.
					On("OrderByID", mock.Anything, orderID).
					Return(stored(model.StatusInProgress), nil).
					Once()
				d.repository.
					On("Update", mock.Anything, mock.MatchedBy(func(ord *model.ServiceOrder) bool {
						return ord.LaborCost.Equal(decimal.NewFromInt(300)) &&
							ord.TotalCost.Equal(decimal.NewFromInt(450))
					})).
					Return(nil).
					Once()
			},
			assert: func(t *testing.T, res *model.ServiceOrder, err error, d orderDeps) {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.True(t, res.TotalCost.Equal(decimal.NewFromInt(450)))
			},
		},
		{
			name:   "completing the order publishes an event",
			params: model.UpdateOrderParams{Status: &completedStatus},
			setup: func(d orderDeps) {
				d.repository.
					On("OrderByID", mock.Anything, orderID).
					Return(stored(model.StatusInProgress), nil).
					Once()
				d.repository.
					On("Update", mock.Anything, mock.MatchedBy(func(ord *model.ServiceOrder) bool {
						return ord.Status == model.StatusCompleted && ord.CompletedAt != nil
					})).
					Return(nil).
					Once()
				d.events.
					On("SendOrderCompleted", mock.Anything, mock.MatchedBy(func(ev model.OrderCompleted) bool {
						return ev.OrderID == orderID && ev.OrderNumber == "WS-2026-00007"
					})).
					Return(nil).
					Once()
			},
			assert: func(t *testing.T, res *model.ServiceOrder, err error, d orderDeps) {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.Equal(t, model.StatusCompleted, res.Status)
				require.NotNil(t, res.CompletedAt)
			},
		},
		{
			name:   "broker outage does not fail the status change",
			params: model.UpdateOrderParams{Status: &completedStatus},
			setup: func(d orderDeps) {
				d.repository.
					On("OrderByID", mock.Anything, orderID).
					Return(stored(model.StatusInProgress), nil).
					Once()
				d.repository.
					On("Update", mock.Anything, mock.Anything).
					Return(nil).
					Once()
				d.events.
					On("SendOrderCompleted", mock.Anything, mock.Anything).
					Return(assert.AnError).
					Once()
			},
			assert: func(t *testing.T, res *model.ServiceOrder, err error, d orderDeps) {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.Equal(t, model.StatusCompleted, res.Status)
			},
		},
		{
			name:   "closing stamps the closed timestamp without an event",
			params: model.UpdateOrderParams{Status: &closedStatus},
			setup: func(d orderDeps) {
				d.repository.
					On("OrderByID", mock.Anything, orderID).
					Return(stored(model.StatusCompleted), nil).
					Once()
				d.repository.
					On("Update", mock.Anything, mock.MatchedBy(func(ord *model.ServiceOrder) bool {
						return ord.Status == model.StatusClosed && ord.ClosedAt != nil
					})).
					Return(nil).
					Once()
			},
			assert: func(t *testing.T, res *model.ServiceOrder, err error, d orderDeps) {
				require.NoError(t, err)
				require.NotNil(t, res)

				d.events.AssertNotCalled(t, "SendOrderCompleted", mock.Anything, mock.Anything)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newOrderDeps(t)
			if tt.setup != nil {
				tt.setup(d)
			}

			svc := newOrderSvc(d)

			res, err := svc.Update(context.Background(), orderID, tt.params)
			tt.assert(t, res, err, d)
		})
	}
}

func ptr[T any](v T) *T { return &v }

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }
