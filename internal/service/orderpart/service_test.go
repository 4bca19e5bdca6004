package service

import (
	"context"
	"errors"
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

type orderPartDeps struct {
	repository *mocks.MockOrderPartRepository
	orders     *mocks.MockOrderRepository
	ledger     *mocks.MockPartLedger
}

func newOrderPartDeps(t *testing.T) orderPartDeps {
	return orderPartDeps{
		repository: mocks.NewMockOrderPartRepository(t),
		orders:     mocks.NewMockOrderRepository(t),
		ledger:     mocks.NewMockPartLedger(t),
	}
}

func newOrderPartSvc(d orderPartDeps) *service {
	return NewOrderPartService(d.repository, d.orders, d.ledger, time.Second, time.Second)
}

func TestServiceAddPartToOrder(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()
	partID := uuid.New()

	openOrder := func() *model.ServiceOrder {
		return &model.ServiceOrder{
			ID:        orderID,
			Status:    model.StatusInProgress,
			LaborCost: decimal.NewFromInt(100),
		}
	}
	storedPart := func() *model.Part {
		return &model.Part{
			ID:              partID,
			SellingPrice:    decimal.NewFromInt(55),
			QuantityInStock: 10,
		}
	}

	expectRecompute := func(d orderPartDeps, partsCost int64) {
		d.orders.
			On("OrderByID", mock.Anything, orderID).
			Return(openOrder(), nil).
			Once()
		d.repository.
			On("PartsCostByOrderID", mock.Anything, orderID).
			Return(decimal.NewFromInt(partsCost), nil).
			Once()
		d.orders.
			On("UpdateCosts", mock.Anything, orderID,
				mock.MatchedBy(func(v decimal.Decimal) bool {
					return v.Equal(decimal.NewFromInt(partsCost))
				}),
				mock.MatchedBy(func(v decimal.Decimal) bool {
					return v.Equal(decimal.NewFromInt(100 + partsCost))
				}),
			).
			Return(nil).
			Once()
	}

	type testCase struct {
		name   string
		params model.AddOrderPartParams
		setup  func(d orderPartDeps)
		assert func(t *testing.T, res *model.OrderPart, err error, d orderPartDeps)
	}

	tests := []testCase{
		{
			name:   "validation error: quantity below one",
			params: model.AddOrderPartParams{PartID: partID, Quantity: 0},
			setup:  func(d orderPartDeps) {},
			assert: func(t *testing.T, res *model.OrderPart, err error, d orderPartDeps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrValidation)
				assert.Nil(t, res)

				d.ledger.AssertNotCalled(t, "DecreaseStock", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name:   "terminal order rejects new lines",
			params: model.AddOrderPartParams{PartID: partID, Quantity: 1},
			setup: func(d orderPartDeps) {
				ord := openOrder()
				ord.Status = model.StatusClosed
				d.orders.
					On("OrderByID", mock.Anything, orderID).
					Return(ord, nil).
					Once()
			},
			assert: func(t *testing.T, res *model.OrderPart, err error, d orderPartDeps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrStatusTransition)
				assert.Nil(t, res)

				d.ledger.AssertNotCalled(t, "DecreaseStock", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name:   "insufficient stock: no line is written",
			params: model.AddOrderPartParams{PartID: partID, Quantity: 20},
			setup: func(d orderPartDeps) {
				d.orders.
					On("OrderByID", mock.Anything, orderID).
					Return(openOrder(), nil).
					Once()
				d.ledger.
					On("PartByID", mock.Anything, partID).
					Return(storedPart(), nil).
					Once()
				d.ledger.
					On("DecreaseStock", mock.Anything, partID, int64(20)).
					Return((*model.Part)(nil), model.ErrInsufficientStock).
					Once()
			},
			assert: func(t *testing.T, res *model.OrderPart, err error, d orderPartDeps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrInsufficientStock)
				assert.Nil(t, res)

				d.repository.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "failed line write puts the units back",
			params: model.AddOrderPartParams{PartID: partID, Quantity: 2},
			setup: func(d orderPartDeps) {
				d.orders.
					On("OrderByID", mock.Anything, orderID).
					Return(openOrder(), nil).
					Once()
				d.ledger.
					On("PartByID", mock.Anything, partID).
					Return(storedPart(), nil).
					Once()
				d.ledger.
					On("DecreaseStock", mock.Anything, partID, int64(2)).
					Return(storedPart(), nil).
					Once()
				d.repository.
					On("Create", mock.Anything, mock.Anything).
					Return((*model.OrderPart)(nil), errors.New("db write failed")).
					Once()
				d.ledger.
					On("IncreaseStock", mock.Anything, partID, int64(2)).
					Return(storedPart(), nil).
					Once()
			},
			assert: func(t *testing.T, res *model.OrderPart, err error, d orderPartDeps) {
				require.Error(t, err)
				assert.ErrorContains(t, err, "db write failed")
				assert.Nil(t, res)
			},
		},
		{
			name:   "success: snapshots the catalog selling price",
			params: model.AddOrderPartParams{PartID: partID, Quantity: 2},
			setup: func(d orderPartDeps) {
				d.orders.
					On("OrderByID", mock.Anything, orderID).
					Return(openOrder(), nil).
					Once()
				d.ledger.
					On("PartByID", mock.Anything, partID).
					Return(storedPart(), nil).
					Once()
				d.ledger.
					On("DecreaseStock", mock.Anything, partID, int64(2)).
					Return(storedPart(), nil).
					Once()
				d.repository.
					On("Create", mock.Anything, mock.MatchedBy(func(line *model.OrderPart) bool {
						return line.UnitPrice.Equal(decimal.NewFromInt(55)) &&
							line.TotalPrice.Equal(decimal.NewFromInt(110))
					})).
					Return(&model.OrderPart{
						ID:             uuid.New(),
						ServiceOrderID: orderID,
						PartID:         partID,
						Quantity:       2,
						UnitPrice:      decimal.NewFromInt(55),
						TotalPrice:     decimal.NewFromInt(110),
					}, nil).
					Once()

				expectRecompute(d, 110)
			},
			assert: func(t *testing.T, res *model.OrderPart, err error, d orderPartDeps) {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.True(t, res.UnitPrice.Equal(decimal.NewFromInt(55)))
				assert.True(t, res.TotalPrice.Equal(decimal.NewFromInt(110)))
			},
		},
		{
			name: "success: explicit unit price wins over the catalog",
			params: model.AddOrderPartParams{
				PartID:    partID,
				Quantity:  3,
				UnitPrice: decPtr(decimal.NewFromInt(40)),
			},
			setup: func(d orderPartDeps) {
				d.orders.
					On("OrderByID", mock.Anything, orderID).
					Return(openOrder(), nil).
					Once()
				d.ledger.
					On("PartByID", mock.Anything, partID).
					Return(storedPart(), nil).
					Once()
				d.ledger.
					On("DecreaseStock", mock.Anything, partID, int64(3)).
					Return(storedPart(), nil).
					Once()
				d.repository.
					On("Create", mock.Anything, mock.MatchedBy(func(line *model.OrderPart) bool {
						return line.UnitPrice.Equal(decimal.NewFromInt(40)) &&
							line.TotalPrice.Equal(decimal.NewFromInt(120))
					})).
					Return(&model.OrderPart{
						ID:         uuid.New(),
						Quantity:   3,
						UnitPrice:  decimal.NewFromInt(40),
						TotalPrice: decimal.NewFromInt(120),
					}, nil).
					Once()

				expectRecompute(d, 120)
			},
			assert: func(t *testing.T, res *model.OrderPart, err error, d orderPartDeps) {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.True(t, res.UnitPrice.Equal(decimal.NewFromInt(40)))
			},
		},
		{
			name: "validation error: negative unit price override",
			params: model.AddOrderPartParams{
				PartID:    partID,
				Quantity:  1,
				UnitPrice: decPtr(decimal.NewFromInt(-5)),
			},
			setup: func(d orderPartDeps) {
				d.orders.
					On("OrderByID", mock.Anything, orderID).
					Return(openOrder(), nil).
					Once()
				d.ledger.
					On("PartByID", mock.Anything, partID).
					Return(storedPart(), nil).
					Once()
			},
			assert: func(t *testing.T, res *model.OrderPart, err error, d orderPartDeps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrValidation)
				assert.Nil(t, res)

				d.ledger.AssertNotCalled(t, "DecreaseStock", mock.Anything, mock.Anything, mock.Anything)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newOrderPartDeps(t)
			if tt.setup != nil {
				tt.setup(d)
			}

			svc := newOrderPartSvc(d)

			res, err := svc.AddPartToOrder(context.Background(), orderID, tt.params)
			tt.assert(t, res, err, d)
		})
	}
}

func TestServiceRemoveOrderPart(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()
	partID := uuid.New()
	lineID := uuid.New()

	line := func() *model.OrderPart {
		return &model.OrderPart{
			ID:             lineID,
			ServiceOrderID: orderID,
			PartID:         partID,
			Quantity:       3,
			UnitPrice:      decimal.NewFromInt(20),
			TotalPrice:     decimal.NewFromInt(60),
		}
	}

	type testCase struct {
		name   string
		setup  func(d orderPartDeps)
		assert func(t *testing.T, err error, d orderPartDeps)
	}

	tests := []testCase{
		{
			name: "line not found",
			setup: func(d orderPartDeps) {
				d.repository.
					On("ByID", mock.Anything, lineID).
					Return((*model.OrderPart)(nil), model.ErrOrderPartNotFound).
					Once()
			},
			assert: func(t *testing.T, err error, d orderPartDeps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrOrderPartNotFound)

				d.ledger.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name: "failed delete takes the restocked units back out",
			setup: func(d orderPartDeps) {
				d.repository.
					On("ByID", mock.Anything, lineID).
					Return(line(), nil).
					Once()
				d.ledger.
					On("IncreaseStock", mock.Anything, partID, int64(3)).
					Return(&model.Part{ID: partID, QuantityInStock: 8}, nil).
					Once()
				d.repository.
					On("Delete", mock.Anything, lineID).
					Return(errors.New("db write failed")).
					Once()
				d.ledger.
					On("DecreaseStock", mock.Anything, partID, int64(3)).
					Return(&model.Part{ID: partID, QuantityInStock: 5}, nil).
					Once()
			},
			assert: func(t *testing.T, err error, d orderPartDeps) {
				require.Error(t, err)
				assert.ErrorContains(t, err, "db write failed")

				d.orders.AssertNotCalled(t, "UpdateCosts",
					mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name: "success: units go back to stock and costs shrink",
			setup: func(d orderPartDeps) {
				d.repository.
					On("ByID", mock.Anything, lineID).
					Return(line(), nil).
					Once()
				d.repository.
					On("Delete", mock.Anything, lineID).
					Return(nil).
					Once()
				d.ledger.
					On("IncreaseStock", mock.Anything, partID, int64(3)).
					Return(&model.Part{ID: partID, QuantityInStock: 8}, nil).
					Once()
				d.orders.
					On("OrderByID", mock.Anything, orderID).
					Return(&model.ServiceOrder{ID: orderID, LaborCost: decimal.NewFromInt(100)}, nil).
					Once()
				d.repository.
					On("PartsCostByOrderID", mock.Anything, orderID).
					Return(decimal.Zero, nil).
					Once()
				d.orders.
					On("UpdateCosts", mock.Anything, orderID,
						mock.MatchedBy(func(v decimal.Decimal) bool { return v.IsZero() }),
						mock.MatchedBy(func(v decimal.Decimal) bool {
							return v.Equal(decimal.NewFromInt(100))
						}),
					).
					Return(nil).
					Once()
			},
			assert: func(t *testing.T, err error, d orderPartDeps) {
				require.NoError(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newOrderPartDeps(t)
			if tt.setup != nil {
				tt.setup(d)
			}

			svc := newOrderPartSvc(d)

			err := svc.Remove(context.Background(), lineID)
			tt.assert(t, err, d)
		})
	}
}

func TestServiceUpdateOrderPartQuantity(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()
	partID := uuid.New()
	lineID := uuid.New()

	line := func() *model.OrderPart {
		return &model.OrderPart{
			ID:             lineID,
			ServiceOrderID: orderID,
			PartID:         partID,
			Quantity:       2,
			UnitPrice:      decimal.NewFromInt(25),
			TotalPrice:     decimal.NewFromInt(50),
		}
	}

	expectRecompute := func(d orderPartDeps, partsCost int64) {
		d.orders.
			On("OrderByID", mock.Anything, orderID).
			Return(&model.ServiceOrder{ID: orderID, LaborCost: decimal.Zero}, nil).
			Once()
		d.repository.
			On("PartsCostByOrderID", mock.Anything, orderID).
			Return(decimal.NewFromInt(partsCost), nil).
			Once()
		d.orders.
			On("UpdateCosts", mock.Anything, orderID,
				mock.MatchedBy(func(v decimal.Decimal) bool {
					return v.Equal(decimal.NewFromInt(partsCost))
				}),
				mock.MatchedBy(func(v decimal.Decimal) bool {
					return v.Equal(decimal.NewFromInt(partsCost))
				}),
			).
			Return(nil).
			Once()
	}

	type testCase struct {
		name   string
		params model.UpdateOrderPartParams
		setup  func(d orderPartDeps)
		assert func(t *testing.T, res *model.OrderPart, err error, d orderPartDeps)
	}

	tests := []testCase{
		{
			name:   "growing quantity consumes the difference",
			params: model.UpdateOrderPartParams{Quantity: ptr(int64(5))},
			setup: func(d orderPartDeps) {
				d.repository.
					On("ByID", mock.Anything, lineID).
					Return(line(), nil).
					Once()
				d.ledger.
					On("DecreaseStock", mock.Anything, partID, int64(3)).
					Return(&model.Part{ID: partID}, nil).
					Once()
				d.repository.
					On("Update", mock.Anything, mock.MatchedBy(func(l *model.OrderPart) bool {
						return l.Quantity == 5 && l.TotalPrice.Equal(decimal.NewFromInt(125))
					})).
					Return(nil).
					Once()

				expectRecompute(d, 125)
			},
			assert: func(t *testing.T, res *model.OrderPart, err error, d orderPartDeps) {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.Equal(t, int64(5), res.Quantity)
				assert.True(t, res.UnitPrice.Equal(decimal.NewFromInt(25)))
			},
		},
		{
			name:   "shrinking quantity returns the difference",
			params: model.UpdateOrderPartParams{Quantity: ptr(int64(1))},
			setup: func(d orderPartDeps) {
				d.repository.
					On("ByID", mock.Anything, lineID).
					Return(line(), nil).
					Once()
				d.ledger.
					On("IncreaseStock", mock.Anything, partID, int64(1)).
					Return(&model.Part{ID: partID}, nil).
					Once()
				d.repository.
					On("Update", mock.Anything, mock.MatchedBy(func(l *model.OrderPart) bool {
						return l.Quantity == 1 && l.TotalPrice.Equal(decimal.NewFromInt(25))
					})).
					Return(nil).
					Once()

				expectRecompute(d, 25)
			},
			assert: func(t *testing.T, res *model.OrderPart, err error, d orderPartDeps) {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.Equal(t, int64(1), res.Quantity)
			},
		},
		{
			name:   "unchanged quantity leaves the ledger alone",
			params: model.UpdateOrderPartParams{Quantity: ptr(int64(2)), Notes: ptr("rear axle")},
			setup: func(d orderPartDeps) {
				d.repository.
					On("ByID", mock.Anything, lineID).
					Return(line(), nil).
					Once()
				d.repository.
					On("Update", mock.Anything, mock.Anything).
					Return(nil).
					Once()

				expectRecompute(d, 50)
			},
			assert: func(t *testing.T, res *model.OrderPart, err error, d orderPartDeps) {
				require.NoError(t, err)

				d.ledger.AssertNotCalled(t, "DecreaseStock", mock.Anything, mock.Anything, mock.Anything)
				d.ledger.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name:   "failed line write settles the stock back",
			params: model.UpdateOrderPartParams{Quantity: ptr(int64(5))},
			setup: func(d orderPartDeps) {
				d.repository.
					On("ByID", mock.Anything, lineID).
					Return(line(), nil).
					Once()
				d.ledger.
					On("DecreaseStock", mock.Anything, partID, int64(3)).
					Return(&model.Part{ID: partID}, nil).
					Once()
				d.repository.
					On("Update", mock.Anything, mock.Anything).
					Return(errors.New("db write failed")).
					Once()
				d.ledger.
					On("IncreaseStock", mock.Anything, partID, int64(3)).
					Return(&model.Part{ID: partID}, nil).
					Once()
			},
			assert: func(t *testing.T, res *model.OrderPart, err error, d orderPartDeps) {
				require.Error(t, err)
				assert.ErrorContains(t, err, "db write failed")
				assert.Nil(t, res)

				d.orders.AssertNotCalled(t, "UpdateCosts",
					mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name:   "failed line write after shrinking re-consumes the returned units",
			params: model.UpdateOrderPartParams{Quantity: ptr(int64(1))},
			setup: func(d orderPartDeps) {
				d.repository.
					On("ByID", mock.Anything, lineID).
					Return(line(), nil).
					Once()
				d.ledger.
					On("IncreaseStock", mock.Anything, partID, int64(1)).
					Return(&model.Part{ID: partID}, nil).
					Once()
				d.repository.
					On("Update", mock.Anything, mock.Anything).
					Return(errors.New("db write failed")).
					Once()
				d.ledger.
					On("DecreaseStock", mock.Anything, partID, int64(1)).
					Return(&model.Part{ID: partID}, nil).
					Once()
			},
			assert: func(t *testing.T, res *model.OrderPart, err error, d orderPartDeps) {
				require.Error(t, err)
				assert.ErrorContains(t, err, "db write failed")
				assert.Nil(t, res)
			},
		},
		{
			name:   "validation error: quantity below one",
			params: model.UpdateOrderPartParams{Quantity: ptr(int64(0))},
			setup:  func(d orderPartDeps) {},
			assert: func(t *testing.T, res *model.OrderPart, err error, d orderPartDeps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrValidation)
				assert.Nil(t, res)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newOrderPartDeps(t)
			if tt.setup != nil {
				tt.setup(d)
			}

			svc := newOrderPartSvc(d)

			res, err := svc.Update(context.Background(), lineID, tt.params)
			tt.assert(t, res, err, d)
		})
	}
}

func TestServiceRecomputeOrderCostsIdempotent(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()

	d := newOrderPartDeps(t)
	svc := newOrderPartSvc(d)

	d.orders.
		On("OrderByID", mock.Anything, orderID).
		Return(&model.ServiceOrder{ID: orderID, LaborCost: decimal.NewFromInt(100)}, nil).
		Times(2)
	d.repository.
		On("PartsCostByOrderID", mock.Anything, orderID).
		Return(decimal.NewFromInt(250), nil).
		Times(2)
	d.orders.
		On("UpdateCosts", mock.Anything, orderID,
			mock.MatchedBy(func(v decimal.Decimal) bool {
				return v.Equal(decimal.NewFromInt(250))
			}),
			mock.MatchedBy(func(v decimal.Decimal) bool {
				return v.Equal(decimal.NewFromInt(350))
			}),
		).
		Return(nil).
		Times(2)

	// Same rows in, same costs out, however often it runs.
	require.NoError(t, svc.RecomputeOrderCosts(context.Background(), orderID))
	require.NoError(t, svc.RecomputeOrderCosts(context.Background(), orderID))
}

func TestServiceOrderPartRoundTrip(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()
	partID := uuid.New()
	lineID := uuid.New()

	stock := int64(10)

	d := newOrderPartDeps(t)
	svc := newOrderPartSvc(d)

	costEq := func(n int64) any {
		return mock.MatchedBy(func(v decimal.Decimal) bool {
			return v.Equal(decimal.NewFromInt(n))
		})
	}

	d.orders.
		On("OrderByID", mock.Anything, orderID).
		Return(&model.ServiceOrder{
			ID:        orderID,
			Status:    model.StatusInProgress,
			LaborCost: decimal.NewFromInt(100),
		}, nil)

	// Add: 2 units leave the shelf, the order carries 60 in parts.
	d.ledger.
		On("PartByID", mock.Anything, partID).
		Return(&model.Part{ID: partID, SellingPrice: decimal.NewFromInt(30), QuantityInStock: stock}, nil).
		Once()
	d.ledger.
		On("DecreaseStock", mock.Anything, partID, int64(2)).
		Run(func(_ mock.Arguments) { stock -= 2 }).
		Return(&model.Part{ID: partID}, nil).
		Once()
	d.repository.
		On("Create", mock.Anything, mock.Anything).
		Return(&model.OrderPart{
			ID:             lineID,
			ServiceOrderID: orderID,
			PartID:         partID,
			Quantity:       2,
			UnitPrice:      decimal.NewFromInt(30),
			TotalPrice:     decimal.NewFromInt(60),
		}, nil).
		Once()
	d.repository.
		On("PartsCostByOrderID", mock.Anything, orderID).
		Return(decimal.NewFromInt(60), nil).
		Once()
	d.orders.
		On("UpdateCosts", mock.Anything, orderID, costEq(60), costEq(160)).
		Return(nil).
		Once()

	added, err := svc.AddPartToOrder(context.Background(), orderID,
		model.AddOrderPartParams{PartID: partID, Quantity: 2})
	require.NoError(t, err)
	require.NotNil(t, added)
	assert.Equal(t, int64(8), stock)

	// Remove: the same 2 units come back and the parts cost returns to zero.
	d.repository.
		On("ByID", mock.Anything, lineID).
		Return(added, nil).
		Once()
	d.ledger.
		On("IncreaseStock", mock.Anything, partID, int64(2)).
		Run(func(_ mock.Arguments) { stock += 2 }).
		Return(&model.Part{ID: partID}, nil).
		Once()
	d.repository.
		On("Delete", mock.Anything, lineID).
		Return(nil).
		Once()
	d.repository.
		On("PartsCostByOrderID", mock.Anything, orderID).
		Return(decimal.Zero, nil).
		Once()
	d.orders.
		On("UpdateCosts", mock.Anything, orderID, costEq(0), costEq(100)).
		Return(nil).
		Once()

	require.NoError(t, svc.Remove(context.Background(), lineID))
	assert.Equal(t, int64(10), stock)
}

func ptr[T any](v T) *T { return &v }

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }
