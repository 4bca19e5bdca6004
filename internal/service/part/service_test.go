package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
	"github.com/notWeev/warsztat-samochodowy/internal/service/mocks"
)

func TestServiceCreatePart(t *testing.T) {
	t.Parallel()

	type deps struct {
		repository *mocks.MockPartRepository
	}

	newSvc := func(d deps) *service {
		return NewPartService(d.repository, time.Second, time.Second)
	}

	validParams := func() model.CreatePartParams {
		return model.CreatePartParams{
			PartNumber:      "BRK-" + gofakeit.DigitN(6),
			Name:            gofakeit.ProductName(),
			Category:        model.CategoryBrakes,
			PurchasePrice:   decimal.NewFromInt(40),
			SellingPrice:    decimal.NewFromInt(55),
			QuantityInStock: 12,
		}
	}

	type testCase struct {
		name   string
		params func() model.CreatePartParams
		setup  func(d deps, params model.CreatePartParams)
		assert func(t *testing.T, res *model.Part, err error, d deps)
	}

	tests := []testCase{
		{
			name: "validation error: empty part number",
			params: func() model.CreatePartParams {
				p := validParams()
				p.PartNumber = "  "
				return p
			},
			setup: func(d deps, params model.CreatePartParams) {
				// No calls expected.
			},
			assert: func(t *testing.T, res *model.Part, err error, d deps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrValidation)
				assert.Nil(t, res)

				d.repository.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			},
		},
		{
			name: "validation error: negative selling price",
			params: func() model.CreatePartParams {
				p := validParams()
				p.SellingPrice = decimal.NewFromInt(-1)
				return p
			},
			setup: func(d deps, params model.CreatePartParams) {},
			assert: func(t *testing.T, res *model.Part, err error, d deps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrValidation)
				assert.Nil(t, res)
			},
		},
		{
			name:   "conflict: part number already in use",
			params: validParams,
			setup: func(d deps, params model.CreatePartParams) {
				d.repository.
					On("PartByNumber", mock.Anything, params.PartNumber).
					Return(&model.Part{ID: uuid.New(), PartNumber: params.PartNumber}, nil).
					Once()
			},
			assert: func(t *testing.T, res *model.Part, err error, d deps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrPartNumberTaken)
				assert.Nil(t, res)

				d.repository.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			},
		},
		{
			name:   "repository error: uniqueness probe fails",
			params: validParams,
			setup: func(d deps, params model.CreatePartParams) {
				d.repository.
					On("PartByNumber", mock.Anything, params.PartNumber).
					Return((*model.Part)(nil), errors.New("db read failed")).
					Once()
			},
			assert: func(t *testing.T, res *model.Part, err error, d deps) {
				require.Error(t, err)
				assert.ErrorContains(t, err, "db read failed")
				assert.Nil(t, res)
			},
		},
		{
			name: "success: zero stock derives OUT_OF_STOCK",
			params: func() model.CreatePartParams {
				p := validParams()
				p.QuantityInStock = 0
				return p
			},
			setup: func(d deps, params model.CreatePartParams) {
				d.repository.
					On("PartByNumber", mock.Anything, params.PartNumber).
					Return((*model.Part)(nil), model.ErrPartNotFound).
					Once()
				d.repository.
					On("Create", mock.Anything, mock.MatchedBy(func(p *model.Part) bool {
						return p.Status == model.PartStatusOutOfStock &&
							p.MinStockLevel == defaultMinStockLevel
					})).
					Return(&model.Part{ID: uuid.New(), Status: model.PartStatusOutOfStock}, nil).
					Once()
			},
			assert: func(t *testing.T, res *model.Part, err error, d deps) {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.Equal(t, model.PartStatusOutOfStock, res.Status)
			},
		},
		{
			name:   "success: healthy stock derives AVAILABLE",
			params: validParams,
			setup: func(d deps, params model.CreatePartParams) {
				d.repository.
					On("PartByNumber", mock.Anything, params.PartNumber).
					Return((*model.Part)(nil), model.ErrPartNotFound).
					Once()
				d.repository.
					On("Create", mock.Anything, mock.MatchedBy(func(p *model.Part) bool {
						return p.Status == model.PartStatusAvailable
					})).
					Return(&model.Part{ID: uuid.New(), Status: model.PartStatusAvailable}, nil).
					Once()
			},
			assert: func(t *testing.T, res *model.Part, err error, d deps) {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.Equal(t, model.PartStatusAvailable, res.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := deps{
				repository: mocks.NewMockPartRepository(t),
			}
			params := tt.params()
			if tt.setup != nil {
				tt.setup(d, params)
			}

			svc := newSvc(d)

			res, err := svc.Create(context.Background(), params)
			tt.assert(t, res, err, d)
		})
	}
}

func TestServiceDecreaseStock(t *testing.T) {
	t.Parallel()

	type deps struct {
		repository *mocks.MockPartRepository
	}

	newSvc := func(d deps) *service {
		return NewPartService(d.repository, time.Second, time.Second)
	}

	partID := uuid.New()

	type testCase struct {
		name     string
		quantity int64
		setup    func(d deps)
		assert   func(t *testing.T, res *model.Part, err error, d deps)
	}

	tests := []testCase{
		{
			name:     "validation error: zero quantity",
			quantity: 0,
			setup:    func(d deps) {},
			assert: func(t *testing.T, res *model.Part, err error, d deps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrValidation)
				assert.Nil(t, res)

				d.repository.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name:     "validation error: negative quantity",
			quantity: -3,
			setup:    func(d deps) {},
			assert: func(t *testing.T, res *model.Part, err error, d deps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrValidation)
				assert.Nil(t, res)
			},
		},
		{
			name:     "insufficient stock carries the amounts",
			quantity: 10,
			setup: func(d deps) {
				d.repository.
					On("AdjustStock", mock.Anything, partID, int64(-10)).
					Return((*model.Part)(nil), model.InsufficientStockError(6, 10)).
					Once()
			},
			assert: func(t *testing.T, res *model.Part, err error, d deps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrInsufficientStock)
				assert.ErrorContains(t, err, "available 6, requested 10")
				assert.Nil(t, res)
			},
		},
		{
			name:     "success: passes negative delta and returns updated part",
			quantity: 4,
			setup: func(d deps) {
				d.repository.
					On("AdjustStock", mock.Anything, partID, int64(-4)).
					Return(&model.Part{
						ID:              partID,
						QuantityInStock: 2,
						MinStockLevel:   5,
						Status:          model.PartStatusLowStock,
					}, nil).
					Once()
			},
			assert: func(t *testing.T, res *model.Part, err error, d deps) {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.Equal(t, int64(2), res.QuantityInStock)
				assert.Equal(t, model.PartStatusLowStock, res.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := deps{
				repository: mocks.NewMockPartRepository(t),
			}
			if tt.setup != nil {
				tt.setup(d)
			}

			svc := newSvc(d)

			res, err := svc.DecreaseStock(context.Background(), partID, tt.quantity)
			tt.assert(t, res, err, d)
		})
	}
}

func TestServiceUpdatePartStatus(t *testing.T) {
	t.Parallel()

	type deps struct {
		repository *mocks.MockPartRepository
	}

	newSvc := func(d deps) *service {
		return NewPartService(d.repository, time.Second, time.Second)
	}

	partID := uuid.New()

	stored := func(status model.PartStatus) *model.Part {
		return &model.Part{
			ID:              partID,
			PartNumber:      "FLT-001122",
			Name:            "Oil filter",
			Category:        model.CategoryFilters,
			QuantityInStock: 30,
			MinStockLevel:   5,
			Status:          status,
		}
	}

	discontinued := model.PartStatusDiscontinued
	available := model.PartStatusAvailable

	type testCase struct {
		name   string
		params model.UpdatePartParams
		setup  func(d deps)
		assert func(t *testing.T, res *model.Part, err error, d deps)
	}

	tests := []testCase{
		{
			name:   "discontinued survives a field-only update",
			params: model.UpdatePartParams{MinStockLevel: ptr(int64(10))},
			setup: func(d deps) {
				d.repository.
					On("PartByID", mock.Anything, partID).
					Return(stored(model.PartStatusDiscontinued), nil).
					Once()
				d.repository.
					On("Update", mock.Anything, mock.MatchedBy(func(p *model.Part) bool {
						return p.Status == model.PartStatusDiscontinued && p.MinStockLevel == 10
					})).
					Return(nil).
					Once()
			},
			assert: func(t *testing.T, res *model.Part, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, model.PartStatusDiscontinued, res.Status)
			},
		},
		{
			name:   "explicit DISCONTINUED overrides derivation",
			params: model.UpdatePartParams{Status: &discontinued},
			setup: func(d deps) {
				d.repository.
					On("PartByID", mock.Anything, partID).
					Return(stored(model.PartStatusAvailable), nil).
					Once()
				d.repository.
					On("Update", mock.Anything, mock.MatchedBy(func(p *model.Part) bool {
						return p.Status == model.PartStatusDiscontinued
					})).
					Return(nil).
					Once()
			},
			assert: func(t *testing.T, res *model.Part, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, model.PartStatusDiscontinued, res.Status)
			},
		},
		{
			name:   "clearing DISCONTINUED re-derives from stock",
			params: model.UpdatePartParams{Status: &available},
			setup: func(d deps) {
				d.repository.
					On("PartByID", mock.Anything, partID).
					Return(stored(model.PartStatusDiscontinued), nil).
					Once()
				d.repository.
					On("Update", mock.Anything, mock.MatchedBy(func(p *model.Part) bool {
						return p.Status == model.PartStatusAvailable
					})).
					Return(nil).
					Once()
			},
			assert: func(t *testing.T, res *model.Part, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, model.PartStatusAvailable, res.Status)
			},
		},
		{
			name:   "not found",
			params: model.UpdatePartParams{Name: ptr("Air filter")},
			setup: func(d deps) {
				d.repository.
					On("PartByID", mock.Anything, partID).
					Return((*model.Part)(nil), model.ErrPartNotFound).
					Once()
			},
			assert: func(t *testing.T, res *model.Part, err error, d deps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrPartNotFound)
				assert.Nil(t, res)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := deps{
				repository: mocks.NewMockPartRepository(t),
			}
			if tt.setup != nil {
				tt.setup(d)
			}

			svc := newSvc(d)

			res, err := svc.Update(context.Background(), partID, tt.params)
			tt.assert(t, res, err, d)
		})
	}
}

func ptr[T any](v T) *T { return &v }
