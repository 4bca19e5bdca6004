package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
	"github.com/notWeev/warsztat-samochodowy/platform/logger"
)

type OrderPartRepository interface {
	Create(ctx context.Context, op *model.OrderPart) (*model.OrderPart, error)
	ByID(ctx context.Context, id uuid.UUID) (*model.OrderPart, error)
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*model.OrderPart, error)
	Update(ctx context.Context, upd *model.OrderPart) error
	Delete(ctx context.Context, id uuid.UUID) error
	PartsCostByOrderID(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
}

type OrderRepository interface {
	OrderByID(ctx context.Context, id uuid.UUID) (*model.ServiceOrder, error)
	UpdateCosts(ctx context.Context, id uuid.UUID, partsCost, totalCost decimal.Decimal) error
}

type PartLedger interface {
	PartByID(ctx context.Context, id uuid.UUID) (*model.Part, error)
	IncreaseStock(ctx context.Context, id uuid.UUID, quantity int64) (*model.Part, error)
	DecreaseStock(ctx context.Context, id uuid.UUID, quantity int64) (*model.Part, error)
}

type service struct {
	repo           OrderPartRepository
	orders         OrderRepository
	ledger         PartLedger
	readDBTimeout  time.Duration
	writeDBTimeout time.Duration
}

func NewOrderPartService(
	repo OrderPartRepository,
	orders OrderRepository,
	ledger PartLedger,
	readDBTimeout time.Duration,
	writeDBTimeout time.Duration,
) *service {
	return &service{
		repo:           repo,
		orders:         orders,
		ledger:         ledger,
		readDBTimeout:  readDBTimeout,
		writeDBTimeout: writeDBTimeout,
	}
}

// AddPartToOrder consumes stock for the part and attaches a priced line to the
// order. The unit price is snapshotted from the part's current selling price
// unless the caller overrides it. Stock is decremented before the line is
// written; a failed write puts the units back.
func (s *service) AddPartToOrder(
	ctx context.Context,
	orderID uuid.UUID,
	params model.AddOrderPartParams,
) (*model.OrderPart, error) {
	const op = "orderpart.service.AddPartToOrder"
	log := logger.With(
		logger.String("order_id", orderID.String()),
		logger.String("part_id", params.PartID.String()),
		logger.Int64("quantity", params.Quantity),
	)

	if params.Quantity < 1 {
		log.Error(ctx, "validation: quantity below one")
		return nil, errors.Join(model.ErrValidation, errors.New("quantity must be at least 1"))
	}

	rdbCtx, rdbCancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer rdbCancel()

	ord, err := s.orders.OrderByID(rdbCtx, orderID)
	if err != nil {
		log.Error(ctx, "repository order by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if ord.Status.Terminal() {
		log.Error(ctx, "order is terminal", logger.String("status", string(ord.Status)))
		return nil, fmt.Errorf("%s: %w", op, model.ErrStatusTransition)
	}

	part, err := s.ledger.PartByID(rdbCtx, params.PartID)
	if err != nil {
		log.Error(ctx, "ledger part by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	unitPrice := part.SellingPrice
	if params.UnitPrice != nil {
		unitPrice = *params.UnitPrice
	}
	if unitPrice.LessThan(decimal.Zero) {
		log.Error(ctx, "validation: negative unit price")
		return nil, errors.Join(model.ErrValidation, errors.New("unit price must be non-negative"))
	}

	if _, err := s.ledger.DecreaseStock(ctx, params.PartID, params.Quantity); err != nil {
		log.Error(ctx, "ledger decrease stock", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	line := &model.OrderPart{
		ServiceOrderID: orderID,
		PartID:         params.PartID,
		Quantity:       params.Quantity,
		UnitPrice:      unitPrice,
		TotalPrice:     unitPrice.Mul(decimal.NewFromInt(params.Quantity)),
		Notes:          params.Notes,
	}

	wdbCtx, wdbCancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wdbCancel()

	line, err = s.repo.Create(wdbCtx, line)
	if err != nil {
		log.Error(ctx, "repository create line", logger.ErrorF(err))
		// Put the consumed units back; the line never existed.
		if _, rbErr := s.ledger.IncreaseStock(ctx, params.PartID, params.Quantity); rbErr != nil {
			log.Error(ctx, "compensating stock increase", logger.ErrorF(rbErr))
			return nil, fmt.Errorf("%s: %w", op, errors.Join(err, rbErr))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.RecomputeOrderCosts(ctx, orderID); err != nil {
		log.Error(ctx, "recompute order costs", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return line, nil
}

// Update changes a line's quantity or notes. A quantity change settles the
// stock difference with the ledger; the unit price snapshot never moves.
func (s *service) Update(
	ctx context.Context,
	lineID uuid.UUID,
	params model.UpdateOrderPartParams,
) (*model.OrderPart, error) {
	const op = "orderpart.service.Update"
	log := logger.With(
		logger.String("order_part_id", lineID.String()),
	)

	if params.Quantity != nil && *params.Quantity < 1 {
		log.Error(ctx, "validation: quantity below one")
		return nil, errors.Join(model.ErrValidation, errors.New("quantity must be at least 1"))
	}

	rdbCtx, rdbCancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer rdbCancel()

	line, err := s.repo.ByID(rdbCtx, lineID)
	if err != nil {
		log.Error(ctx, "repository line by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var delta int64
	if params.Quantity != nil && *params.Quantity != line.Quantity {
		delta = *params.Quantity - line.Quantity
		if err := s.settleStock(ctx, line.PartID, delta); err != nil {
			log.Error(ctx, "ledger stock adjustment", logger.ErrorF(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		line.Quantity = *params.Quantity
		line.TotalPrice = line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity))
	}
	if params.Notes != nil {
		line.Notes = params.Notes
	}

	wdbCtx, wdbCancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wdbCancel()

	if err := s.repo.Update(wdbCtx, line); err != nil {
		log.Error(ctx, "repository update line", logger.ErrorF(err))
		// The line kept its old quantity; undo the settled difference.
		if delta != 0 {
			if rbErr := s.settleStock(ctx, line.PartID, -delta); rbErr != nil {
				log.Error(ctx, "compensating stock adjustment", logger.ErrorF(rbErr))
				return nil, fmt.Errorf("%s: %w", op, errors.Join(err, rbErr))
			}
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.RecomputeOrderCosts(ctx, line.ServiceOrderID); err != nil {
		log.Error(ctx, "recompute order costs", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return line, nil
}

// Remove deletes a line and returns its units to stock.
func (s *service) Remove(ctx context.Context, lineID uuid.UUID) error {
	const op = "orderpart.service.Remove"
	log := logger.With(
		logger.String("order_part_id", lineID.String()),
	)

	rdbCtx, rdbCancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer rdbCancel()

	line, err := s.repo.ByID(rdbCtx, lineID)
	if err != nil {
		log.Error(ctx, "repository line by id", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	// Units go back before the line is dropped; a failed delete takes them
	// out again, so the ledger and the lines never disagree.
	if _, err := s.ledger.IncreaseStock(ctx, line.PartID, line.Quantity); err != nil {
		log.Error(ctx, "ledger increase stock", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	wdbCtx, wdbCancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wdbCancel()

	if err := s.repo.Delete(wdbCtx, lineID); err != nil {
		log.Error(ctx, "repository delete line", logger.ErrorF(err))
		if _, rbErr := s.ledger.DecreaseStock(ctx, line.PartID, line.Quantity); rbErr != nil {
			log.Error(ctx, "compensating stock decrease", logger.ErrorF(rbErr))
			return fmt.Errorf("%s: %w", op, errors.Join(err, rbErr))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.RecomputeOrderCosts(ctx, line.ServiceOrderID); err != nil {
		log.Error(ctx, "recompute order costs", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *service) ByID(ctx context.Context, lineID uuid.UUID) (*model.OrderPart, error) {
	const op = "orderpart.service.ByID"
	log := logger.With(
		logger.String("order_part_id", lineID.String()),
	)

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	line, err := s.repo.ByID(ctx, lineID)
	if err != nil {
		log.Error(ctx, "repository line by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return line, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*model.OrderPart, error) {
	const op = "orderpart.service.ListByOrder"
	log := logger.With(
		logger.String("order_id", orderID.String()),
	)

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	if _, err := s.orders.OrderByID(ctx, orderID); err != nil {
		log.Error(ctx, "repository order by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out, err := s.repo.ListByOrderID(ctx, orderID)
	if err != nil {
		log.Error(ctx, "repository list lines", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// settleStock moves quantity between the ledger and an order line. A positive
// delta consumes stock, a negative one returns it.
func (s *service) settleStock(ctx context.Context, partID uuid.UUID, delta int64) error {
	if delta > 0 {
		_, err := s.ledger.DecreaseStock(ctx, partID, delta)
		return err
	}

	_, err := s.ledger.IncreaseStock(ctx, partID, -delta)
	return err
}

// RecomputeOrderCosts overwrites the order's parts cost with the sum of its
// live lines and restores total = labor + parts. Safe to call any number of
// times; the result depends only on current rows.
func (s *service) RecomputeOrderCosts(ctx context.Context, orderID uuid.UUID) error {
	const op = "orderpart.service.RecomputeOrderCosts"
	log := logger.With(
		logger.String("order_id", orderID.String()),
	)

	rdbCtx, rdbCancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer rdbCancel()

	ord, err := s.orders.OrderByID(rdbCtx, orderID)
	if err != nil {
		log.Error(ctx, "repository order by id", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	partsCost, err := s.repo.PartsCostByOrderID(rdbCtx, orderID)
	if err != nil {
		log.Error(ctx, "repository parts cost", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	wdbCtx, wdbCancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wdbCancel()

	totalCost := ord.LaborCost.Add(partsCost)
	if err := s.orders.UpdateCosts(wdbCtx, orderID, partsCost, totalCost); err != nil {
		log.Error(ctx, "repository update costs", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
