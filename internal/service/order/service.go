package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
	"github.com/notWeev/warsztat-samochodowy/platform/logger"
)

const (
	orderNumberPrefix   = "WS"
	orderNumberAttempts = 3
)

type OrderRepository interface {
	Create(ctx context.Context, ord *model.ServiceOrder) (*model.ServiceOrder, error)
	OrderByID(ctx context.Context, id uuid.UUID) (*model.ServiceOrder, error)
	OrderByNumber(ctx context.Context, orderNumber string) (*model.ServiceOrder, error)
	LastOrderNumber(ctx context.Context, prefix string) (string, error)
	List(ctx context.Context, filter model.OrdersFilter, page, limit uint64) ([]*model.ServiceOrder, int64, error)
	Update(ctx context.Context, upd *model.ServiceOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*model.OrderStats, error)
}

type CustomerRepository interface {
	CustomerByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
}

type VehicleRepository interface {
	VehicleByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
}

type UserRepository interface {
	UserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type OrderCompletedSender interface {
	SendOrderCompleted(ctx context.Context, event model.OrderCompleted) error
}

type service struct {
	repo           OrderRepository
	customers      CustomerRepository
	vehicles       VehicleRepository
	users          UserRepository
	events         OrderCompletedSender
	readDBTimeout  time.Duration
	writeDBTimeout time.Duration
}

func NewOrderService(
	repo OrderRepository,
	customers CustomerRepository,
	vehicles VehicleRepository,
	users UserRepository,
	events OrderCompletedSender,
	readDBTimeout time.Duration,
	writeDBTimeout time.Duration,
) *service {
	return &service{
		repo:           repo,
		customers:      customers,
		vehicles:       vehicles,
		users:          users,
		events:         events,
		readDBTimeout:  readDBTimeout,
		writeDBTimeout: writeDBTimeout,
	}
}

func (s *service) Create(ctx context.Context, params model.CreateOrderParams) (*model.ServiceOrder, error) {
	const op = "order.service.Create"
	log := logger.With(
		logger.String("customer_id", params.CustomerID.String()),
		logger.String("vehicle_id", params.VehicleID.String()),
	)

	if strings.TrimSpace(params.Description) == "" {
		log.Error(ctx, "validation: empty description")
		return nil, errors.Join(model.ErrValidation, errors.New("description must be non-empty"))
	}

	rdbCtx, rdbCancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer rdbCancel()

	if _, err := s.customers.CustomerByID(rdbCtx, params.CustomerID); err != nil {
		log.Error(ctx, "repository customer by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	vehicle, err := s.vehicles.VehicleByID(rdbCtx, params.VehicleID)
	if err != nil {
		log.Error(ctx, "repository vehicle by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if vehicle.CustomerID != params.CustomerID {
		log.Error(ctx, "vehicle owned by another customer",
			logger.String("owner_id", vehicle.CustomerID.String()),
		)
		return nil, fmt.Errorf("%s: %w", op, model.ErrOwnershipMismatch)
	}

	if params.AssignedMechanicID != nil {
		mech, err := s.users.UserByID(rdbCtx, *params.AssignedMechanicID)
		if err != nil {
			log.Error(ctx, "repository mechanic by id", logger.ErrorF(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if mech.Role != model.RoleMechanic {
			log.Error(ctx, "assignee is not a mechanic", logger.String("role", string(mech.Role)))
			return nil, errors.Join(model.ErrValidation, errors.New("assignee must have the MECHANIC role"))
		}
	}

	priority := params.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}

	wdbCtx, wdbCancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wdbCancel()

	// Number generation is a read-then-insert; a concurrent create can take
	// the same number first, so a unique clash re-reads and tries again.
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		number, err := s.generateOrderNumber(rdbCtx)
		if err != nil {
			log.Error(ctx, "generate order number", logger.ErrorF(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		ord := &model.ServiceOrder{
			OrderNumber:         number,
			CustomerID:          params.CustomerID,
			VehicleID:           params.VehicleID,
			AssignedMechanicID:  params.AssignedMechanicID,
			Description:         params.Description,
			Status:              model.StatusPending,
			Priority:            priority,
			ScheduledAt:         params.ScheduledAt,
			MileageAtAcceptance: params.MileageAtAcceptance,
			LaborCost:           decimal.Zero,
			PartsCost:           decimal.Zero,
			TotalCost:           decimal.Zero,
			InternalNotes:       params.InternalNotes,
		}

		ord, err = s.repo.Create(wdbCtx, ord)
		if errors.Is(err, model.ErrOrderNumberConflict) {
			log.Warn(ctx, "order number taken, retrying", logger.String("order_number", number))
			continue
		}
		if err != nil {
			log.Error(ctx, "repository create order", logger.ErrorF(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return ord, nil
	}

	log.Error(ctx, "order number attempts exhausted")
	return nil, fmt.Errorf("%s: %w", op, model.ErrOrderNumberConflict)
}

func (s *service) OrderByID(ctx context.Context, id uuid.UUID) (*model.ServiceOrder, error) {
	const op = "order.service.OrderByID"
	log := logger.With(
		logger.String("order_id", id.String()),
	)

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	ord, err := s.repo.OrderByID(ctx, id)
	if err != nil {
		log.Error(ctx, "repository order by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ord, nil
}

func (s *service) OrderByNumber(ctx context.Context, number string) (*model.ServiceOrder, error) {
	const op = "order.service.OrderByNumber"
	log := logger.With(
		logger.String("order_number", number),
	)

	number = strings.TrimSpace(number)
	if number == "" {
		log.Error(ctx, "validation: empty order number")
		return nil, errors.Join(model.ErrValidation, errors.New("order number must be non-empty"))
	}

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	ord, err := s.repo.OrderByNumber(ctx, number)
	if err != nil {
		log.Error(ctx, "repository order by number", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ord, nil
}

func (s *service) List(
	ctx context.Context,
	filter model.OrdersFilter,
	page, limit int64,
) (*model.OrderList, error) {
	const op = "order.service.List"
	log := logger.With(
		logger.Int64("page", page),
		logger.Int64("limit", limit),
	)

	page, limit = model.NormalizePage(page, limit)

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	items, total, err := s.repo.List(ctx, filter, uint64(page), uint64(limit))
	if err != nil {
		log.Error(ctx, "repository list orders", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &model.OrderList{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *service) Update(
	ctx context.Context,
	id uuid.UUID,
	params model.UpdateOrderParams,
) (*model.ServiceOrder, error) {
	const op = "order.service.Update"
	log := logger.With(
		logger.String("order_id", id.String()),
	)

	rdbCtx, rdbCancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer rdbCancel()

	ord, err := s.repo.OrderByID(rdbCtx, id)
	if err != nil {
		log.Error(ctx, "repository order by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	completed := false
	if params.Status != nil && *params.Status != ord.Status {
		if !ord.Status.CanTransitionTo(*params.Status) {
			log.Error(ctx, "transition not allowed",
				logger.String("from", string(ord.Status)),
				logger.String("to", string(*params.Status)),
			)
			return nil, fmt.Errorf("%s: %w", op, model.ErrStatusTransition)
		}

		now := time.Now()
		switch *params.Status {
		case model.StatusInProgress:
			if ord.StartedAt == nil {
				ord.StartedAt = &now
			}
		case model.StatusCompleted:
			ord.CompletedAt = &now
			completed = true
		case model.StatusClosed:
			ord.ClosedAt = &now
		}
		ord.Status = *params.Status
	}

	if params.AssignedMechanicID != nil {
		mech, err := s.users.UserByID(rdbCtx, *params.AssignedMechanicID)
		if err != nil {
			log.Error(ctx, "repository mechanic by id", logger.ErrorF(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if mech.Role != model.RoleMechanic {
			log.Error(ctx, "assignee is not a mechanic", logger.String("role", string(mech.Role)))
			return nil, errors.Join(model.ErrValidation, errors.New("assignee must have the MECHANIC role"))
		}
		ord.AssignedMechanicID = params.AssignedMechanicID
	}

	if params.Description != nil {
		ord.Description = *params.Description
	}
	if params.Priority != nil {
		ord.Priority = *params.Priority
	}
	if params.ScheduledAt != nil {
		ord.ScheduledAt = params.ScheduledAt
	}
	if params.MileageAtAcceptance != nil {
		ord.MileageAtAcceptance = params.MileageAtAcceptance
	}
	if params.LaborCost != nil {
		if params.LaborCost.LessThan(decimal.Zero) {
			log.Error(ctx, "validation: negative labor cost")
			return nil, errors.Join(model.ErrValidation, errors.New("labor cost must be non-negative"))
		}
		ord.LaborCost = *params.LaborCost
	}
	if params.MechanicNotes != nil {
		ord.MechanicNotes = params.MechanicNotes
	}
	if params.InternalNotes != nil {
		ord.InternalNotes = params.InternalNotes
	}

	ord.TotalCost = ord.LaborCost.Add(ord.PartsCost)

	wdbCtx, wdbCancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wdbCancel()

	if err := s.repo.Update(wdbCtx, ord); err != nil {
		log.Error(ctx, "repository update order", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if completed {
		// Best effort: a broker outage must not fail the status change.
		event := model.OrderCompleted{
			EventID:     uuid.New(),
			OrderID:     ord.ID,
			OrderNumber: ord.OrderNumber,
			CustomerID:  ord.CustomerID,
			VehicleID:   ord.VehicleID,
			TotalCost:   ord.TotalCost,
			CompletedAt: *ord.CompletedAt,
		}
		if err := s.events.SendOrderCompleted(ctx, event); err != nil {
			log.Error(ctx, "send order completed event", logger.ErrorF(err))
		}
	}

	return ord, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "order.service.Delete"
	log := logger.With(
		logger.String("order_id", id.String()),
	)

	ctx, cancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer cancel()

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error(ctx, "repository delete order", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *service) Stats(ctx context.Context) (*model.OrderStats, error) {
	const op = "order.service.Stats"

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	st, err := s.repo.Stats(ctx)
	if err != nil {
		logger.Error(ctx, "repository order stats", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return st, nil
}

// generateOrderNumber produces the next number in the WS-<year>-NNNNN
// sequence, restarting the counter every year.
func (s *service) generateOrderNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", orderNumberPrefix, time.Now().Year())

	last, err := s.repo.LastOrderNumber(ctx, prefix)
	if err != nil {
		return "", err
	}

	next := 1
	if last != "" {
		var seq int
		if _, err := fmt.Sscanf(strings.TrimPrefix(last, prefix), "%d", &seq); err != nil {
			return "", fmt.Errorf("malformed order number %q: %w", last, err)
		}
		next = seq + 1
	}

	return fmt.Sprintf("%s%05d", prefix, next), nil
}
