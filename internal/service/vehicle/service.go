package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
	"github.com/notWeev/warsztat-samochodowy/platform/logger"
)

const vinLength = 17

type VehicleRepository interface {
	Create(ctx context.Context, v *model.Vehicle) (*model.Vehicle, error)
	VehicleByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	VehicleByVIN(ctx context.Context, vin string) (*model.Vehicle, error)
	ListByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*model.Vehicle, error)
	Update(ctx context.Context, upd *model.Vehicle) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CustomerRepository interface {
	CustomerByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
}

type service struct {
	repo           VehicleRepository
	customers      CustomerRepository
	readDBTimeout  time.Duration
	writeDBTimeout time.Duration
}

func NewVehicleService(
	repo VehicleRepository,
	customers CustomerRepository,
	readDBTimeout time.Duration,
	writeDBTimeout time.Duration,
) *service {
	return &service{
		repo:           repo,
		customers:      customers,
		readDBTimeout:  readDBTimeout,
		writeDBTimeout: writeDBTimeout,
	}
}

func (s *service) Create(ctx context.Context, params model.CreateVehicleParams) (*model.Vehicle, error) {
	const op = "vehicle.service.Create"
	log := logger.With(
		logger.String("customer_id", params.CustomerID.String()),
		logger.String("vin", params.VIN),
	)

	vin := strings.ToUpper(strings.TrimSpace(params.VIN))
	if err := validateCreateParams(params, vin); err != nil {
		log.Error(ctx, "validation", logger.ErrorF(err))
		return nil, err
	}

	rdbCtx, rdbCancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer rdbCancel()

	if _, err := s.customers.CustomerByID(rdbCtx, params.CustomerID); err != nil {
		log.Error(ctx, "repository customer by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.repo.VehicleByVIN(rdbCtx, vin); err == nil {
		log.Error(ctx, "vin already registered")
		return nil, fmt.Errorf("%s: %w", op, model.ErrVINTaken)
	} else if !errors.Is(err, model.ErrVehicleNotFound) {
		log.Error(ctx, "repository vehicle by vin", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	v := &model.Vehicle{
		CustomerID:         params.CustomerID,
		VIN:                vin,
		Brand:              strings.TrimSpace(params.Brand),
		Model:              strings.TrimSpace(params.Model),
		Year:               params.Year,
		RegistrationNumber: params.RegistrationNumber,
		Mileage:            params.Mileage,
		Color:              params.Color,
		Notes:              params.Notes,
	}

	wdbCtx, wdbCancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wdbCancel()

	v, err := s.repo.Create(wdbCtx, v)
	if err != nil {
		log.Error(ctx, "repository create vehicle", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}

func (s *service) VehicleByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	const op = "vehicle.service.VehicleByID"
	log := logger.With(
		logger.String("vehicle_id", id.String()),
	)

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	v, err := s.repo.VehicleByID(ctx, id)
	if err != nil {
		log.Error(ctx, "repository vehicle by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Vehicle, error) {
	const op = "vehicle.service.ListByCustomer"
	log := logger.With(
		logger.String("customer_id", customerID.String()),
	)

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	if _, err := s.customers.CustomerByID(ctx, customerID); err != nil {
		log.Error(ctx, "repository customer by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out, err := s.repo.ListByCustomerID(ctx, customerID)
	if err != nil {
		log.Error(ctx, "repository list vehicles", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *service) Update(
	ctx context.Context,
	id uuid.UUID,
	params model.UpdateVehicleParams,
) (*model.Vehicle, error) {
	const op = "vehicle.service.Update"
	log := logger.With(
		logger.String("vehicle_id", id.String()),
	)

	if params.Mileage != nil && *params.Mileage < 0 {
		log.Error(ctx, "validation: negative mileage")
		return nil, errors.Join(model.ErrValidation, errors.New("mileage must be non-negative"))
	}

	rdbCtx, rdbCancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer rdbCancel()

	v, err := s.repo.VehicleByID(rdbCtx, id)
	if err != nil {
		log.Error(ctx, "repository vehicle by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if params.RegistrationNumber != nil {
		v.RegistrationNumber = params.RegistrationNumber
	}
	if params.Mileage != nil {
		v.Mileage = *params.Mileage
	}
	if params.Color != nil {
		v.Color = params.Color
	}
	if params.Notes != nil {
		v.Notes = params.Notes
	}

	wdbCtx, wdbCancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wdbCancel()

	if err := s.repo.Update(wdbCtx, v); err != nil {
		log.Error(ctx, "repository update vehicle", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "vehicle.service.Delete"
	log := logger.With(
		logger.String("vehicle_id", id.String()),
	)

	ctx, cancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer cancel()

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error(ctx, "repository delete vehicle", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func validateCreateParams(params model.CreateVehicleParams, vin string) error {
	switch {
	case len(vin) != vinLength:
		return errors.Join(model.ErrValidation, errors.New("vin must be 17 characters"))
	case strings.TrimSpace(params.Brand) == "":
		return errors.Join(model.ErrValidation, errors.New("brand must be non-empty"))
	case strings.TrimSpace(params.Model) == "":
		return errors.Join(model.ErrValidation, errors.New("model must be non-empty"))
	case params.Year < 1900 || params.Year > int64(time.Now().Year())+1:
		return errors.Join(model.ErrValidation, errors.New("year out of range"))
	case params.Mileage < 0:
		return errors.Join(model.ErrValidation, errors.New("mileage must be non-negative"))
	}
	return nil
}
