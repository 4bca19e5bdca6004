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

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) (*model.Customer, error)
	CustomerByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	List(ctx context.Context, filter model.CustomersFilter, page, limit uint64) ([]*model.Customer, int64, error)
	Update(ctx context.Context, upd *model.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo           CustomerRepository
	readDBTimeout  time.Duration
	writeDBTimeout time.Duration
}

func NewCustomerService(
	repo CustomerRepository,
	readDBTimeout time.Duration,
	writeDBTimeout time.Duration,
) *service {
	return &service{
		repo:           repo,
		readDBTimeout:  readDBTimeout,
		writeDBTimeout: writeDBTimeout,
	}
}

func (s *service) Create(ctx context.Context, params model.CreateCustomerParams) (*model.Customer, error) {
	const op = "customer.service.Create"
	log := logger.With(
		logger.String("customer_type", string(params.Type)),
	)

	if err := validateCreateParams(params); err != nil {
		log.Error(ctx, "validation", logger.ErrorF(err))
		return nil, err
	}

	c := &model.Customer{
		Type:        params.Type,
		FirstName:   strings.TrimSpace(params.FirstName),
		LastName:    strings.TrimSpace(params.LastName),
		Email:       params.Email,
		Phone:       strings.TrimSpace(params.Phone),
		Street:      params.Street,
		PostalCode:  params.PostalCode,
		City:        params.City,
		Pesel:       params.Pesel,
		Nip:         params.Nip,
		CompanyName: params.CompanyName,
		Notes:       params.Notes,
	}

	ctx, cancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer cancel()

	c, err := s.repo.Create(ctx, c)
	if err != nil {
		log.Error(ctx, "repository create customer", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s *service) CustomerByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	const op = "customer.service.CustomerByID"
	log := logger.With(
		logger.String("customer_id", id.String()),
	)

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	c, err := s.repo.CustomerByID(ctx, id)
	if err != nil {
		log.Error(ctx, "repository customer by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s *service) List(
	ctx context.Context,
	filter model.CustomersFilter,
	page, limit int64,
) (*model.CustomerList, error) {
	const op = "customer.service.List"
	log := logger.With(
		logger.Int64("page", page),
		logger.Int64("limit", limit),
	)

	page, limit = model.NormalizePage(page, limit)

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	items, total, err := s.repo.List(ctx, filter, uint64(page), uint64(limit))
	if err != nil {
		log.Error(ctx, "repository list customers", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &model.CustomerList{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *service) Update(
	ctx context.Context,
	id uuid.UUID,
	params model.UpdateCustomerParams,
) (*model.Customer, error) {
	const op = "customer.service.Update"
	log := logger.With(
		logger.String("customer_id", id.String()),
	)

	rdbCtx, rdbCancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer rdbCancel()

	c, err := s.repo.CustomerByID(rdbCtx, id)
	if err != nil {
		log.Error(ctx, "repository customer by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	applyCustomerUpdate(c, params)

	wdbCtx, wdbCancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wdbCancel()

	if err := s.repo.Update(wdbCtx, c); err != nil {
		log.Error(ctx, "repository update customer", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "customer.service.Delete"
	log := logger.With(
		logger.String("customer_id", id.String()),
	)

	ctx, cancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer cancel()

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error(ctx, "repository delete customer", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func validateCreateParams(params model.CreateCustomerParams) error {
	switch {
	case params.Type != model.CustomerIndividual && params.Type != model.CustomerBusiness:
		return errors.Join(model.ErrValidation, errors.New("unknown customer type"))
	case strings.TrimSpace(params.FirstName) == "":
		return errors.Join(model.ErrValidation, errors.New("first name must be non-empty"))
	case strings.TrimSpace(params.LastName) == "":
		return errors.Join(model.ErrValidation, errors.New("last name must be non-empty"))
	case strings.TrimSpace(params.Phone) == "":
		return errors.Join(model.ErrValidation, errors.New("phone must be non-empty"))
	case params.Type == model.CustomerBusiness && params.Nip == nil:
		return errors.Join(model.ErrValidation, errors.New("business customer requires a NIP"))
	}
	return nil
}

func applyCustomerUpdate(c *model.Customer, params model.UpdateCustomerParams) {
	if params.Type != nil {
		c.Type = *params.Type
	}
	if params.FirstName != nil {
		c.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		c.LastName = *params.LastName
	}
	if params.Email != nil {
		c.Email = params.Email
	}
	if params.Phone != nil {
		c.Phone = *params.Phone
	}
	if params.Street != nil {
		c.Street = params.Street
	}
	if params.PostalCode != nil {
		c.PostalCode = params.PostalCode
	}
	if params.City != nil {
		c.City = params.City
	}
	if params.Pesel != nil {
		c.Pesel = params.Pesel
	}
	if params.Nip != nil {
		c.Nip = params.Nip
	}
	if params.CompanyName != nil {
		c.CompanyName = params.CompanyName
	}
	if params.Notes != nil {
		c.Notes = params.Notes
	}
}
