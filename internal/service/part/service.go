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

const defaultMinStockLevel int64 = 5

type PartRepository interface {
	Create(ctx context.Context, p *model.Part) (*model.Part, error)
	PartByID(ctx context.Context, id uuid.UUID) (*model.Part, error)
	PartByNumber(ctx context.Context, partNumber string) (*model.Part, error)
	List(ctx context.Context, filter model.PartsFilter, page, limit uint64) ([]*model.Part, int64, error)
	Update(ctx context.Context, upd *model.Part) error
	AdjustStock(ctx context.Context, id uuid.UUID, delta int64) (*model.Part, error)
	Delete(ctx context.Context, id uuid.UUID) error
	LowStock(ctx context.Context) ([]*model.Part, error)
	Stats(ctx context.Context) (*model.PartStats, error)
}

type service struct {
	repo           PartRepository
	readDBTimeout  time.Duration
	writeDBTimeout time.Duration
}

func NewPartService(
	repo PartRepository,
	readDBTimeout time.Duration,
	writeDBTimeout time.Duration,
) *service {
	return &service{
		repo:           repo,
		readDBTimeout:  readDBTimeout,
		writeDBTimeout: writeDBTimeout,
	}
}

func (s *service) Create(ctx context.Context, params model.CreatePartParams) (*model.Part, error) {
	const op = "part.service.Create"
	log := logger.With(
		logger.String("part_number", params.PartNumber),
	)

	if err := validateCreateParams(params); err != nil {
		log.Error(ctx, "validation", logger.ErrorF(err))
		return nil, err
	}

	rdbCtx, rdbCancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer rdbCancel()

	if _, err := s.repo.PartByNumber(rdbCtx, params.PartNumber); err == nil {
		log.Error(ctx, "part number already in use")
		return nil, fmt.Errorf("%s: %w", op, model.ErrPartNumberTaken)
	} else if !errors.Is(err, model.ErrPartNotFound) {
		log.Error(ctx, "repository part by number", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	minStock := defaultMinStockLevel
	if params.MinStockLevel != nil {
		minStock = *params.MinStockLevel
	}

	p := &model.Part{
		PartNumber:         strings.TrimSpace(params.PartNumber),
		Name:               strings.TrimSpace(params.Name),
		Description:        params.Description,
		Category:           params.Category,
		Manufacturer:       params.Manufacturer,
		Brand:              params.Brand,
		PurchasePrice:      params.PurchasePrice,
		SellingPrice:       params.SellingPrice,
		QuantityInStock:    params.QuantityInStock,
		MinStockLevel:      minStock,
		Location:           params.Location,
		Status:             model.DeriveStatus(params.QuantityInStock, minStock, ""),
		Supplier:           params.Supplier,
		SupplierEmail:      params.SupplierEmail,
		SupplierPhone:      params.SupplierPhone,
		CompatibleVehicles: params.CompatibleVehicles,
		Notes:              params.Notes,
	}

	wdbCtx, wdbCancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wdbCancel()

	p, err := s.repo.Create(wdbCtx, p)
	if err != nil {
		log.Error(ctx, "repository create part", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (s *service) PartByID(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	const op = "part.service.PartByID"
	log := logger.With(
		logger.String("part_id", id.String()),
	)

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	p, err := s.repo.PartByID(ctx, id)
	if err != nil {
		log.Error(ctx, "repository part by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (s *service) List(
	ctx context.Context,
	filter model.PartsFilter,
	page, limit int64,
) (*model.PartList, error) {
	const op = "part.service.List"
	log := logger.With(
		logger.Int64("page", page),
		logger.Int64("limit", limit),
	)

	page, limit = model.NormalizePage(page, limit)

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	items, total, err := s.repo.List(ctx, filter, uint64(page), uint64(limit))
	if err != nil {
		log.Error(ctx, "repository list parts", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &model.PartList{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *service) Update(
	ctx context.Context,
	id uuid.UUID,
	params model.UpdatePartParams,
) (*model.Part, error) {
	const op = "part.service.Update"
	log := logger.With(
		logger.String("part_id", id.String()),
	)

	rdbCtx, rdbCancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer rdbCancel()

	p, err := s.repo.PartByID(rdbCtx, id)
	if err != nil {
		log.Error(ctx, "repository part by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	applyPartUpdate(p, params)

	if params.Status != nil {
		// Explicit override wins; DISCONTINUED can only be set or cleared here.
		p.Status = *params.Status
		if p.Status != model.PartStatusDiscontinued {
			p.Status = model.DeriveStatus(p.QuantityInStock, p.MinStockLevel, "")
		}
	} else {
		p.Status = model.DeriveStatus(p.QuantityInStock, p.MinStockLevel, p.Status)
	}

	wdbCtx, wdbCancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wdbCancel()

	if err := s.repo.Update(wdbCtx, p); err != nil {
		log.Error(ctx, "repository update part", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "part.service.Delete"
	log := logger.With(
		logger.String("part_id", id.String()),
	)

	ctx, cancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer cancel()

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error(ctx, "repository delete part", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// IncreaseStock adds quantity units to the part's stock and returns the part
// with its recomputed status.
func (s *service) IncreaseStock(ctx context.Context, id uuid.UUID, quantity int64) (*model.Part, error) {
	const op = "part.service.IncreaseStock"
	log := logger.With(
		logger.String("part_id", id.String()),
		logger.Int64("quantity", quantity),
	)

	if quantity <= 0 {
		log.Error(ctx, "validation: non-positive quantity")
		return nil, errors.Join(model.ErrValidation, errors.New("quantity must be positive"))
	}

	ctx, cancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer cancel()

	p, err := s.repo.AdjustStock(ctx, id, quantity)
	if err != nil {
		log.Error(ctx, "repository adjust stock", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// DecreaseStock removes quantity units from the part's stock. It fails with
// ErrInsufficientStock when the part holds fewer units than requested; stock
// never goes negative even under concurrent decrements.
func (s *service) DecreaseStock(ctx context.Context, id uuid.UUID, quantity int64) (*model.Part, error) {
	const op = "part.service.DecreaseStock"
	log := logger.With(
		logger.String("part_id", id.String()),
		logger.Int64("quantity", quantity),
	)

	if quantity <= 0 {
		log.Error(ctx, "validation: non-positive quantity")
		return nil, errors.Join(model.ErrValidation, errors.New("quantity must be positive"))
	}

	ctx, cancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer cancel()

	p, err := s.repo.AdjustStock(ctx, id, -quantity)
	if err != nil {
		if errors.Is(err, model.ErrInsufficientStock) {
			log.Warn(ctx, "insufficient stock")
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Error(ctx, "repository adjust stock", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (s *service) LowStockParts(ctx context.Context) ([]*model.Part, error) {
	const op = "part.service.LowStockParts"

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	out, err := s.repo.LowStock(ctx)
	if err != nil {
		logger.Error(ctx, "repository low stock", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *service) Stats(ctx context.Context) (*model.PartStats, error) {
	const op = "part.service.Stats"

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	st, err := s.repo.Stats(ctx)
	if err != nil {
		logger.Error(ctx, "repository part stats", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return st, nil
}

func validateCreateParams(params model.CreatePartParams) error {
	switch {
	case strings.TrimSpace(params.PartNumber) == "":
		return errors.Join(model.ErrValidation, errors.New("part number must be non-empty"))
	case strings.TrimSpace(params.Name) == "":
		return errors.Join(model.ErrValidation, errors.New("name must be non-empty"))
	case params.Category == "":
		return errors.Join(model.ErrValidation, errors.New("category must be non-empty"))
	case params.PurchasePrice.LessThan(decimal.Zero):
		return errors.Join(model.ErrValidation, errors.New("purchase price must be non-negative"))
	case params.SellingPrice.LessThan(decimal.Zero):
		return errors.Join(model.ErrValidation, errors.New("selling price must be non-negative"))
	case params.QuantityInStock < 0:
		return errors.Join(model.ErrValidation, errors.New("quantity must be non-negative"))
	case params.MinStockLevel != nil && *params.MinStockLevel < 0:
		return errors.Join(model.ErrValidation, errors.New("min stock level must be non-negative"))
	}
	return nil
}

func applyPartUpdate(p *model.Part, params model.UpdatePartParams) {
	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Description != nil {
		p.Description = params.Description
	}
	if params.Category != nil {
		p.Category = *params.Category
	}
	if params.Manufacturer != nil {
		p.Manufacturer = params.Manufacturer
	}
	if params.Brand != nil {
		p.Brand = params.Brand
	}
	if params.PurchasePrice != nil {
		p.PurchasePrice = *params.PurchasePrice
	}
	if params.SellingPrice != nil {
		p.SellingPrice = *params.SellingPrice
	}
	if params.MinStockLevel != nil {
		p.MinStockLevel = *params.MinStockLevel
	}
	if params.Location != nil {
		p.Location = params.Location
	}
	if params.Supplier != nil {
		p.Supplier = params.Supplier
	}
	if params.SupplierEmail != nil {
		p.SupplierEmail = params.SupplierEmail
	}
	if params.SupplierPhone != nil {
		p.SupplierPhone = params.SupplierPhone
	}
	if params.CompatibleVehicles != nil {
		p.CompatibleVehicles = params.CompatibleVehicles
	}
	if params.Notes != nil {
		p.Notes = params.Notes
	}
}
