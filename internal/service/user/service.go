package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
	"github.com/notWeev/warsztat-samochodowy/platform/logger"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, page, limit uint64) ([]*model.User, int64, error)
	Update(ctx context.Context, upd *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo           UserRepository
	readDBTimeout  time.Duration
	writeDBTimeout time.Duration
}

func NewUserService(
	repo UserRepository,
	readDBTimeout time.Duration,
	writeDBTimeout time.Duration,
) *service {
	return &service{
		repo:           repo,
		readDBTimeout:  readDBTimeout,
		writeDBTimeout: writeDBTimeout,
	}
}

func (s *service) Create(ctx context.Context, params model.CreateUserParams) (*model.User, error) {
	const op = "user.service.Create"
	log := logger.With(
		logger.String("email", params.Email),
		logger.String("role", string(params.Role)),
	)

	email := strings.ToLower(strings.TrimSpace(params.Email))
	if err := validateCreateParams(params, email); err != nil {
		log.Error(ctx, "validation", logger.ErrorF(err))
		return nil, err
	}

	rdbCtx, rdbCancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer rdbCancel()

	if _, err := s.repo.UserByEmail(rdbCtx, email); err == nil {
		log.Error(ctx, "email already registered")
		return nil, fmt.Errorf("%s: %w", op, model.ErrEmailTaken)
	} else if !errors.Is(err, model.ErrUserNotFound) {
		log.Error(ctx, "repository user by email", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error(ctx, "hash password", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u := &model.User{
		FirstName:    strings.TrimSpace(params.FirstName),
		LastName:     strings.TrimSpace(params.LastName),
		Email:        email,
		Phone:        params.Phone,
		PasswordHash: string(hash),
		Role:         params.Role,
		Status:       model.UserActive,
	}

	wdbCtx, wdbCancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wdbCancel()

	u, err = s.repo.Create(wdbCtx, u)
	if err != nil {
		log.Error(ctx, "repository create user", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (s *service) UserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const op = "user.service.UserByID"
	log := logger.With(
		logger.String("user_id", id.String()),
	)

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	u, err := s.repo.UserByID(ctx, id)
	if err != nil {
		log.Error(ctx, "repository user by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (s *service) List(ctx context.Context, page, limit int64) ([]*model.User, int64, error) {
	const op = "user.service.List"
	log := logger.With(
		logger.Int64("page", page),
		logger.Int64("limit", limit),
	)

	page, limit = model.NormalizePage(page, limit)

	ctx, cancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer cancel()

	out, total, err := s.repo.List(ctx, uint64(page), uint64(limit))
	if err != nil {
		log.Error(ctx, "repository list users", logger.ErrorF(err))
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return out, total, nil
}

func (s *service) Update(
	ctx context.Context,
	id uuid.UUID,
	params model.UpdateUserParams,
) (*model.User, error) {
	const op = "user.service.Update"
	log := logger.With(
		logger.String("user_id", id.String()),
	)

	rdbCtx, rdbCancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer rdbCancel()

	u, err := s.repo.UserByID(rdbCtx, id)
	if err != nil {
		log.Error(ctx, "repository user by id", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if params.FirstName != nil {
		u.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		u.LastName = *params.LastName
	}
	if params.Phone != nil {
		u.Phone = params.Phone
	}
	if params.Role != nil {
		u.Role = *params.Role
	}
	if params.Status != nil {
		u.Status = *params.Status
	}

	wdbCtx, wdbCancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wdbCancel()

	if err := s.repo.Update(wdbCtx, u); err != nil {
		log.Error(ctx, "repository update user", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "user.service.Delete"
	log := logger.With(
		logger.String("user_id", id.String()),
	)

	ctx, cancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer cancel()

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error(ctx, "repository delete user", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func validateCreateParams(params model.CreateUserParams, email string) error {
	switch {
	case strings.TrimSpace(params.FirstName) == "":
		return errors.Join(model.ErrValidation, errors.New("first name must be non-empty"))
	case strings.TrimSpace(params.LastName) == "":
		return errors.Join(model.ErrValidation, errors.New("last name must be non-empty"))
	case email == "" || !strings.Contains(email, "@"):
		return errors.Join(model.ErrValidation, errors.New("email must be valid"))
	case len(params.Password) < 8:
		return errors.Join(model.ErrValidation, errors.New("password must be at least 8 characters"))
	case params.Role == "":
		return errors.Join(model.ErrValidation, errors.New("role must be non-empty"))
	}
	return nil
}
