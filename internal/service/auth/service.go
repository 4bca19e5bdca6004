package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
	"github.com/notWeev/warsztat-samochodowy/platform/logger"
)

type UserRepository interface {
	UserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, upd *model.User) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type service struct {
	repo           UserRepository
	secret         []byte
	tokenTTL       time.Duration
	readDBTimeout  time.Duration
	writeDBTimeout time.Duration
}

func NewAuthService(
	repo UserRepository,
	secret string,
	tokenTTL time.Duration,
	readDBTimeout time.Duration,
	writeDBTimeout time.Duration,
) *service {
	return &service{
		repo:           repo,
		secret:         []byte(secret),
		tokenTTL:       tokenTTL,
		readDBTimeout:  readDBTimeout,
		writeDBTimeout: writeDBTimeout,
	}
}

// Login checks the credentials and issues a signed token. Inactive and
// suspended accounts are rejected the same way as a wrong password.
func (s *service) Login(ctx context.Context, email, password string) (*model.AuthResult, error) {
	const op = "auth.service.Login"
	log := logger.With(
		logger.String("email", email),
	)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		log.Error(ctx, "validation: empty credentials")
		return nil, errors.Join(model.ErrValidation, errors.New("email and password must be non-empty"))
	}

	rdbCtx, rdbCancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer rdbCancel()

	u, err := s.repo.UserByEmail(rdbCtx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			log.Warn(ctx, "unknown email")
			return nil, fmt.Errorf("%s: %w", op, model.ErrUnauthorized)
		}
		log.Error(ctx, "repository user by email", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if u.Status != model.UserActive {
		log.Warn(ctx, "account not active", logger.String("status", string(u.Status)))
		return nil, fmt.Errorf("%s: %w", op, model.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		log.Warn(ctx, "wrong password")
		return nil, fmt.Errorf("%s: %w", op, model.ErrUnauthorized)
	}

	token, expiresAt, err := s.issueToken(u)
	if err != nil {
		log.Error(ctx, "issue token", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	wdbCtx, wdbCancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wdbCancel()

	now := time.Now()
	if err := s.repo.UpdateLastLogin(wdbCtx, u.ID, now); err != nil {
		log.Error(ctx, "repository update last login", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u.LastLoginAt = &now

	return &model.AuthResult{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	const op = "auth.service.ChangePassword"
	log := logger.With(
		logger.String("user_id", userID.String()),
	)

	if len(next) < 8 {
		log.Error(ctx, "validation: short password")
		return errors.Join(model.ErrValidation, errors.New("password must be at least 8 characters"))
	}

	rdbCtx, rdbCancel := context.WithTimeout(ctx, s.readDBTimeout)
	defer rdbCancel()

	u, err := s.repo.UserByID(rdbCtx, userID)
	if err != nil {
		log.Error(ctx, "repository user by id", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		log.Warn(ctx, "wrong current password")
		return fmt.Errorf("%s: %w", op, model.ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		log.Error(ctx, "hash password", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	u.PasswordHash = string(hash)

	wdbCtx, wdbCancel := context.WithTimeout(ctx, s.writeDBTimeout)
	defer wdbCancel()

	if err := s.repo.Update(wdbCtx, u); err != nil {
		log.Error(ctx, "repository update user", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// VerifyToken parses and validates a token and returns the embedded identity.
func (s *service) VerifyToken(ctx context.Context, tokenStr string) (*model.TokenClaims, error) {
	const op = "auth.service.VerifyToken"

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		logger.Warn(ctx, "invalid token", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, model.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, model.ErrUnauthorized)
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, model.ErrUnauthorized)
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &model.TokenClaims{
		UserID: userID,
		Email:  email,
		Role:   model.UserRole(role),
	}, nil
}

func (s *service) issueToken(u *model.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   u.ID.String(),
		"email": u.Email,
		"role":  string(u.Role),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}
