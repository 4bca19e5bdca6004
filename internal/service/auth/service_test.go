package service

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
	"github.com/notWeev/warsztat-samochodowy/internal/service/mocks"
)

const testSecret = "test-secret-at-least-32-characters"

func hashPassword(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestServiceLogin(t *testing.T) {
	t.Parallel()

	type deps struct {
		repository *mocks.MockUserRepository
	}

	newSvc := func(d deps) *service {
		return NewAuthService(d.repository, testSecret, time.Hour, time.Second, time.Second)
	}

	userID := uuid.New()
	email := "mechanic@example.com"
	password := gofakeit.Password(true, true, true, false, false, 12)

	activeUser := func(t *testing.T) *model.User {
		return &model.User{
			ID:           userID,
			Email:        email,
			PasswordHash: hashPassword(t, password),
			Role:         model.RoleMechanic,
			Status:       model.UserActive,
		}
	}

	type testCase struct {
		name     string
		email    string
		password string
		setup    func(t *testing.T, d deps)
		assert   func(t *testing.T, res *model.AuthResult, err error, d deps)
	}

	tests := []testCase{
		{
			name:     "validation error: empty credentials",
			email:    "",
			password: "",
			setup:    func(t *testing.T, d deps) {},
			assert: func(t *testing.T, res *model.AuthResult, err error, d deps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrValidation)
				assert.Nil(t, res)
			},
		},
		{
			name:     "unknown email maps to unauthorized",
			email:    email,
			password: password,
			setup: func(t *testing.T, d deps) {
				d.repository.
					On("UserByEmail", mock.Anything, email).
					Return((*model.User)(nil), model.ErrUserNotFound).
					Once()
			},
			assert: func(t *testing.T, res *model.AuthResult, err error, d deps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrUnauthorized)
				assert.NotErrorIs(t, err, model.ErrUserNotFound)
				assert.Nil(t, res)
			},
		},
		{
			name:     "suspended account is rejected",
			email:    email,
			password: password,
			setup: func(t *testing.T, d deps) {
				u := activeUser(t)
				u.Status = model.UserSuspended
				d.repository.
					On("UserByEmail", mock.Anything, email).
					Return(u, nil).
					Once()
			},
			assert: func(t *testing.T, res *model.AuthResult, err error, d deps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrUnauthorized)
				assert.Nil(t, res)
			},
		},
		{
			name:     "wrong password is rejected",
			email:    email,
			password: "not-the-password",
			setup: func(t *testing.T, d deps) {
				d.repository.
					On("UserByEmail", mock.Anything, email).
					Return(activeUser(t), nil).
					Once()
			},
			assert: func(t *testing.T, res *model.AuthResult, err error, d deps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrUnauthorized)
				assert.Nil(t, res)

				d.repository.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name:     "email is normalized before the lookup",
			email:    "  Mechanic@Example.COM ",
			password: password,
			setup: func(t *testing.T, d deps) {
				d.repository.
					On("UserByEmail", mock.Anything, email).
					Return(activeUser(t), nil).
					Once()
				d.repository.
					On("UpdateLastLogin", mock.Anything, userID, mock.Anything).
					Return(nil).
					Once()
			},
			assert: func(t *testing.T, res *model.AuthResult, err error, d deps) {
				require.NoError(t, err)
				require.NotNil(t, res)
			},
		},
		{
			name:     "success: token round-trips through verification",
			email:    email,
			password: password,
			setup: func(t *testing.T, d deps) {
				d.repository.
					On("UserByEmail", mock.Anything, email).
					Return(activeUser(t), nil).
					Once()
				d.repository.
					On("UpdateLastLogin", mock.Anything, userID, mock.Anything).
					Return(nil).
					Once()
			},
			assert: func(t *testing.T, res *model.AuthResult, err error, d deps) {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.NotEmpty(t, res.Token)
				assert.NotNil(t, res.User.LastLoginAt)
				assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, time.Minute)

				claims, err := newSvc(d).VerifyToken(context.Background(), res.Token)
				require.NoError(t, err)
				assert.Equal(t, userID, claims.UserID)
				assert.Equal(t, email, claims.Email)
				assert.Equal(t, model.RoleMechanic, claims.Role)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := deps{
				repository: mocks.NewMockUserRepository(t),
			}
			if tt.setup != nil {
				tt.setup(t, d)
			}

			svc := newSvc(d)

			res, err := svc.Login(context.Background(), tt.email, tt.password)
			tt.assert(t, res, err, d)
		})
	}
}

func TestServiceVerifyToken(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockUserRepository(t)
	svc := NewAuthService(repo, testSecret, time.Hour, time.Second, time.Second)

	t.Run("garbage token", func(t *testing.T) {
		claims, err := svc.VerifyToken(context.Background(), "not.a.token")
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrUnauthorized)
		assert.Nil(t, claims)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewAuthService(repo, "a-completely-different-secret-value", time.Hour, time.Second, time.Second)
		token, _, err := other.issueToken(&model.User{
			ID:    uuid.New(),
			Email: gofakeit.Email(),
			Role:  model.RoleAdmin,
		})
		require.NoError(t, err)

		claims, err := svc.VerifyToken(context.Background(), token)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrUnauthorized)
		assert.Nil(t, claims)
	})

	t.Run("expired token", func(t *testing.T) {
		short := NewAuthService(repo, testSecret, -time.Minute, time.Second, time.Second)
		token, _, err := short.issueToken(&model.User{
			ID:    uuid.New(),
			Email: gofakeit.Email(),
			Role:  model.RoleMechanic,
		})
		require.NoError(t, err)

		claims, err := svc.VerifyToken(context.Background(), token)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrUnauthorized)
		assert.Nil(t, claims)
	})
}

func TestServiceChangePassword(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	current := "old-password-123"

	type deps struct {
		repository *mocks.MockUserRepository
	}

	newSvc := func(d deps) *service {
		return NewAuthService(d.repository, testSecret, time.Hour, time.Second, time.Second)
	}

	type testCase struct {
		name     string
		current  string
		next     string
		setup    func(t *testing.T, d deps)
		assert   func(t *testing.T, err error, d deps)
	}

	tests := []testCase{
		{
			name:    "validation error: short new password",
			current: current,
			next:    "short",
			setup:   func(t *testing.T, d deps) {},
			assert: func(t *testing.T, err error, d deps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrValidation)
			},
		},
		{
			name:    "wrong current password",
			current: "not-the-current-one",
			next:    "brand-new-password",
			setup: func(t *testing.T, d deps) {
				d.repository.
					On("UserByID", mock.Anything, userID).
					Return(&model.User{
						ID:           userID,
						PasswordHash: hashPassword(t, current),
						Status:       model.UserActive,
					}, nil).
					Once()
			},
			assert: func(t *testing.T, err error, d deps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrUnauthorized)

				d.repository.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			},
		},
		{
			name:    "success: stores a fresh hash",
			current: current,
			next:    "brand-new-password",
			setup: func(t *testing.T, d deps) {
				d.repository.
					On("UserByID", mock.Anything, userID).
					Return(&model.User{
						ID:           userID,
						PasswordHash: hashPassword(t, current),
						Status:       model.UserActive,
					}, nil).
					Once()
				d.repository.
					On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
						return bcrypt.CompareHashAndPassword(
							[]byte(u.PasswordHash), []byte("brand-new-password"),
						) == nil
					})).
					Return(nil).
					Once()
			},
			assert: func(t *testing.T, err error, d deps) {
				require.NoError(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := deps{
				repository: mocks.NewMockUserRepository(t),
			}
			if tt.setup != nil {
				tt.setup(t, d)
			}

			svc := newSvc(d)

			err := svc.ChangePassword(context.Background(), userID, tt.current, tt.next)
			tt.assert(t, err, d)
		})
	}
}
