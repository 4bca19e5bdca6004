package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
)

type verifierFunc func(ctx context.Context, token string) (*model.TokenClaims, error)

func (f verifierFunc) VerifyToken(ctx context.Context, token string) (*model.TokenClaims, error) {
	return f(ctx, token)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	claims := &model.TokenClaims{
		UserID: uuid.New(),
		Email:  "mechanic@example.com",
		Role:   model.RoleMechanic,
	}

	verifier := verifierFunc(func(_ context.Context, token string) (*model.TokenClaims, error) {
		if token == "good-token" {
			return claims, nil
		}
		return nil, model.ErrUnauthorized
	})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, claims, got)
		w.WriteHeader(http.StatusOK)
	})

	handler := Authenticate(verifier)(next)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "no header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "not a bearer token", authHeader: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "empty bearer token", authHeader: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", authHeader: "Bearer bad-token", wantStatus: http.StatusUnauthorized},
		{name: "valid token", authHeader: "Bearer good-token", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/parts", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	withClaims := func(req *http.Request, role model.UserRole) *http.Request {
		ctx := context.WithValue(req.Context(), claimsKey, &model.TokenClaims{
			UserID: uuid.New(),
			Role:   role,
		})
		return req.WithContext(ctx)
	}

	tests := []struct {
		name       string
		roles      []model.UserRole
		role       model.UserRole
		noClaims   bool
		wantStatus int
	}{
		{
			name:       "missing claims",
			roles:      []model.UserRole{model.RoleManager},
			noClaims:   true,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "matching role passes",
			roles:      []model.UserRole{model.RoleManager},
			role:       model.RoleManager,
			wantStatus: http.StatusOK,
		},
		{
			name:       "other role is forbidden",
			roles:      []model.UserRole{model.RoleManager},
			role:       model.RoleReception,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "admin always passes",
			roles:      []model.UserRole{model.RoleManager},
			role:       model.RoleAdmin,
			wantStatus: http.StatusOK,
		},
		{
			name:       "no roles means admin only",
			roles:      nil,
			role:       model.RoleMechanic,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "no roles lets admin in",
			roles:      nil,
			role:       model.RoleAdmin,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := RequireRole(tt.roles...)(next)

			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if !tt.noClaims {
				req = withClaims(req, tt.role)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
