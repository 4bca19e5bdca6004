package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
	"github.com/notWeev/warsztat-samochodowy/internal/transport/http/httpx"
	"github.com/notWeev/warsztat-samochodowy/internal/transport/http/middleware"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*model.AuthResult, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
}

type handler struct {
	svc AuthService
}

func NewAuthHandler(service AuthService) *handler {
	return &handler{svc: service}
}

// Register mounts the unauthenticated login route.
func (h *handler) Register(r chi.Router) {
	r.Post("/auth/login", h.login)
}

// RegisterProtected mounts routes that require an authenticated caller.
func (h *handler) RegisterProtected(r chi.Router) {
	r.Post("/auth/change-password", h.changePassword)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      loginUserInfo `json:"user"`
}

type loginUserInfo struct {
	ID        uuid.UUID      `json:"id"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     string         `json:"email"`
	Role      model.UserRole `json:"role"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, loginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User: loginUserInfo{
			ID:        res.User.ID,
			FirstName: res.User.FirstName,
			LastName:  res.User.LastName,
			Email:     res.User.Email,
			Role:      res.User.Role,
		},
	})
}

func (h *handler) changePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		httpx.Error(w, r, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var req changePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
