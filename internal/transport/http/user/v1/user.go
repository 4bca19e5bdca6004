package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
	"github.com/notWeev/warsztat-samochodowy/internal/transport/http/httpx"
)

type UserService interface {
	Create(ctx context.Context, params model.CreateUserParams) (*model.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context, page, limit int64) ([]*model.User, int64, error)
	Update(ctx context.Context, id uuid.UUID, params model.UpdateUserParams) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type handler struct {
	svc UserService
}

func NewUserHandler(service UserService) *handler {
	return &handler{svc: service}
}

func (h *handler) Register(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Route("/{userID}", func(r chi.Router) {
			r.Get("/", h.byID)
			r.Patch("/", h.update)
			r.Delete("/", h.delete)
		})
	})
}

type createUserRequest struct {
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     string         `json:"email"`
	Phone     *string        `json:"phone,omitempty"`
	Password  string         `json:"password"`
	Role      model.UserRole `json:"role"`
}

type updateUserRequest struct {
	FirstName *string           `json:"first_name,omitempty"`
	LastName  *string           `json:"last_name,omitempty"`
	Phone     *string           `json:"phone,omitempty"`
	Role      *model.UserRole   `json:"role,omitempty"`
	Status    *model.UserStatus `json:"status,omitempty"`
}

// userResponse never carries the password hash.
type userResponse struct {
	ID          uuid.UUID        `json:"id"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	Email       string           `json:"email"`
	Phone       *string          `json:"phone,omitempty"`
	Role        model.UserRole   `json:"role"`
	Status      model.UserStatus `json:"status"`
	LastLoginAt *time.Time       `json:"last_login_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type userListResponse struct {
	Items []userResponse `json:"items"`
	Total int64          `json:"total"`
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	u, err := h.svc.Create(r.Context(), model.CreateUserParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusCreated, userToResponse(u))
}

func (h *handler) byID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid user id")
		return
	}

	u, err := h.svc.UserByID(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, userToResponse(u))
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	users, total, err := h.svc.List(r.Context(), httpx.QueryInt64(q.Get("page")), httpx.QueryInt64(q.Get("limit")))
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, userListResponse{
		Items: lo.Map(users, func(u *model.User, _ int) userResponse {
			return userToResponse(u)
		}),
		Total: total,
	})
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	u, err := h.svc.Update(r.Context(), id, model.UpdateUserParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      req.Role,
		Status:    req.Status,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, userToResponse(u))
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func userToResponse(u *model.User) userResponse {
	return userResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
