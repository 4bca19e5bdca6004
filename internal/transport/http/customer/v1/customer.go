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

type CustomerService interface {
	Create(ctx context.Context, params model.CreateCustomerParams) (*model.Customer, error)
	CustomerByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	List(ctx context.Context, filter model.CustomersFilter, page, limit int64) (*model.CustomerList, error)
	Update(ctx context.Context, id uuid.UUID, params model.UpdateCustomerParams) (*model.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type VehicleLister interface {
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Vehicle, error)
}

type handler struct {
	svc      CustomerService
	vehicles VehicleLister
}

func NewCustomerHandler(service CustomerService, vehicles VehicleLister) *handler {
	return &handler{svc: service, vehicles: vehicles}
}

func (h *handler) Register(r chi.Router) {
	r.Route("/customers", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Route("/{customerID}", func(r chi.Router) {
			r.Get("/", h.byID)
			r.Patch("/", h.update)
			r.Delete("/", h.delete)
			r.Get("/vehicles", h.listVehicles)
		})
	})
}

type customerRequest struct {
	Type        model.CustomerType `json:"type"`
	FirstName   string             `json:"first_name"`
	LastName    string             `json:"last_name"`
	Email       *string            `json:"email,omitempty"`
	Phone       string             `json:"phone"`
	Street      *string            `json:"street,omitempty"`
	PostalCode  *string            `json:"postal_code,omitempty"`
	City        *string            `json:"city,omitempty"`
	Pesel       *string            `json:"pesel,omitempty"`
	Nip         *string            `json:"nip,omitempty"`
	CompanyName *string            `json:"company_name,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
}

type updateCustomerRequest struct {
	Type        *model.CustomerType `json:"type,omitempty"`
	FirstName   *string             `json:"first_name,omitempty"`
	LastName    *string             `json:"last_name,omitempty"`
	Email       *string             `json:"email,omitempty"`
	Phone       *string             `json:"phone,omitempty"`
	Street      *string             `json:"street,omitempty"`
	PostalCode  *string             `json:"postal_code,omitempty"`
	City        *string             `json:"city,omitempty"`
	Pesel       *string             `json:"pesel,omitempty"`
	Nip         *string             `json:"nip,omitempty"`
	CompanyName *string             `json:"company_name,omitempty"`
	Notes       *string             `json:"notes,omitempty"`
}

type customerResponse struct {
	ID          uuid.UUID          `json:"id"`
	Type        model.CustomerType `json:"type"`
	FirstName   string             `json:"first_name"`
	LastName    string             `json:"last_name"`
	Email       *string            `json:"email,omitempty"`
	Phone       string             `json:"phone"`
	Street      *string            `json:"street,omitempty"`
	PostalCode  *string            `json:"postal_code,omitempty"`
	City        *string            `json:"city,omitempty"`
	Pesel       *string            `json:"pesel,omitempty"`
	Nip         *string            `json:"nip,omitempty"`
	CompanyName *string            `json:"company_name,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type customerListResponse struct {
	Items []customerResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int64              `json:"page"`
	Limit int64              `json:"limit"`
}

type vehicleResponse struct {
	ID                 uuid.UUID `json:"id"`
	CustomerID         uuid.UUID `json:"customer_id"`
	VIN                string    `json:"vin"`
	Brand              string    `json:"brand"`
	Model              string    `json:"model"`
	Year               int64     `json:"year"`
	RegistrationNumber *string   `json:"registration_number,omitempty"`
	Mileage            int64     `json:"mileage"`
	Color              *string   `json:"color,omitempty"`
	Notes              *string   `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	c, err := h.svc.Create(r.Context(), model.CreateCustomerParams{
		Type:        req.Type,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Street:      req.Street,
		PostalCode:  req.PostalCode,
		City:        req.City,
		Pesel:       req.Pesel,
		Nip:         req.Nip,
		CompanyName: req.CompanyName,
		Notes:       req.Notes,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusCreated, customerToResponse(c))
}

func (h *handler) byID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "customerID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid customer id")
		return
	}

	c, err := h.svc.CustomerByID(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, customerToResponse(c))
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	list, err := h.svc.List(
		r.Context(),
		model.CustomersFilter{Search: q.Get("search")},
		httpx.QueryInt64(q.Get("page")),
		httpx.QueryInt64(q.Get("limit")),
	)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, customerListResponse{
		Items: lo.Map(list.Items, func(c *model.Customer, _ int) customerResponse {
			return customerToResponse(c)
		}),
		Total: list.Total,
		Page:  list.Page,
		Limit: list.Limit,
	})
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "customerID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid customer id")
		return
	}

	var req updateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	c, err := h.svc.Update(r.Context(), id, model.UpdateCustomerParams{
		Type:        req.Type,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Street:      req.Street,
		PostalCode:  req.PostalCode,
		City:        req.City,
		Pesel:       req.Pesel,
		Nip:         req.Nip,
		CompanyName: req.CompanyName,
		Notes:       req.Notes,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, customerToResponse(c))
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "customerID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid customer id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listVehicles(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "customerID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid customer id")
		return
	}

	vehicles, err := h.vehicles.ListByCustomer(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, lo.Map(vehicles, func(v *model.Vehicle, _ int) vehicleResponse {
		return vehicleResponse{
			ID:                 v.ID,
			CustomerID:         v.CustomerID,
			VIN:                v.VIN,
			Brand:              v.Brand,
			Model:              v.Model,
			Year:               v.Year,
			RegistrationNumber: v.RegistrationNumber,
			Mileage:            v.Mileage,
			Color:              v.Color,
			Notes:              v.Notes,
			CreatedAt:          v.CreatedAt,
			UpdatedAt:          v.UpdatedAt,
		}
	}))
}

func customerToResponse(c *model.Customer) customerResponse {
	return customerResponse{
		ID:          c.ID,
		Type:        c.Type,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		Street:      c.Street,
		PostalCode:  c.PostalCode,
		City:        c.City,
		Pesel:       c.Pesel,
		Nip:         c.Nip,
		CompanyName: c.CompanyName,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
