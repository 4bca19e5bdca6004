package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
	"github.com/notWeev/warsztat-samochodowy/internal/transport/http/httpx"
)

type VehicleService interface {
	Create(ctx context.Context, params model.CreateVehicleParams) (*model.Vehicle, error)
	VehicleByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	Update(ctx context.Context, id uuid.UUID, params model.UpdateVehicleParams) (*model.Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type handler struct {
	svc VehicleService
}

func NewVehicleHandler(service VehicleService) *handler {
	return &handler{svc: service}
}

func (h *handler) Register(r chi.Router) {
	r.Route("/vehicles", func(r chi.Router) {
		r.Post("/", h.create)
		r.Route("/{vehicleID}", func(r chi.Router) {
			r.Get("/", h.byID)
			r.Patch("/", h.update)
			r.Delete("/", h.delete)
		})
	})
}

type createVehicleRequest struct {
	CustomerID         uuid.UUID `json:"customer_id"`
	VIN                string    `json:"vin"`
	Brand              string    `json:"brand"`
	Model              string    `json:"model"`
	Year               int64     `json:"year"`
	RegistrationNumber *string   `json:"registration_number,omitempty"`
	Mileage            int64     `json:"mileage"`
	Color              *string   `json:"color,omitempty"`
	Notes              *string   `json:"notes,omitempty"`
}

type updateVehicleRequest struct {
	RegistrationNumber *string `json:"registration_number,omitempty"`
	Mileage            *int64  `json:"mileage,omitempty"`
	Color              *string `json:"color,omitempty"`
	Notes              *string `json:"notes,omitempty"`
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
	var req createVehicleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	v, err := h.svc.Create(r.Context(), model.CreateVehicleParams{
		CustomerID:         req.CustomerID,
		VIN:                req.VIN,
		Brand:              req.Brand,
		Model:              req.Model,
		Year:               req.Year,
		RegistrationNumber: req.RegistrationNumber,
		Mileage:            req.Mileage,
		Color:              req.Color,
		Notes:              req.Notes,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusCreated, vehicleToResponse(v))
}

func (h *handler) byID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "vehicleID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid vehicle id")
		return
	}

	v, err := h.svc.VehicleByID(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, vehicleToResponse(v))
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "vehicleID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid vehicle id")
		return
	}

	var req updateVehicleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	v, err := h.svc.Update(r.Context(), id, model.UpdateVehicleParams{
		RegistrationNumber: req.RegistrationNumber,
		Mileage:            req.Mileage,
		Color:              req.Color,
		Notes:              req.Notes,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, vehicleToResponse(v))
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "vehicleID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid vehicle id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func vehicleToResponse(v *model.Vehicle) vehicleResponse {
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
}
