package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/notWeev/warsztat-samochodowy/internal/model"
	"github.com/notWeev/warsztat-samochodowy/internal/transport/http/httpx"
)

type OrderService interface {
	Create(ctx context.Context, params model.CreateOrderParams) (*model.ServiceOrder, error)
	OrderByID(ctx context.Context, id uuid.UUID) (*model.ServiceOrder, error)
	OrderByNumber(ctx context.Context, number string) (*model.ServiceOrder, error)
	List(ctx context.Context, filter model.OrdersFilter, page, limit int64) (*model.OrderList, error)
	Update(ctx context.Context, id uuid.UUID, params model.UpdateOrderParams) (*model.ServiceOrder, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*model.OrderStats, error)
}

type OrderPartService interface {
	AddPartToOrder(ctx context.Context, orderID uuid.UUID, params model.AddOrderPartParams) (*model.OrderPart, error)
	Update(ctx context.Context, lineID uuid.UUID, params model.UpdateOrderPartParams) (*model.OrderPart, error)
	Remove(ctx context.Context, lineID uuid.UUID) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*model.OrderPart, error)
}

type handler struct {
	svc   OrderService
	lines OrderPartService
}

func NewOrderHandler(service OrderService, lines OrderPartService) *handler {
	return &handler{svc: service, lines: lines}
}

func (h *handler) Register(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/stats", h.stats)
		r.Get("/by-number/{orderNumber}", h.byNumber)
		r.Route("/{orderID}", func(r chi.Router) {
			r.Get("/", h.byID)
			r.Patch("/", h.update)
			r.Delete("/", h.delete)
			r.Post("/parts", h.addPart)
			r.Get("/parts", h.listParts)
		})
	})
	r.Route("/order-parts/{orderPartID}", func(r chi.Router) {
		r.Patch("/", h.updatePart)
		r.Delete("/", h.removePart)
	})
}

type createOrderRequest struct {
	CustomerID          uuid.UUID           `json:"customer_id"`
	VehicleID           uuid.UUID           `json:"vehicle_id"`
	AssignedMechanicID  *uuid.UUID          `json:"assigned_mechanic_id,omitempty"`
	Description         string              `json:"description"`
	Priority            model.OrderPriority `json:"priority,omitempty"`
	ScheduledAt         *time.Time          `json:"scheduled_at,omitempty"`
	MileageAtAcceptance *int64              `json:"mileage_at_acceptance,omitempty"`
	InternalNotes       *string             `json:"internal_notes,omitempty"`
}

type updateOrderRequest struct {
	AssignedMechanicID  *uuid.UUID           `json:"assigned_mechanic_id,omitempty"`
	Description         *string              `json:"description,omitempty"`
	Status              *model.OrderStatus   `json:"status,omitempty"`
	Priority            *model.OrderPriority `json:"priority,omitempty"`
	ScheduledAt         *time.Time           `json:"scheduled_at,omitempty"`
	MileageAtAcceptance *int64               `json:"mileage_at_acceptance,omitempty"`
	LaborCost           *decimal.Decimal     `json:"labor_cost,omitempty"`
	MechanicNotes       *string              `json:"mechanic_notes,omitempty"`
	InternalNotes       *string              `json:"internal_notes,omitempty"`
}

type addOrderPartRequest struct {
	PartID    uuid.UUID        `json:"part_id"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Notes     *string          `json:"notes,omitempty"`
}

type updateOrderPartRequest struct {
	Quantity *int64  `json:"quantity,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID                  uuid.UUID           `json:"id"`
	OrderNumber         string              `json:"order_number"`
	CustomerID          uuid.UUID           `json:"customer_id"`
	VehicleID           uuid.UUID           `json:"vehicle_id"`
	AssignedMechanicID  *uuid.UUID          `json:"assigned_mechanic_id,omitempty"`
	Description         string              `json:"description"`
	Status              model.OrderStatus   `json:"status"`
	Priority            model.OrderPriority `json:"priority"`
	ScheduledAt         *time.Time          `json:"scheduled_at,omitempty"`
	StartedAt           *time.Time          `json:"started_at,omitempty"`
	CompletedAt         *time.Time          `json:"completed_at,omitempty"`
	ClosedAt            *time.Time          `json:"closed_at,omitempty"`
	MileageAtAcceptance *int64              `json:"mileage_at_acceptance,omitempty"`
	LaborCost           decimal.Decimal     `json:"labor_cost"`
	PartsCost           decimal.Decimal     `json:"parts_cost"`
	TotalCost           decimal.Decimal     `json:"total_cost"`
	MechanicNotes       *string             `json:"mechanic_notes,omitempty"`
	InternalNotes       *string             `json:"internal_notes,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

type orderListResponse struct {
	Items []orderResponse `json:"items"`
	Total int64           `json:"total"`
	Page  int64           `json:"page"`
	Limit int64           `json:"limit"`
}

type orderPartResponse struct {
	ID             uuid.UUID       `json:"id"`
	ServiceOrderID uuid.UUID       `json:"service_order_id"`
	PartID         uuid.UUID       `json:"part_id"`
	Quantity       int64           `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	Notes          *string         `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type orderStatsResponse struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Closed     int64 `json:"closed"`
	Cancelled  int64 `json:"cancelled"`
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	ord, err := h.svc.Create(r.Context(), model.CreateOrderParams{
		CustomerID:          req.CustomerID,
		VehicleID:           req.VehicleID,
		AssignedMechanicID:  req.AssignedMechanicID,
		Description:         req.Description,
		Priority:            req.Priority,
		ScheduledAt:         req.ScheduledAt,
		MileageAtAcceptance: req.MileageAtAcceptance,
		InternalNotes:       req.InternalNotes,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusCreated, orderToResponse(ord))
}

func (h *handler) byID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid order id")
		return
	}

	ord, err := h.svc.OrderByID(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, orderToResponse(ord))
}

func (h *handler) byNumber(w http.ResponseWriter, r *http.Request) {
	ord, err := h.svc.OrderByNumber(r.Context(), chi.URLParam(r, "orderNumber"))
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, orderToResponse(ord))
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter model.OrdersFilter
	if v := q.Get("status"); v != "" {
		status := model.OrderStatus(v)
		filter.Status = &status
	}
	if v := q.Get("priority"); v != "" {
		priority := model.OrderPriority(v)
		filter.Priority = &priority
	}
	if v := q.Get("customer_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httpx.Error(w, r, http.StatusBadRequest, "invalid customer_id")
			return
		}
		filter.CustomerID = &id
	}
	if v := q.Get("mechanic_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httpx.Error(w, r, http.StatusBadRequest, "invalid mechanic_id")
			return
		}
		filter.MechanicID = &id
	}

	list, err := h.svc.List(r.Context(), filter, httpx.QueryInt64(q.Get("page")), httpx.QueryInt64(q.Get("limit")))
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, orderListResponse{
		Items: lo.Map(list.Items, func(ord *model.ServiceOrder, _ int) orderResponse {
			return orderToResponse(ord)
		}),
		Total: list.Total,
		Page:  list.Page,
		Limit: list.Limit,
	})
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid order id")
		return
	}

	var req updateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	ord, err := h.svc.Update(r.Context(), id, model.UpdateOrderParams{
		AssignedMechanicID:  req.AssignedMechanicID,
		Description:         req.Description,
		Status:              req.Status,
		Priority:            req.Priority,
		ScheduledAt:         req.ScheduledAt,
		MileageAtAcceptance: req.MileageAtAcceptance,
		LaborCost:           req.LaborCost,
		MechanicNotes:       req.MechanicNotes,
		InternalNotes:       req.InternalNotes,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, orderToResponse(ord))
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, orderStatsResponse{
		Total:      st.Total,
		Pending:    st.Pending,
		InProgress: st.InProgress,
		Completed:  st.Completed,
		Closed:     st.Closed,
		Cancelled:  st.Cancelled,
	})
}

func (h *handler) addPart(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid order id")
		return
	}

	var req addOrderPartRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	line, err := h.lines.AddPartToOrder(r.Context(), orderID, model.AddOrderPartParams{
		PartID:    req.PartID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Notes:     req.Notes,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusCreated, orderPartToResponse(line))
}

func (h *handler) listParts(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid order id")
		return
	}

	lines, err := h.lines.ListByOrder(r.Context(), orderID)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, lo.Map(lines, func(line *model.OrderPart, _ int) orderPartResponse {
		return orderPartToResponse(line)
	}))
}

func (h *handler) updatePart(w http.ResponseWriter, r *http.Request) {
	lineID, err := uuid.Parse(chi.URLParam(r, "orderPartID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid order part id")
		return
	}

	var req updateOrderPartRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	line, err := h.lines.Update(r.Context(), lineID, model.UpdateOrderPartParams{
		Quantity: req.Quantity,
		Notes:    req.Notes,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, orderPartToResponse(line))
}

func (h *handler) removePart(w http.ResponseWriter, r *http.Request) {
	lineID, err := uuid.Parse(chi.URLParam(r, "orderPartID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid order part id")
		return
	}

	if err := h.lines.Remove(r.Context(), lineID); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func orderToResponse(ord *model.ServiceOrder) orderResponse {
	return orderResponse{
		ID:                  ord.ID,
		OrderNumber:         ord.OrderNumber,
		CustomerID:          ord.CustomerID,
		VehicleID:           ord.VehicleID,
		AssignedMechanicID:  ord.AssignedMechanicID,
		Description:         ord.Description,
		Status:              ord.Status,
		Priority:            ord.Priority,
		ScheduledAt:         ord.ScheduledAt,
		StartedAt:           ord.StartedAt,
		CompletedAt:         ord.CompletedAt,
		ClosedAt:            ord.ClosedAt,
		MileageAtAcceptance: ord.MileageAtAcceptance,
		LaborCost:           ord.LaborCost,
		PartsCost:           ord.PartsCost,
		TotalCost:           ord.TotalCost,
		MechanicNotes:       ord.MechanicNotes,
		InternalNotes:       ord.InternalNotes,
		CreatedAt:           ord.CreatedAt,
		UpdatedAt:           ord.UpdatedAt,
	}
}

func orderPartToResponse(line *model.OrderPart) orderPartResponse {
	return orderPartResponse{
		ID:             line.ID,
		ServiceOrderID: line.ServiceOrderID,
		PartID:         line.PartID,
		Quantity:       line.Quantity,
		UnitPrice:      line.UnitPrice,
		TotalPrice:     line.TotalPrice,
		Notes:          line.Notes,
		CreatedAt:      line.CreatedAt,
	}
}
