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

type PartService interface {
	Create(ctx context.Context, params model.CreatePartParams) (*model.Part, error)
	PartByID(ctx context.Context, id uuid.UUID) (*model.Part, error)
	List(ctx context.Context, filter model.PartsFilter, page, limit int64) (*model.PartList, error)
	Update(ctx context.Context, id uuid.UUID, params model.UpdatePartParams) (*model.Part, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncreaseStock(ctx context.Context, id uuid.UUID, quantity int64) (*model.Part, error)
	DecreaseStock(ctx context.Context, id uuid.UUID, quantity int64) (*model.Part, error)
	LowStockParts(ctx context.Context) ([]*model.Part, error)
	Stats(ctx context.Context) (*model.PartStats, error)
}

type handler struct {
	svc PartService
}

func NewPartHandler(service PartService) *handler {
	return &handler{svc: service}
}

func (h *handler) Register(r chi.Router) {
	r.Route("/parts", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/stats", h.stats)
		r.Get("/low-stock", h.lowStock)
		r.Route("/{partID}", func(r chi.Router) {
			r.Get("/", h.byID)
			r.Patch("/", h.update)
			r.Delete("/", h.delete)
			r.Post("/stock/increase", h.increaseStock)
			r.Post("/stock/decrease", h.decreaseStock)
		})
	})
}

type createPartRequest struct {
	PartNumber         string             `json:"part_number"`
	Name               string             `json:"name"`
	Description        *string            `json:"description,omitempty"`
	Category           model.PartCategory `json:"category"`
	Manufacturer       *string            `json:"manufacturer,omitempty"`
	Brand              *string            `json:"brand,omitempty"`
	PurchasePrice      decimal.Decimal    `json:"purchase_price"`
	SellingPrice       decimal.Decimal    `json:"selling_price"`
	QuantityInStock    int64              `json:"quantity_in_stock"`
	MinStockLevel      *int64             `json:"min_stock_level,omitempty"`
	Location           *string            `json:"location,omitempty"`
	Supplier           *string            `json:"supplier,omitempty"`
	SupplierEmail      *string            `json:"supplier_email,omitempty"`
	SupplierPhone      *string            `json:"supplier_phone,omitempty"`
	CompatibleVehicles *string            `json:"compatible_vehicles,omitempty"`
	Notes              *string            `json:"notes,omitempty"`
}

type updatePartRequest struct {
	Name               *string             `json:"name,omitempty"`
	Description        *string             `json:"description,omitempty"`
	Category           *model.PartCategory `json:"category,omitempty"`
	Manufacturer       *string             `json:"manufacturer,omitempty"`
	Brand              *string             `json:"brand,omitempty"`
	PurchasePrice      *decimal.Decimal    `json:"purchase_price,omitempty"`
	SellingPrice       *decimal.Decimal    `json:"selling_price,omitempty"`
	MinStockLevel      *int64              `json:"min_stock_level,omitempty"`
	Location           *string             `json:"location,omitempty"`
	Status             *model.PartStatus   `json:"status,omitempty"`
	Supplier           *string             `json:"supplier,omitempty"`
	SupplierEmail      *string             `json:"supplier_email,omitempty"`
	SupplierPhone      *string             `json:"supplier_phone,omitempty"`
	CompatibleVehicles *string             `json:"compatible_vehicles,omitempty"`
	Notes              *string             `json:"notes,omitempty"`
}

type stockRequest struct {
	Quantity int64 `json:"quantity"`
}

type partResponse struct {
	ID                 uuid.UUID          `json:"id"`
	PartNumber         string             `json:"part_number"`
	Name               string             `json:"name"`
	Description        *string            `json:"description,omitempty"`
	Category           model.PartCategory `json:"category"`
	Manufacturer       *string            `json:"manufacturer,omitempty"`
	Brand              *string            `json:"brand,omitempty"`
	PurchasePrice      decimal.Decimal    `json:"purchase_price"`
	SellingPrice       decimal.Decimal    `json:"selling_price"`
	QuantityInStock    int64              `json:"quantity_in_stock"`
	MinStockLevel      int64              `json:"min_stock_level"`
	Location           *string            `json:"location,omitempty"`
	Status             model.PartStatus   `json:"status"`
	Supplier           *string            `json:"supplier,omitempty"`
	SupplierEmail      *string            `json:"supplier_email,omitempty"`
	SupplierPhone      *string            `json:"supplier_phone,omitempty"`
	CompatibleVehicles *string            `json:"compatible_vehicles,omitempty"`
	Notes              *string            `json:"notes,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

type partListResponse struct {
	Items []partResponse `json:"items"`
	Total int64          `json:"total"`
	Page  int64          `json:"page"`
	Limit int64          `json:"limit"`
}

type partStatsResponse struct {
	Total        int64           `json:"total"`
	Available    int64           `json:"available"`
	LowStock     int64           `json:"low_stock"`
	OutOfStock   int64           `json:"out_of_stock"`
	Discontinued int64           `json:"discontinued"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPartRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	p, err := h.svc.Create(r.Context(), model.CreatePartParams{
		PartNumber:         req.PartNumber,
		Name:               req.Name,
		Description:        req.Description,
		Category:           req.Category,
		Manufacturer:       req.Manufacturer,
		Brand:              req.Brand,
		PurchasePrice:      req.PurchasePrice,
		SellingPrice:       req.SellingPrice,
		QuantityInStock:    req.QuantityInStock,
		MinStockLevel:      req.MinStockLevel,
		Location:           req.Location,
		Supplier:           req.Supplier,
		SupplierEmail:      req.SupplierEmail,
		SupplierPhone:      req.SupplierPhone,
		CompatibleVehicles: req.CompatibleVehicles,
		Notes:              req.Notes,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusCreated, partToResponse(p))
}

func (h *handler) byID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "partID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid part id")
		return
	}

	p, err := h.svc.PartByID(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, partToResponse(p))
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.PartsFilter{
		Search:       q.Get("search"),
		LowStockOnly: q.Get("low_stock") == "true",
	}
	if v := q.Get("category"); v != "" {
		category := model.PartCategory(v)
		filter.Category = &category
	}
	if v := q.Get("status"); v != "" {
		status := model.PartStatus(v)
		filter.Status = &status
	}

	list, err := h.svc.List(r.Context(), filter, httpx.QueryInt64(q.Get("page")), httpx.QueryInt64(q.Get("limit")))
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, partListResponse{
		Items: lo.Map(list.Items, func(p *model.Part, _ int) partResponse {
			return partToResponse(p)
		}),
		Total: list.Total,
		Page:  list.Page,
		Limit: list.Limit,
	})
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "partID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid part id")
		return
	}

	var req updatePartRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	p, err := h.svc.Update(r.Context(), id, model.UpdatePartParams{
		Name:               req.Name,
		Description:        req.Description,
		Category:           req.Category,
		Manufacturer:       req.Manufacturer,
		Brand:              req.Brand,
		PurchasePrice:      req.PurchasePrice,
		SellingPrice:       req.SellingPrice,
		MinStockLevel:      req.MinStockLevel,
		Location:           req.Location,
		Status:             req.Status,
		Supplier:           req.Supplier,
		SupplierEmail:      req.SupplierEmail,
		SupplierPhone:      req.SupplierPhone,
		CompatibleVehicles: req.CompatibleVehicles,
		Notes:              req.Notes,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, partToResponse(p))
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "partID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid part id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) increaseStock(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, h.svc.IncreaseStock)
}

func (h *handler) decreaseStock(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, h.svc.DecreaseStock)
}

func (h *handler) adjustStock(
	w http.ResponseWriter,
	r *http.Request,
	adjust func(ctx context.Context, id uuid.UUID, quantity int64) (*model.Part, error),
) {
	id, err := uuid.Parse(chi.URLParam(r, "partID"))
	if err != nil {
		httpx.Error(w, r, http.StatusBadRequest, "invalid part id")
		return
	}

	var req stockRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	p, err := adjust(r.Context(), id, req.Quantity)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, partToResponse(p))
}

func (h *handler) lowStock(w http.ResponseWriter, r *http.Request) {
	parts, err := h.svc.LowStockParts(r.Context())
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, lo.Map(parts, func(p *model.Part, _ int) partResponse {
		return partToResponse(p)
	}))
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.JSON(w, r, http.StatusOK, partStatsResponse{
		Total:        st.Total,
		Available:    st.Available,
		LowStock:     st.LowStock,
		OutOfStock:   st.OutOfStock,
		Discontinued: st.Discontinued,
		TotalValue:   st.TotalValue,
	})
}

func partToResponse(p *model.Part) partResponse {
	return partResponse{
		ID:                 p.ID,
		PartNumber:         p.PartNumber,
		Name:               p.Name,
		Description:        p.Description,
		Category:           p.Category,
		Manufacturer:       p.Manufacturer,
		Brand:              p.Brand,
		PurchasePrice:      p.PurchasePrice,
		SellingPrice:       p.SellingPrice,
		QuantityInStock:    p.QuantityInStock,
		MinStockLevel:      p.MinStockLevel,
		Location:           p.Location,
		Status:             p.Status,
		Supplier:           p.Supplier,
		SupplierEmail:      p.SupplierEmail,
		SupplierPhone:      p.SupplierPhone,
		CompatibleVehicles: p.CompatibleVehicles,
		Notes:              p.Notes,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
