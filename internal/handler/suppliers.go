package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dineflow-pos/api/internal/database"
	"github.com/dineflow-pos/api/internal/model"
)

// SupplierStore defines the database methods needed by supplier admin
// handlers. Satisfied by *database.Queries.
type SupplierStore interface {
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	CreateSupplier(ctx context.Context, arg database.CreateSupplierParams) (model.Supplier, error)
	UpdateSupplier(ctx context.Context, arg database.UpdateSupplierParams) (model.Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) error
}

// PurchaseStore defines the database methods needed by purchase admin
// handlers. Receiving a purchase tops the stock back up.
type PurchaseStore interface {
	ListPurchases(ctx context.Context) ([]model.Purchase, error)
	CreatePurchase(ctx context.Context, arg database.CreatePurchaseParams) (model.Purchase, error)
	CreatePurchaseDetail(ctx context.Context, arg database.CreatePurchaseDetailParams) (int64, error)
	AdjustInventoryStock(ctx context.Context, arg database.AdjustInventoryStockParams) error
}

// SupplierHandler handles supplier admin endpoints.
type SupplierHandler struct {
	store SupplierStore
}

// NewSupplierHandler creates a new SupplierHandler.
func NewSupplierHandler(store SupplierStore) *SupplierHandler {
	return &SupplierHandler{store: store}
}

// RegisterRoutes registers supplier admin endpoints on the given Chi
// router. Expected to be mounted at /admin/suppliers.
func (h *SupplierHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/create", h.Create)
	r.Post("/edit", h.Edit)
	r.Post("/{id}/delete", h.Delete)
}

type createSupplierRequest struct {
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contact_person"`
	Profile       string `json:"profile"`
	Phone         string `json:"phone"`
	Email         string `json:"email" validate:"omitempty,email"`
	BusinessType  string `json:"business_type"`
	Address       string `json:"address"`
}

type editSupplierRequest struct {
	ID            int64  `json:"id" validate:"required"`
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contact_person"`
	Profile       string `json:"profile"`
	Phone         string `json:"phone"`
	Email         string `json:"email" validate:"omitempty,email"`
	BusinessType  string `json:"business_type"`
	Address       string `json:"address"`
}

func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.store.ListSuppliers(r.Context())
	if err != nil {
		respondError(w, "list suppliers", err)
		return
	}
	respondData(w, suppliers)
}

func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}
	supplier, err := h.store.CreateSupplier(r.Context(), database.CreateSupplierParams{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Profile:       req.Profile,
		Phone:         req.Phone,
		Email:         req.Email,
		BusinessType:  req.BusinessType,
		Address:       req.Address,
	})
	if err != nil {
		respondError(w, "create supplier", err)
		return
	}
	respondData(w, supplier)
}

func (h *SupplierHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req editSupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}
	supplier, err := h.store.UpdateSupplier(r.Context(), database.UpdateSupplierParams{
		ID:            req.ID,
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Profile:       req.Profile,
		Phone:         req.Phone,
		Email:         req.Email,
		BusinessType:  req.BusinessType,
		Address:       req.Address,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondAppError(w, "Supplier not found")
			return
		}
		respondError(w, "update supplier", err)
		return
	}
	respondData(w, supplier)
}

func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondAppError(w, "invalid supplier id")
		return
	}
	if err := h.store.DeleteSupplier(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondAppError(w, "Supplier not found")
			return
		}
		respondError(w, "delete supplier", err)
		return
	}
	respondData(w, nil)
}

// PurchaseHandler handles purchase admin endpoints.
type PurchaseHandler struct {
	store PurchaseStore
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(store PurchaseStore) *PurchaseHandler {
	return &PurchaseHandler{store: store}
}

// RegisterRoutes registers purchase admin endpoints on the given Chi
// router. Expected to be mounted at /admin/purchases.
func (h *PurchaseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/create", h.Create)
}

type purchaseDetailRequest struct {
	ItemID    int64           `json:"item_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

type createPurchaseRequest struct {
	SupplierID   int64                   `json:"supplier_id" validate:"required"`
	PurchaseDate string                  `json:"purchase_date"`
	TotalAmount  decimal.Decimal         `json:"total_amount"`
	PurchaseNote string                  `json:"purchase_note"`
	Details      []purchaseDetailRequest `json:"purchase_details" validate:"required,min=1,dive"`
}

func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.store.ListPurchases(r.Context())
	if err != nil {
		respondError(w, "list purchases", err)
		return
	}
	respondData(w, purchases)
}

// Create records a supplier purchase and adds the received quantities
// back into stock.
func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}

	purchaseDate := time.Now()
	if req.PurchaseDate != "" {
		t, err := time.Parse(time.RFC3339, req.PurchaseDate)
		if err != nil {
			respondAppError(w, "purchase_date is invalid")
			return
		}
		purchaseDate = t
	}

	purchase, err := h.store.CreatePurchase(r.Context(), database.CreatePurchaseParams{
		SupplierID:   req.SupplierID,
		PurchaseDate: purchaseDate,
		TotalAmount:  req.TotalAmount,
		PurchaseNote: req.PurchaseNote,
	})
	if err != nil {
		respondError(w, "create purchase", err)
		return
	}

	for _, d := range req.Details {
		if _, err := h.store.CreatePurchaseDetail(r.Context(), database.CreatePurchaseDetailParams{
			PurchaseID: purchase.ID,
			ItemID:     d.ItemID,
			Quantity:   d.Quantity,
			TotalCost:  d.TotalCost,
		}); err != nil {
			respondError(w, "create purchase detail", err)
			return
		}
		if err := h.store.AdjustInventoryStock(r.Context(), database.AdjustInventoryStockParams{
			ID:    d.ItemID,
			Delta: d.Quantity,
		}); err != nil {
			respondError(w, "restock item", err)
			return
		}
	}
	respondData(w, purchase)
}
