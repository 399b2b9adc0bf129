package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dineflow-pos/api/internal/database"
	"github.com/dineflow-pos/api/internal/model"
)

// InventoryStore defines the database methods needed by inventory admin
// handlers. Satisfied by *database.Queries.
type InventoryStore interface {
	ListInventories(ctx context.Context) ([]model.Inventory, error)
	CreateInventory(ctx context.Context, arg database.CreateInventoryParams) (model.Inventory, error)
	UpdateInventory(ctx context.Context, arg database.UpdateInventoryParams) (model.Inventory, error)
	DeleteInventory(ctx context.Context, id int64) error
}

// InventoryHandler handles inventory admin endpoints.
type InventoryHandler struct {
	store InventoryStore
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(store InventoryStore) *InventoryHandler {
	return &InventoryHandler{store: store}
}

// RegisterRoutes registers inventory admin endpoints on the given Chi
// router. Expected to be mounted at /admin/inventories.
func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/create", h.Create)
	r.Post("/edit", h.Edit)
	r.Post("/{id}/delete", h.Delete)
}

// --- Request types ---

type createInventoryRequest struct {
	Name             string          `json:"name" validate:"required"`
	UnitOfMeasure    string          `json:"unit_of_measure" validate:"required"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
	ReorderLevel     decimal.Decimal `json:"reorder_level"`
	MinStockLevel    decimal.Decimal `json:"min_stock_level"`
	ExpiryPeriodDays int32           `json:"expiry_period_inDay"`
	ItemCategoryID   int64           `json:"item_category_id" validate:"required"`
	Description      string          `json:"description"`
}

type editInventoryRequest struct {
	ID               int64           `json:"id" validate:"required"`
	Name             string          `json:"name" validate:"required"`
	UnitOfMeasure    string          `json:"unit_of_measure" validate:"required"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
	ReorderLevel     decimal.Decimal `json:"reorder_level"`
	MinStockLevel    decimal.Decimal `json:"min_stock_level"`
	ExpiryPeriodDays int32           `json:"expiry_period_inDay"`
	ItemCategoryID   int64           `json:"item_category_id" validate:"required"`
	Description      string          `json:"description"`
}

// --- Handlers ---

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListInventories(r.Context())
	if err != nil {
		respondError(w, "list inventories", err)
		return
	}
	respondData(w, items)
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}

	item, err := h.store.CreateInventory(r.Context(), database.CreateInventoryParams{
		Name:             req.Name,
		UnitOfMeasure:    req.UnitOfMeasure,
		CurrentStock:     req.CurrentStock,
		ReorderLevel:     req.ReorderLevel,
		MinStockLevel:    req.MinStockLevel,
		ExpiryPeriodDays: req.ExpiryPeriodDays,
		ItemCategoryID:   req.ItemCategoryID,
		Description:      req.Description,
	})
	if err != nil {
		respondError(w, "create inventory", err)
		return
	}
	respondData(w, item)
}

func (h *InventoryHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req editInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}

	item, err := h.store.UpdateInventory(r.Context(), database.UpdateInventoryParams{
		ID:               req.ID,
		Name:             req.Name,
		UnitOfMeasure:    req.UnitOfMeasure,
		CurrentStock:     req.CurrentStock,
		ReorderLevel:     req.ReorderLevel,
		MinStockLevel:    req.MinStockLevel,
		ExpiryPeriodDays: req.ExpiryPeriodDays,
		ItemCategoryID:   req.ItemCategoryID,
		Description:      req.Description,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondAppError(w, "Inventory item not found")
			return
		}
		respondError(w, "update inventory", err)
		return
	}
	respondData(w, item)
}

func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondAppError(w, "invalid inventory id")
		return
	}
	if err := h.store.DeleteInventory(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondAppError(w, "Inventory item not found")
			return
		}
		respondError(w, "delete inventory", err)
		return
	}
	respondData(w, nil)
}
