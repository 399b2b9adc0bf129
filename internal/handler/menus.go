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

// MenuStore defines the database methods needed by menu admin handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type MenuStore interface {
	ListMenus(ctx context.Context, activeOnly bool) ([]model.Menu, error)
	CreateMenu(ctx context.Context, arg database.CreateMenuParams) (model.Menu, error)
	UpdateMenu(ctx context.Context, arg database.UpdateMenuParams) (model.Menu, error)
	DeactivateMenu(ctx context.Context, id int64) error
	ReplaceMenuIngredients(ctx context.Context, menuID int64, items []database.MenuIngredientParams) error
	ReplaceMenuAddons(ctx context.Context, menuID int64, items []database.MenuAddonParams) error
}

// MenuHandler handles menu admin endpoints.
type MenuHandler struct {
	store MenuStore
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(store MenuStore) *MenuHandler {
	return &MenuHandler{store: store}
}

// RegisterRoutes registers menu admin endpoints on the given Chi router.
// Expected to be mounted at /admin/menus behind the admin role gate.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/create", h.Create)
	r.Post("/edit", h.Edit)
	r.Post("/{id}/delete", h.Delete)
}

// --- Request types ---

type menuIngredientRequest struct {
	ItemID   int64           `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

type menuAddonRequest struct {
	ItemID          int64           `json:"item_id" validate:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
	AdditionalPrice decimal.Decimal `json:"additional_price"`
}

type createMenuRequest struct {
	Profile        string                  `json:"profile"`
	Name           string                  `json:"name" validate:"required"`
	Price          decimal.Decimal         `json:"price" validate:"required"`
	Description    string                  `json:"description"`
	CategoryID     int64                   `json:"category_id" validate:"required"`
	InventoryItems []menuIngredientRequest `json:"inventory_items" validate:"dive"`
	AddonItems     []menuAddonRequest      `json:"addon_items" validate:"dive"`
}

type editMenuRequest struct {
	ID             int64                   `json:"id" validate:"required"`
	Name           string                  `json:"name" validate:"required"`
	Price          decimal.Decimal         `json:"price" validate:"required"`
	Description    string                  `json:"description"`
	CategoryID     int64                   `json:"category_id" validate:"required"`
	InventoryItems []menuIngredientRequest `json:"inventory_items" validate:"dive"`
	AddonItems     []menuAddonRequest      `json:"addon_items" validate:"dive"`
}

func toIngredientParams(menuID int64, items []menuIngredientRequest) []database.MenuIngredientParams {
	params := make([]database.MenuIngredientParams, len(items))
	for i, it := range items {
		params[i] = database.MenuIngredientParams{MenuID: menuID, ItemID: it.ItemID, Quantity: it.Quantity}
	}
	return params
}

func toAddonParams(menuID int64, items []menuAddonRequest) []database.MenuAddonParams {
	params := make([]database.MenuAddonParams, len(items))
	for i, it := range items {
		params[i] = database.MenuAddonParams{
			MenuID:          menuID,
			ItemID:          it.ItemID,
			Quantity:        it.Quantity,
			AdditionalPrice: it.AdditionalPrice,
		}
	}
	return params
}

// --- Handlers ---

func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	menus, err := h.store.ListMenus(r.Context(), false)
	if err != nil {
		respondError(w, "list menus", err)
		return
	}
	respondData(w, menus)
}

func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}

	menu, err := h.store.CreateMenu(r.Context(), database.CreateMenuParams{
		Profile:     req.Profile,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		respondError(w, "create menu", err)
		return
	}
	if err := h.store.ReplaceMenuIngredients(r.Context(), menu.ID, toIngredientParams(menu.ID, req.InventoryItems)); err != nil {
		respondError(w, "set menu ingredients", err)
		return
	}
	if err := h.store.ReplaceMenuAddons(r.Context(), menu.ID, toAddonParams(menu.ID, req.AddonItems)); err != nil {
		respondError(w, "set menu addons", err)
		return
	}
	respondData(w, menu)
}

func (h *MenuHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req editMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}

	menu, err := h.store.UpdateMenu(r.Context(), database.UpdateMenuParams{
		ID:          req.ID,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondAppError(w, "Menu not found")
			return
		}
		respondError(w, "update menu", err)
		return
	}
	if err := h.store.ReplaceMenuIngredients(r.Context(), menu.ID, toIngredientParams(menu.ID, req.InventoryItems)); err != nil {
		respondError(w, "set menu ingredients", err)
		return
	}
	if err := h.store.ReplaceMenuAddons(r.Context(), menu.ID, toAddonParams(menu.ID, req.AddonItems)); err != nil {
		respondError(w, "set menu addons", err)
		return
	}
	respondData(w, menu)
}

// Delete deactivates the menu; order history keeps pointing at it.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondAppError(w, "invalid menu id")
		return
	}
	if err := h.store.DeactivateMenu(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondAppError(w, "Menu not found")
			return
		}
		respondError(w, "deactivate menu", err)
		return
	}
	respondData(w, nil)
}
