package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/dineflow-pos/api/internal/database"
	"github.com/dineflow-pos/api/internal/model"
)

// MenuCategoryStore defines the database methods for menu category CRUD.
type MenuCategoryStore interface {
	ListMenuCategories(ctx context.Context) ([]model.MenuCategory, error)
	CreateMenuCategory(ctx context.Context, arg database.CreateMenuCategoryParams) (model.MenuCategory, error)
	UpdateMenuCategory(ctx context.Context, arg database.UpdateMenuCategoryParams) (model.MenuCategory, error)
	DeleteMenuCategory(ctx context.Context, id int64) error
}

// ItemCategoryStore defines the database methods for item category CRUD.
type ItemCategoryStore interface {
	ListItemCategories(ctx context.Context) ([]model.ItemCategory, error)
	CreateItemCategory(ctx context.Context, arg database.CreateItemCategoryParams) (model.ItemCategory, error)
	UpdateItemCategory(ctx context.Context, arg database.UpdateItemCategoryParams) (model.ItemCategory, error)
	DeleteItemCategory(ctx context.Context, id int64) error
}

type createCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type editCategoryRequest struct {
	ID          int64  `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// MenuCategoryHandler handles menu category admin endpoints.
type MenuCategoryHandler struct {
	store MenuCategoryStore
}

// NewMenuCategoryHandler creates a new MenuCategoryHandler.
func NewMenuCategoryHandler(store MenuCategoryStore) *MenuCategoryHandler {
	return &MenuCategoryHandler{store: store}
}

// RegisterRoutes registers menu category endpoints on the given Chi
// router. Expected to be mounted at /admin/menu-categories.
func (h *MenuCategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/create", h.Create)
	r.Post("/edit", h.Edit)
	r.Post("/{id}/delete", h.Delete)
}

func (h *MenuCategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListMenuCategories(r.Context())
	if err != nil {
		respondError(w, "list menu categories", err)
		return
	}
	respondData(w, categories)
}

func (h *MenuCategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}
	category, err := h.store.CreateMenuCategory(r.Context(), database.CreateMenuCategoryParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(w, "create menu category", err)
		return
	}
	respondData(w, category)
}

func (h *MenuCategoryHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req editCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}
	category, err := h.store.UpdateMenuCategory(r.Context(), database.UpdateMenuCategoryParams{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondAppError(w, "Category not found")
			return
		}
		respondError(w, "update menu category", err)
		return
	}
	respondData(w, category)
}

func (h *MenuCategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondAppError(w, "invalid category id")
		return
	}
	if err := h.store.DeleteMenuCategory(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondAppError(w, "Category not found")
			return
		}
		respondError(w, "delete menu category", err)
		return
	}
	respondData(w, nil)
}

// ItemCategoryHandler handles item category admin endpoints.
type ItemCategoryHandler struct {
	store ItemCategoryStore
}

// NewItemCategoryHandler creates a new ItemCategoryHandler.
func NewItemCategoryHandler(store ItemCategoryStore) *ItemCategoryHandler {
	return &ItemCategoryHandler{store: store}
}

// RegisterRoutes registers item category endpoints on the given Chi
// router. Expected to be mounted at /admin/item-categories.
func (h *ItemCategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/create", h.Create)
	r.Post("/edit", h.Edit)
	r.Post("/{id}/delete", h.Delete)
}

func (h *ItemCategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListItemCategories(r.Context())
	if err != nil {
		respondError(w, "list item categories", err)
		return
	}
	respondData(w, categories)
}

func (h *ItemCategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}
	category, err := h.store.CreateItemCategory(r.Context(), database.CreateItemCategoryParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(w, "create item category", err)
		return
	}
	respondData(w, category)
}

func (h *ItemCategoryHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req editCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}
	category, err := h.store.UpdateItemCategory(r.Context(), database.UpdateItemCategoryParams{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondAppError(w, "Category not found")
			return
		}
		respondError(w, "update item category", err)
		return
	}
	respondData(w, category)
}

func (h *ItemCategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondAppError(w, "invalid category id")
		return
	}
	if err := h.store.DeleteItemCategory(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondAppError(w, "Category not found")
			return
		}
		respondError(w, "delete item category", err)
		return
	}
	respondData(w, nil)
}
