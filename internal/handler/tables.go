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
	"github.com/dineflow-pos/api/internal/enum"
	"github.com/dineflow-pos/api/internal/model"
)

// TableStore defines the database methods needed by table admin handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type TableStore interface {
	ListTables(ctx context.Context, activeOnly bool) ([]model.Table, error)
	CreateTable(ctx context.Context, arg database.CreateTableParams) (model.Table, error)
	UpdateTable(ctx context.Context, arg database.UpdateTableParams) (model.Table, error)
	DeleteTable(ctx context.Context, id int64) error
}

// TableHandler handles table admin endpoints.
type TableHandler struct {
	store TableStore
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(store TableStore) *TableHandler {
	return &TableHandler{store: store}
}

// RegisterRoutes registers table admin endpoints on the given Chi router.
// Expected to be mounted at /admin/tables behind the admin role gate.
func (h *TableHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/create", h.Create)
	r.Post("/edit", h.Edit)
	r.Post("/{id}/delete", h.Delete)
}

// --- Request types ---

type createTableRequest struct {
	TableNo  string `json:"table_no" validate:"required"`
	Capacity int32  `json:"capacity" validate:"gte=0"`
	Status   string `json:"status"`
}

type editTableRequest struct {
	ID       int64  `json:"id" validate:"required"`
	TableNo  string `json:"table_no" validate:"required"`
	Capacity int32  `json:"capacity" validate:"gte=0"`
	Status   string `json:"status" validate:"required"`
}

// --- Handlers ---

func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	tables, err := h.store.ListTables(r.Context(), false)
	if err != nil {
		respondError(w, "list tables", err)
		return
	}
	respondData(w, tables)
}

func (h *TableHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}
	if req.Status == "" {
		req.Status = enum.TableStatusAvailable
	}

	table, err := h.store.CreateTable(r.Context(), database.CreateTableParams{
		TableNo:  req.TableNo,
		Capacity: req.Capacity,
		Status:   req.Status,
	})
	if err != nil {
		respondError(w, "create table", err)
		return
	}
	respondData(w, table)
}

func (h *TableHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req editTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}

	table, err := h.store.UpdateTable(r.Context(), database.UpdateTableParams{
		ID:       req.ID,
		TableNo:  req.TableNo,
		Capacity: req.Capacity,
		Status:   req.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondAppError(w, "Table not found")
			return
		}
		respondError(w, "update table", err)
		return
	}
	respondData(w, table)
}

func (h *TableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondAppError(w, "invalid table id")
		return
	}
	if err := h.store.DeleteTable(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondAppError(w, "Table not found")
			return
		}
		respondError(w, "delete table", err)
		return
	}
	respondData(w, nil)
}
