package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dineflow-pos/api/internal/lifecycle"
	"github.com/dineflow-pos/api/internal/middleware"
	"github.com/dineflow-pos/api/internal/model"
	"github.com/dineflow-pos/api/internal/projection"
	"github.com/dineflow-pos/api/internal/service"
)

// ChefStore defines the database reads behind the kitchen queue.
type ChefStore interface {
	ListActiveOrders(ctx context.Context) ([]model.Order, error)
}

// ChefServicer defines the item transitions the chef triggers.
type ChefServicer interface {
	AdvanceItem(ctx context.Context, req service.AdvanceItemRequest) (model.OrderDetail, error)
}

// ChefHandler handles the kitchen dashboard endpoints.
type ChefHandler struct {
	store    ChefStore
	svc      ChefServicer
	notifier Notifier
}

// NewChefHandler creates a new ChefHandler.
func NewChefHandler(store ChefStore, svc ChefServicer, notifier Notifier) *ChefHandler {
	return &ChefHandler{store: store, svc: svc, notifier: notifier}
}

// RegisterRoutes registers chef endpoints on the given Chi router.
// Expected to be mounted at /chef behind the chef role gate.
func (h *ChefHandler) RegisterRoutes(r chi.Router) {
	r.Get("/currentOrderList", h.CurrentOrderList)
	r.Post("/startPreparing", h.StartPreparing)
	r.Post("/markAsReady", h.MarkAsReady)
}

// itemActionRequest is the kitchen action payload. The dashboard also
// sends order_id, quantity, and status; the detail id alone identifies
// the line item and the transition table decides the next status.
type itemActionRequest struct {
	OrderDetailID int64 `json:"orderDetail_id" validate:"required"`
}

// CurrentOrderList returns the flattened preparation queue.
func (h *ChefHandler) CurrentOrderList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListActiveOrders(r.Context())
	if err != nil {
		respondError(w, "list active orders", err)
		return
	}
	respondData(w, projection.ChefQueue(orders))
}

func (h *ChefHandler) StartPreparing(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, lifecycle.ActionStartPreparing)
}

func (h *ChefHandler) MarkAsReady(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, lifecycle.ActionMarkAsReady)
}

func (h *ChefHandler) advance(w http.ResponseWriter, r *http.Request, action string) {
	var req itemActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	detail, err := h.svc.AdvanceItem(r.Context(), service.AdvanceItemRequest{
		OrderDetailID: req.OrderDetailID,
		Action:        action,
		ActorRole:     claims.Role,
	})
	if err != nil {
		respondError(w, action, err)
		return
	}
	if h.notifier != nil {
		h.notifier.OrderUpdated(detail.OrderID)
	}
	respondData(w, detail)
}
