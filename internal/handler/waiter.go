package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/dineflow-pos/api/internal/lifecycle"
	"github.com/dineflow-pos/api/internal/middleware"
	"github.com/dineflow-pos/api/internal/model"
	"github.com/dineflow-pos/api/internal/projection"
	"github.com/dineflow-pos/api/internal/service"
)

// Notifier pushes refresh hints to connected dashboards over the
// websocket hub. Optional; a nil Notifier disables push and the
// dashboards fall back to their polling cadence.
type Notifier interface {
	OrderUpdated(orderID int64)
	PaymentUpdated(orderID int64)
}

// WaiterStore defines the database reads behind the waiter dashboard.
// Satisfied by *database.Queries; narrow interface for testability.
type WaiterStore interface {
	ListTables(ctx context.Context, activeOnly bool) ([]model.Table, error)
	ListMenus(ctx context.Context, activeOnly bool) ([]model.Menu, error)
	ListMenuCategories(ctx context.Context) ([]model.MenuCategory, error)
	ListActiveOrders(ctx context.Context) ([]model.Order, error)
	GetOrderWithDetails(ctx context.Context, id int64) (model.Order, error)
}

// WaiterServicer defines the order mutations the waiter triggers.
// Satisfied by *service.OrderService.
type WaiterServicer interface {
	ProceedOrder(ctx context.Context, req service.ProceedOrderRequest) (model.Order, error)
	AdvanceItem(ctx context.Context, req service.AdvanceItemRequest) (model.OrderDetail, error)
	RequestBill(ctx context.Context, req service.RequestBillRequest) (model.Payment, error)
}

// WaiterHandler handles the waiter dashboard endpoints.
type WaiterHandler struct {
	store    WaiterStore
	svc      WaiterServicer
	notifier Notifier
}

// NewWaiterHandler creates a new WaiterHandler.
func NewWaiterHandler(store WaiterStore, svc WaiterServicer, notifier Notifier) *WaiterHandler {
	return &WaiterHandler{store: store, svc: svc, notifier: notifier}
}

// RegisterRoutes registers waiter endpoints on the given Chi router.
// Expected to be mounted at /waiter behind the waiter role gate.
func (h *WaiterHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tableList", h.TableList)
	r.Get("/currentTableList", h.CurrentTableList)
	r.Get("/menus", h.Menus)
	r.Get("/menu-categories", h.MenuCategories)
	r.Get("/orders/getOrderById", h.GetOrderByID)
	r.Get("/orders/readyOrderList", h.ReadyOrderList)
	r.Post("/orders/proceedOrder", h.ProceedOrder)
	r.Post("/orders/serveOrder", h.ServeOrder)
	r.Post("/orders/requestBill", h.RequestBill)
}

// --- Request types ---

// proceedOrderRequest is the dashboard cart payload. The payload also
// carries waiter_id and status; both are ignored, the waiter comes from
// the token claims and new items are always pending.
type proceedOrderRequest struct {
	TableID   int64              `json:"table_id" validate:"required"`
	OrderID   int64              `json:"order_id"`
	OrderList []orderListRequest `json:"order_list" validate:"required,min=1,dive"`
}

// orderListRequest is one cart line. The dashboard echoes the menu name
// and price for display; the server trusts only the menu id, quantity,
// and note, and reprices from the menus table.
type orderListRequest struct {
	MenuID   int64  `json:"id" validate:"required"`
	Quantity int32  `json:"quantity" validate:"required,gt=0"`
	Note     string `json:"note"`
}

type serveOrderRequest struct {
	OrderDetailID int64 `json:"orderDetail_id" validate:"required"`
}

type requestBillRequest struct {
	OrderID int64 `json:"order_id" validate:"required"`
}

// --- Handlers ---

// TableList returns every table, including out-of-service ones, with
// active order summaries attached.
func (h *WaiterHandler) TableList(w http.ResponseWriter, r *http.Request) {
	tables, err := h.store.ListTables(r.Context(), false)
	if err != nil {
		respondError(w, "list tables", err)
		return
	}
	respondData(w, tables)
}

// CurrentTableList returns the seatable tables for the floor view.
func (h *WaiterHandler) CurrentTableList(w http.ResponseWriter, r *http.Request) {
	tables, err := h.store.ListTables(r.Context(), true)
	if err != nil {
		respondError(w, "list current tables", err)
		return
	}
	respondData(w, tables)
}

// Menus returns active menus for the ordering screen.
func (h *WaiterHandler) Menus(w http.ResponseWriter, r *http.Request) {
	menus, err := h.store.ListMenus(r.Context(), true)
	if err != nil {
		respondError(w, "list menus", err)
		return
	}
	respondData(w, menus)
}

func (h *WaiterHandler) MenuCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListMenuCategories(r.Context())
	if err != nil {
		respondError(w, "list menu categories", err)
		return
	}
	respondData(w, categories)
}

// GetOrderByID returns one fully hydrated order (the bill dialog).
func (h *WaiterHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("orderId"), 10, 64)
	if err != nil {
		respondAppError(w, "orderId is required")
		return
	}
	order, err := h.store.GetOrderWithDetails(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondAppError(w, service.ErrOrderNotFound.Error())
			return
		}
		respondError(w, "get order", err)
		return
	}
	respondData(w, order)
}

// ReadyOrderList returns the open line items across all tables so the
// waiter can serve whatever the kitchen marks ready.
func (h *WaiterHandler) ReadyOrderList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListActiveOrders(r.Context())
	if err != nil {
		respondError(w, "list active orders", err)
		return
	}
	respondData(w, projection.ReadyOrderList(orders))
}

// ProceedOrder submits the cart for a table.
func (h *WaiterHandler) ProceedOrder(w http.ResponseWriter, r *http.Request) {
	var req proceedOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	items := make([]service.CartItem, len(req.OrderList))
	for i, it := range req.OrderList {
		items[i] = service.CartItem{MenuID: it.MenuID, Quantity: it.Quantity, Note: it.Note}
	}

	order, err := h.svc.ProceedOrder(r.Context(), service.ProceedOrderRequest{
		TableID:  req.TableID,
		WaiterID: claims.UserID,
		OrderID:  req.OrderID,
		Items:    items,
	})
	if err != nil {
		respondError(w, "proceed order", err)
		return
	}
	if h.notifier != nil {
		h.notifier.OrderUpdated(order.ID)
	}
	respondData(w, order)
}

// ServeOrder marks a ready line item as served.
func (h *WaiterHandler) ServeOrder(w http.ResponseWriter, r *http.Request) {
	var req serveOrderRequest
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
		Action:        lifecycle.ActionServe,
		ActorRole:     claims.Role,
	})
	if err != nil {
		respondError(w, "serve order", err)
		return
	}
	if h.notifier != nil {
		h.notifier.OrderUpdated(detail.OrderID)
	}
	respondData(w, detail)
}

// RequestBill opens the order's payment for the cashier.
func (h *WaiterHandler) RequestBill(w http.ResponseWriter, r *http.Request) {
	var req requestBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	payment, err := h.svc.RequestBill(r.Context(), service.RequestBillRequest{
		OrderID:  req.OrderID,
		WaiterID: claims.UserID,
	})
	if err != nil {
		respondError(w, "request bill", err)
		return
	}
	if h.notifier != nil {
		h.notifier.PaymentUpdated(payment.OrderID)
	}
	respondData(w, payment)
}
