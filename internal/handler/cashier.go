package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dineflow-pos/api/internal/middleware"
	"github.com/dineflow-pos/api/internal/model"
	"github.com/dineflow-pos/api/internal/projection"
	"github.com/dineflow-pos/api/internal/service"
)

// CashierStore defines the database reads behind the payment board.
type CashierStore interface {
	ListPaymentOrders(ctx context.Context) ([]model.Order, error)
}

// CashierServicer defines the payment mutation.
type CashierServicer interface {
	ProcessPayment(ctx context.Context, req service.ProcessPaymentRequest) (model.Payment, error)
}

// CashierHandler handles the cashier dashboard endpoints.
type CashierHandler struct {
	store    CashierStore
	svc      CashierServicer
	notifier Notifier
}

// NewCashierHandler creates a new CashierHandler.
func NewCashierHandler(store CashierStore, svc CashierServicer, notifier Notifier) *CashierHandler {
	return &CashierHandler{store: store, svc: svc, notifier: notifier}
}

// RegisterRoutes registers cashier endpoints on the given Chi router.
// Expected to be mounted at /cashier behind the cashier role gate.
func (h *CashierHandler) RegisterRoutes(r chi.Router) {
	r.Get("/paymentOrder", h.PaymentOrder)
	r.Post("/processPayment", h.ProcessPayment)
}

type processPaymentRequest struct {
	OrderID       int64  `json:"order_id" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// PaymentOrder returns the billed orders, newest activity first.
func (h *CashierHandler) PaymentOrder(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListPaymentOrders(r.Context())
	if err != nil {
		respondError(w, "list payment orders", err)
		return
	}
	respondData(w, projection.PaymentBoard(orders))
}

// ProcessPayment settles a pending bill.
func (h *CashierHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req processPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, "invalid request body")
		return
	}
	if msg := validateRequest(req); msg != "" {
		respondAppError(w, msg)
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	payment, err := h.svc.ProcessPayment(r.Context(), service.ProcessPaymentRequest{
		OrderID:       req.OrderID,
		PaymentMethod: req.PaymentMethod,
		CashierID:     claims.UserID,
	})
	if err != nil {
		respondError(w, "process payment", err)
		return
	}
	if h.notifier != nil {
		h.notifier.PaymentUpdated(payment.OrderID)
	}
	respondData(w, payment)
}
