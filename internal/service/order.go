// Package service holds the order mutations. Every mutation runs in a
// single pgx transaction so line items, stock, table state, and payments
// never drift apart.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/dineflow-pos/api/internal/database"
	"github.com/dineflow-pos/api/internal/enum"
	"github.com/dineflow-pos/api/internal/lifecycle"
	"github.com/dineflow-pos/api/internal/model"
)

const maxNumberRetries = 3

// AppError is a business rejection. Its message reaches the acting
// dashboard verbatim inside the response envelope, so the texts here are
// user-facing.
type AppError struct {
	Msg string
}

func (e *AppError) Error() string { return e.Msg }

// Rejections returned by the order service.
var (
	ErrEmptyCart            = &AppError{Msg: "Cart is empty"}
	ErrInvalidQuantity      = &AppError{Msg: "Quantity must be greater than zero"}
	ErrTableNotFound        = &AppError{Msg: "Table not found"}
	ErrTableOutOfService    = &AppError{Msg: "Table is out of service"}
	ErrMenuNotFound         = &AppError{Msg: "Menu not found"}
	ErrMenuUnavailable      = &AppError{Msg: "Menu is not available"}
	ErrOrderNotFound        = &AppError{Msg: "Order not found"}
	ErrOrderCompleted       = &AppError{Msg: "Order already completed"}
	ErrItemNotFound         = &AppError{Msg: "Order item not found"}
	ErrBillAlreadyRequested = &AppError{Msg: "Bill already requested"}
	ErrBillNotRequested     = &AppError{Msg: "Bill has not been requested"}
	ErrPaymentCompleted     = &AppError{Msg: "Payment already completed"}
	ErrInvalidPayMethod     = &AppError{Msg: "Invalid payment method"}
	ErrActionNotAllowed     = &AppError{Msg: "Action not allowed for this role"}
)

// IsAppError reports whether err is a business rejection whose message
// belongs in the envelope rather than a 500.
func IsAppError(err error) bool {
	var appErr *AppError
	var trErr *lifecycle.TransitionError
	return errors.As(err, &appErr) || errors.As(err, &trErr)
}

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods the order mutations need.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetTable(ctx context.Context, id int64) (model.Table, error)
	UpdateTableStatus(ctx context.Context, arg database.UpdateTableStatusParams) error
	GetNextOrderNumber(ctx context.Context) (int64, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (model.Order, error)
	GetOrder(ctx context.Context, id int64) (model.Order, error)
	TouchOrder(ctx context.Context, id int64) error
	CompleteOrder(ctx context.Context, id int64) (model.Order, error)
	CountActiveOrdersByTable(ctx context.Context, tableID int64) (int64, error)
	GetOrderWithDetails(ctx context.Context, id int64) (model.Order, error)
	GetMenuForOrder(ctx context.Context, id int64) (database.GetMenuForOrderRow, error)
	ListMenuIngredients(ctx context.Context, menuID int64) ([]model.MenuIngredient, error)
	AdjustInventoryStock(ctx context.Context, arg database.AdjustInventoryStockParams) error
	CreateOrderDetail(ctx context.Context, arg database.CreateOrderDetailParams) (model.OrderDetail, error)
	GetOrderDetail(ctx context.Context, id int64) (model.OrderDetail, error)
	UpdateOrderDetailStatus(ctx context.Context, arg database.UpdateOrderDetailStatusParams) (model.OrderDetail, error)
	GetPaymentByOrder(ctx context.Context, orderID int64) (model.Payment, error)
	GetNextPaymentNumber(ctx context.Context) (int64, error)
	CreatePayment(ctx context.Context, arg database.CreatePaymentParams) (model.Payment, error)
	CompletePayment(ctx context.Context, arg database.CompletePaymentParams) (model.Payment, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// OrderService handles order business logic.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// CartItem is one line of the waiter's submitted cart.
type CartItem struct {
	MenuID   int64
	Quantity int32
	Note     string
}

// ProceedOrderRequest is the validated input for submitting a cart.
// OrderID zero creates a new order for the table; non-zero appends the
// items to that order.
type ProceedOrderRequest struct {
	TableID  int64
	WaiterID int64
	OrderID  int64
	Items    []CartItem
}

// ProceedOrder validates the cart and creates or extends an order
// atomically: details start pending, the table becomes occupied, and
// each item's recipe is deducted from stock. Retries on order_number
// unique violations (concurrent transactions can read the same MAX).
func (s *OrderService) ProceedOrder(ctx context.Context, req ProceedOrderRequest) (model.Order, error) {
	if len(req.Items) == 0 {
		return model.Order{}, ErrEmptyCart
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return model.Order{}, ErrInvalidQuantity
		}
	}

	var lastErr error
	for attempt := 0; attempt < maxNumberRetries; attempt++ {
		order, err := s.proceedOrderTx(ctx, req)
		if err == nil {
			return order, nil
		}
		if isUniqueViolation(err) {
			lastErr = err
			continue
		}
		return model.Order{}, err
	}
	return model.Order{}, lastErr
}

func (s *OrderService) proceedOrderTx(ctx context.Context, req ProceedOrderRequest) (model.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	table, err := store.GetTable(ctx, req.TableID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Order{}, ErrTableNotFound
		}
		return model.Order{}, fmt.Errorf("get table: %w", err)
	}
	if table.Status == enum.TableStatusOutOfService {
		return model.Order{}, ErrTableOutOfService
	}

	var order model.Order
	if req.OrderID != 0 {
		order, err = store.GetOrder(ctx, req.OrderID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.Order{}, ErrOrderNotFound
			}
			return model.Order{}, fmt.Errorf("get order: %w", err)
		}
		if order.Status == enum.OrderStatusCompleted {
			return model.Order{}, ErrOrderCompleted
		}
	} else {
		nextNum, err := store.GetNextOrderNumber(ctx)
		if err != nil {
			return model.Order{}, fmt.Errorf("get next order number: %w", err)
		}
		order, err = store.CreateOrder(ctx, database.CreateOrderParams{
			OrderNumber: fmt.Sprintf("ORD-%03d", nextNum),
			TableID:     req.TableID,
			WaiterID:    req.WaiterID,
		})
		if err != nil {
			return model.Order{}, fmt.Errorf("create order: %w", err)
		}
	}

	for _, item := range req.Items {
		menu, err := store.GetMenuForOrder(ctx, item.MenuID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.Order{}, ErrMenuNotFound
			}
			return model.Order{}, fmt.Errorf("get menu: %w", err)
		}
		if menu.Status != enum.MenuStatusActive {
			return model.Order{}, ErrMenuUnavailable
		}

		if _, err := store.CreateOrderDetail(ctx, database.CreateOrderDetailParams{
			OrderID:  order.ID,
			MenuID:   item.MenuID,
			Quantity: item.Quantity,
			Note:     item.Note,
		}); err != nil {
			return model.Order{}, fmt.Errorf("create order detail: %w", err)
		}

		// Deduct the recipe. Stock may dip negative; the inventory
		// dashboard flags it instead of blocking the kitchen.
		ingredients, err := store.ListMenuIngredients(ctx, item.MenuID)
		if err != nil {
			return model.Order{}, fmt.Errorf("list menu ingredients: %w", err)
		}
		for _, ing := range ingredients {
			delta := ing.Quantity.Mul(decimal.NewFromInt32(item.Quantity)).Neg()
			if err := store.AdjustInventoryStock(ctx, database.AdjustInventoryStockParams{
				ID:    ing.ID,
				Delta: delta,
			}); err != nil {
				return model.Order{}, fmt.Errorf("adjust stock: %w", err)
			}
		}
	}

	if table.Status != enum.TableStatusOccupied {
		if err := store.UpdateTableStatus(ctx, database.UpdateTableStatusParams{
			ID:     req.TableID,
			Status: enum.TableStatusOccupied,
		}); err != nil {
			return model.Order{}, fmt.Errorf("update table status: %w", err)
		}
	}

	if req.OrderID != 0 {
		if err := store.TouchOrder(ctx, order.ID); err != nil {
			return model.Order{}, fmt.Errorf("touch order: %w", err)
		}
	}

	result, err := store.GetOrderWithDetails(ctx, order.ID)
	if err != nil {
		return model.Order{}, fmt.Errorf("load order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Order{}, fmt.Errorf("commit tx: %w", err)
	}
	return result, nil
}

// AdvanceItemRequest moves a single line item through the kitchen
// workflow. ActorRole is the authenticated role; admin may fire any
// action.
type AdvanceItemRequest struct {
	OrderDetailID int64
	Action        string
	ActorRole     string
}

// AdvanceItem applies one lifecycle action to a line item. Transition
// legality is decided here and nowhere else; a rejection mutates
// nothing and carries the message the dashboard shows.
func (s *OrderService) AdvanceItem(ctx context.Context, req AdvanceItemRequest) (model.OrderDetail, error) {
	required, err := lifecycle.RoleFor(req.Action)
	if err != nil {
		return model.OrderDetail{}, err
	}
	if req.ActorRole != "" && req.ActorRole != required && req.ActorRole != enum.RoleAdmin {
		return model.OrderDetail{}, ErrActionNotAllowed
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.OrderDetail{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	detail, err := store.GetOrderDetail(ctx, req.OrderDetailID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.OrderDetail{}, ErrItemNotFound
		}
		return model.OrderDetail{}, fmt.Errorf("get order detail: %w", err)
	}

	next, err := lifecycle.Advance(req.Action, detail.Status)
	if err != nil {
		return model.OrderDetail{}, err
	}

	updated, err := store.UpdateOrderDetailStatus(ctx, database.UpdateOrderDetailStatusParams{
		ID:     detail.ID,
		Status: next,
	})
	if err != nil {
		return model.OrderDetail{}, fmt.Errorf("update order detail: %w", err)
	}
	updated.Menu = detail.Menu

	if err := store.TouchOrder(ctx, detail.OrderID); err != nil {
		return model.OrderDetail{}, fmt.Errorf("touch order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.OrderDetail{}, fmt.Errorf("commit tx: %w", err)
	}
	return updated, nil
}

// RequestBillRequest opens a payment for an order.
type RequestBillRequest struct {
	OrderID  int64
	WaiterID int64
}

// RequestBill creates the order's pending payment. At most one payment
// ever exists per order; a second request is rejected without touching
// the first.
func (s *OrderService) RequestBill(ctx context.Context, req RequestBillRequest) (model.Payment, error) {
	var lastErr error
	for attempt := 0; attempt < maxNumberRetries; attempt++ {
		payment, err := s.requestBillTx(ctx, req)
		if err == nil {
			return payment, nil
		}
		if isUniqueViolation(err) {
			lastErr = err
			continue
		}
		return model.Payment{}, err
	}
	return model.Payment{}, lastErr
}

func (s *OrderService) requestBillTx(ctx context.Context, req RequestBillRequest) (model.Payment, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.Payment{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrder(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Payment{}, ErrOrderNotFound
		}
		return model.Payment{}, fmt.Errorf("get order: %w", err)
	}
	if order.Status == enum.OrderStatusCompleted {
		return model.Payment{}, ErrOrderCompleted
	}

	if _, err := store.GetPaymentByOrder(ctx, req.OrderID); err == nil {
		return model.Payment{}, ErrBillAlreadyRequested
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return model.Payment{}, fmt.Errorf("get payment: %w", err)
	}

	nextNum, err := store.GetNextPaymentNumber(ctx)
	if err != nil {
		return model.Payment{}, fmt.Errorf("get next payment number: %w", err)
	}
	payment, err := store.CreatePayment(ctx, database.CreatePaymentParams{
		PaymentNumber: fmt.Sprintf("PAY-%03d", nextNum),
		OrderID:       req.OrderID,
		WaiterID:      req.WaiterID,
	})
	if err != nil {
		return model.Payment{}, fmt.Errorf("create payment: %w", err)
	}

	if err := store.TouchOrder(ctx, req.OrderID); err != nil {
		return model.Payment{}, fmt.Errorf("touch order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Payment{}, fmt.Errorf("commit tx: %w", err)
	}
	return payment, nil
}

// ProcessPaymentRequest settles an order's bill.
type ProcessPaymentRequest struct {
	OrderID       int64
	PaymentMethod string
	CashierID     int64
}

// ProcessPayment completes the payment and the order, records the
// cashier, and frees the table when no other active order holds it.
func (s *OrderService) ProcessPayment(ctx context.Context, req ProcessPaymentRequest) (model.Payment, error) {
	if !isValidPaymentMethod(req.PaymentMethod) {
		return model.Payment{}, ErrInvalidPayMethod
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.Payment{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	payment, err := store.GetPaymentByOrder(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Payment{}, ErrBillNotRequested
		}
		return model.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	if payment.PaymentStatus == enum.PaymentStatusCompleted {
		return model.Payment{}, ErrPaymentCompleted
	}

	completed, err := store.CompletePayment(ctx, database.CompletePaymentParams{
		ID:            payment.ID,
		PaymentMethod: req.PaymentMethod,
		CashierID:     req.CashierID,
	})
	if err != nil {
		// The guarded UPDATE matches nothing when another cashier won.
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Payment{}, ErrPaymentCompleted
		}
		return model.Payment{}, fmt.Errorf("complete payment: %w", err)
	}

	order, err := store.CompleteOrder(ctx, req.OrderID)
	if err != nil {
		return model.Payment{}, fmt.Errorf("complete order: %w", err)
	}

	active, err := store.CountActiveOrdersByTable(ctx, order.TableID)
	if err != nil {
		return model.Payment{}, fmt.Errorf("count active orders: %w", err)
	}
	if active == 0 {
		table, err := store.GetTable(ctx, order.TableID)
		if err != nil {
			return model.Payment{}, fmt.Errorf("get table: %w", err)
		}
		// Reservation and out-of-service are operator-set; only an
		// occupied table is released.
		if table.Status == enum.TableStatusOccupied {
			if err := store.UpdateTableStatus(ctx, database.UpdateTableStatusParams{
				ID:     order.TableID,
				Status: enum.TableStatusAvailable,
			}); err != nil {
				return model.Payment{}, fmt.Errorf("update table status: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Payment{}, fmt.Errorf("commit tx: %w", err)
	}
	return completed, nil
}

// --- Helpers ---

func isValidPaymentMethod(s string) bool {
	switch s {
	case enum.PaymentMethodCash, enum.PaymentMethodCard, enum.PaymentMethodQR:
		return true
	}
	return false
}

// isUniqueViolation checks for a unique constraint race on the generated
// order/payment numbers (pgconn error code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" &&
			(pgErr.ConstraintName == "orders_order_number_key" ||
				pgErr.ConstraintName == "payments_payment_number_key")
	}
	return false
}
