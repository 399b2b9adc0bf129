package handler

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dineflow-pos/api/internal/enum"
	"github.com/dineflow-pos/api/internal/lifecycle"
	"github.com/dineflow-pos/api/internal/model"
	"github.com/dineflow-pos/api/internal/projection"
	"github.com/dineflow-pos/api/internal/service"
)

func TestWaiterProceedOrder_PassesClaims(t *testing.T) {
	var got service.ProceedOrderRequest
	svc := &mockOrderServicer{
		proceedOrderFn: func(ctx context.Context, req service.ProceedOrderRequest) (model.Order, error) {
			got = req
			return model.Order{ID: 3, OrderNumber: "ORD-003", Status: enum.OrderStatusPending}, nil
		},
	}
	notifier := &recordNotifier{}
	h := NewWaiterHandler(&mockDashboardStore{}, svc, notifier)
	router := authenticated("/waiter", h.RegisterRoutes)

	// The full dashboard payload: name, price, status, and waiter_id
	// ride along and must be ignored in favor of server-derived values.
	body := map[string]any{
		"table_id":  5,
		"waiter_id": 99,
		"status":    "pending",
		"order_list": []map[string]any{
			{"id": 1, "name": "Fried Rice", "price": 5, "quantity": 2, "note": ""},
			{"id": 2, "name": "Iced Tea", "price": 2, "quantity": 1, "note": "no ice"},
		},
	}
	req := authedRequest(t, "POST", "/waiter/orders/proceedOrder", body, 7, enum.RoleWaiter)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	env := requireEnvelope(t, rr, 0)
	var order model.Order
	decodeData(t, env, &order)
	if order.OrderNumber != "ORD-003" {
		t.Errorf("order number = %q", order.OrderNumber)
	}

	if got.WaiterID != 7 {
		t.Errorf("waiter id = %d, want 7 (from claims, not the payload)", got.WaiterID)
	}
	if got.TableID != 5 {
		t.Errorf("table id = %d, want 5", got.TableID)
	}
	if len(got.Items) != 2 || got.Items[0].MenuID != 1 || got.Items[1].Note != "no ice" {
		t.Errorf("items = %+v", got.Items)
	}
	if len(notifier.orderUpdates) != 1 || notifier.orderUpdates[0] != 3 {
		t.Errorf("order updates = %v, want [3]", notifier.orderUpdates)
	}
}

func TestWaiterProceedOrder_AppErrorInEnvelope(t *testing.T) {
	svc := &mockOrderServicer{
		proceedOrderFn: func(ctx context.Context, req service.ProceedOrderRequest) (model.Order, error) {
			return model.Order{}, service.ErrTableOutOfService
		},
	}
	notifier := &recordNotifier{}
	h := NewWaiterHandler(&mockDashboardStore{}, svc, notifier)
	router := authenticated("/waiter", h.RegisterRoutes)

	body := map[string]any{
		"table_id":   5,
		"order_list": []map[string]any{{"id": 1, "quantity": 1}},
	}
	req := authedRequest(t, "POST", "/waiter/orders/proceedOrder", body, 7, enum.RoleWaiter)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	env := requireEnvelope(t, rr, 1)
	if env.Message != "Table is out of service" {
		t.Errorf("message = %q", env.Message)
	}
	if len(notifier.orderUpdates) != 0 {
		t.Error("rejected mutation must not notify")
	}
}

func TestWaiterProceedOrder_EmptyCartRejected(t *testing.T) {
	h := NewWaiterHandler(&mockDashboardStore{}, &mockOrderServicer{}, nil)
	router := authenticated("/waiter", h.RegisterRoutes)

	body := map[string]any{"table_id": 5, "order_list": []map[string]any{}}
	req := authedRequest(t, "POST", "/waiter/orders/proceedOrder", body, 7, enum.RoleWaiter)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	env := requireEnvelope(t, rr, 1)
	if env.Message != "OrderList is required" {
		t.Errorf("message = %q, want OrderList is required", env.Message)
	}
}

func TestWaiterServeOrder_FiresServeAction(t *testing.T) {
	var got service.AdvanceItemRequest
	svc := &mockOrderServicer{
		advanceItemFn: func(ctx context.Context, req service.AdvanceItemRequest) (model.OrderDetail, error) {
			got = req
			return model.OrderDetail{ID: req.OrderDetailID, OrderID: 9, Status: enum.OrderItemStatusServed}, nil
		},
	}
	h := NewWaiterHandler(&mockDashboardStore{}, svc, nil)
	router := authenticated("/waiter", h.RegisterRoutes)

	// The dashboard sends the full payload; only the detail id matters.
	body := map[string]any{"order_id": 9, "orderDetail_id": 44, "quantity": 2, "status": "ready"}
	req := authedRequest(t, "POST", "/waiter/orders/serveOrder", body, 7, enum.RoleWaiter)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	requireEnvelope(t, rr, 0)
	if got.Action != lifecycle.ActionServe {
		t.Errorf("action = %q, want %q", got.Action, lifecycle.ActionServe)
	}
	if got.ActorRole != enum.RoleWaiter {
		t.Errorf("actor role = %q, want waiter", got.ActorRole)
	}
	if got.OrderDetailID != 44 {
		t.Errorf("detail id = %d, want 44", got.OrderDetailID)
	}
}

func TestWaiterRequestBill_Notifies(t *testing.T) {
	svc := &mockOrderServicer{
		requestBillFn: func(ctx context.Context, req service.RequestBillRequest) (model.Payment, error) {
			if req.WaiterID != 7 {
				t.Errorf("waiter id = %d, want 7", req.WaiterID)
			}
			return model.Payment{ID: 1, PaymentNumber: "PAY-001", OrderID: req.OrderID, PaymentStatus: enum.PaymentStatusPending}, nil
		},
	}
	notifier := &recordNotifier{}
	h := NewWaiterHandler(&mockDashboardStore{}, svc, notifier)
	router := authenticated("/waiter", h.RegisterRoutes)

	req := authedRequest(t, "POST", "/waiter/orders/requestBill", map[string]any{"order_id": 9}, 7, enum.RoleWaiter)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	env := requireEnvelope(t, rr, 0)
	var payment model.Payment
	decodeData(t, env, &payment)
	if payment.PaymentNumber != "PAY-001" {
		t.Errorf("payment number = %q", payment.PaymentNumber)
	}
	if len(notifier.paymentUpdates) != 1 || notifier.paymentUpdates[0] != 9 {
		t.Errorf("payment updates = %v, want [9]", notifier.paymentUpdates)
	}
}

func TestWaiterReadyOrderList_ExcludesServed(t *testing.T) {
	now := time.Now()
	store := &mockDashboardStore{
		listActiveOrdersFn: func(ctx context.Context) ([]model.Order, error) {
			return []model.Order{{
				ID: 1, OrderNumber: "ORD-001", Table: model.TableRef{TableNo: "T1"},
				OrderDetails: []model.OrderDetail{
					{ID: 10, Status: enum.OrderItemStatusReady, CreatedAt: now},
					{ID: 11, Status: enum.OrderItemStatusServed, CreatedAt: now.Add(time.Second)},
					{ID: 12, Status: enum.OrderItemStatusPending, CreatedAt: now.Add(2 * time.Second)},
				},
			}}, nil
		},
	}
	h := NewWaiterHandler(store, &mockOrderServicer{}, nil)
	router := authenticated("/waiter", h.RegisterRoutes)

	req := authedRequest(t, "GET", "/waiter/orders/readyOrderList", nil, 7, enum.RoleWaiter)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	env := requireEnvelope(t, rr, 0)
	var items []projection.QueueItem
	decodeData(t, env, &items)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].ID != 10 || items[1].ID != 12 {
		t.Errorf("item ids = %d,%d, want 10,12", items[0].ID, items[1].ID)
	}
}

func TestWaiterTableLists_ActiveFlag(t *testing.T) {
	var calls []bool
	store := &mockDashboardStore{
		listTablesFn: func(ctx context.Context, activeOnly bool) ([]model.Table, error) {
			calls = append(calls, activeOnly)
			return []model.Table{}, nil
		},
	}
	h := NewWaiterHandler(store, &mockOrderServicer{}, nil)
	router := authenticated("/waiter", h.RegisterRoutes)

	for _, path := range []string{"/waiter/tableList", "/waiter/currentTableList"} {
		req := authedRequest(t, "GET", path, nil, 7, enum.RoleWaiter)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		requireEnvelope(t, rr, 0)
	}

	if len(calls) != 2 || calls[0] != false || calls[1] != true {
		t.Errorf("activeOnly calls = %v, want [false true]", calls)
	}
}
