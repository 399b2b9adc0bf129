package client

import (
	"context"

	"github.com/dineflow-pos/api/internal/model"
	"github.com/dineflow-pos/api/internal/projection"
)

// WaiterView holds the waiter dashboard's last fetched state. Mutating
// methods refetch the affected projections only after the server
// accepted the mutation; on any error the cached state is unchanged.
type WaiterView struct {
	c *Client

	Tables    []model.Table
	ReadyList []projection.QueueItem
}

func NewWaiterView(c *Client) *WaiterView {
	return &WaiterView{c: c}
}

// Refresh reloads the table list and the ready-to-serve list.
func (v *WaiterView) Refresh(ctx context.Context) error {
	tables, err := v.c.CurrentTableList(ctx)
	if err != nil {
		return err
	}
	ready, err := v.c.ReadyOrderList(ctx)
	if err != nil {
		return err
	}
	v.Tables = tables
	v.ReadyList = ready
	return nil
}

// ProceedOrder submits the cart, then refetches the table list so the
// seated table shows as occupied.
func (v *WaiterView) ProceedOrder(ctx context.Context, tableID, orderID int64, items []CartItem) (model.Order, error) {
	order, err := v.c.ProceedOrder(ctx, tableID, orderID, items)
	if err != nil {
		return model.Order{}, err
	}
	if tables, err := v.c.CurrentTableList(ctx); err == nil {
		v.Tables = tables
	}
	return order, nil
}

// ServeOrder marks an item served, then refetches both the table list
// and the ready list.
func (v *WaiterView) ServeOrder(ctx context.Context, orderDetailID int64) (model.OrderDetail, error) {
	detail, err := v.c.ServeOrder(ctx, orderDetailID)
	if err != nil {
		return model.OrderDetail{}, err
	}
	if tables, err := v.c.CurrentTableList(ctx); err == nil {
		v.Tables = tables
	}
	if ready, err := v.c.ReadyOrderList(ctx); err == nil {
		v.ReadyList = ready
	}
	return detail, nil
}

// RequestBill opens a pending payment for the order.
func (v *WaiterView) RequestBill(ctx context.Context, orderID int64) (model.Payment, error) {
	return v.c.RequestBill(ctx, orderID)
}

// ChefView holds the kitchen queue.
type ChefView struct {
	c *Client

	Queue []projection.QueueItem
}

func NewChefView(c *Client) *ChefView {
	return &ChefView{c: c}
}

func (v *ChefView) Refresh(ctx context.Context) error {
	queue, err := v.c.CurrentOrderList(ctx)
	if err != nil {
		return err
	}
	v.Queue = queue
	return nil
}

func (v *ChefView) StartPreparing(ctx context.Context, orderDetailID int64) (model.OrderDetail, error) {
	detail, err := v.c.StartPreparing(ctx, orderDetailID)
	if err != nil {
		return model.OrderDetail{}, err
	}
	if queue, err := v.c.CurrentOrderList(ctx); err == nil {
		v.Queue = queue
	}
	return detail, nil
}

func (v *ChefView) MarkAsReady(ctx context.Context, orderDetailID int64) (model.OrderDetail, error) {
	detail, err := v.c.MarkAsReady(ctx, orderDetailID)
	if err != nil {
		return model.OrderDetail{}, err
	}
	if queue, err := v.c.CurrentOrderList(ctx); err == nil {
		v.Queue = queue
	}
	return detail, nil
}

// CashierView holds the payment board.
type CashierView struct {
	c *Client

	Board []projection.PaymentOrder
}

func NewCashierView(c *Client) *CashierView {
	return &CashierView{c: c}
}

func (v *CashierView) Refresh(ctx context.Context) error {
	board, err := v.c.PaymentOrder(ctx)
	if err != nil {
		return err
	}
	v.Board = board
	return nil
}

func (v *CashierView) ProcessPayment(ctx context.Context, orderID int64, method string) (model.Payment, error) {
	payment, err := v.c.ProcessPayment(ctx, orderID, method)
	if err != nil {
		return model.Payment{}, err
	}
	if board, err := v.c.PaymentOrder(ctx); err == nil {
		v.Board = board
	}
	return payment, nil
}
