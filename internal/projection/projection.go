// Package projection derives the role-shaped read views from the raw
// order list. Every function is pure: input list in, output list out,
// recomputed on each refetch and never cached or mutated in place. No
// projection is a system of record; mutations go through the canonical
// order endpoints.
package projection

import (
	"sort"
	"time"

	"github.com/dineflow-pos/api/internal/enum"
	"github.com/dineflow-pos/api/internal/model"
)

// QueueItem is one flattened line item annotated with its order and table,
// as shown on the chef's preparation queue and the waiter's ready list.
type QueueItem struct {
	ID           int64         `json:"id"`
	OrderID      int64         `json:"order_id"`
	OrderNumber  string        `json:"order_number"`
	TableNo      string        `json:"table_no"`
	Menu         model.MenuRef `json:"menu"`
	Quantity     int32         `json:"quantity"`
	Note         string        `json:"note"`
	Status       string        `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	OrderUpdated time.Time     `json:"order_updated"`
}

// PaymentOrder is the cashier's shape: one row per billed order with the
// payment fields hoisted to the top level.
type PaymentOrder struct {
	ID            int64               `json:"id"`
	OrderNumber   string              `json:"order_number"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	PaymentID     int64               `json:"payment_id"`
	PaymentMethod string              `json:"payment_method"`
	PaymentNumber string              `json:"payment_number"`
	OrderDetails  []model.OrderDetail `json:"order_details"`
	Table         model.TableRef      `json:"table"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func flatten(orders []model.Order) []QueueItem {
	var items []QueueItem
	for _, o := range orders {
		for _, d := range o.OrderDetails {
			items = append(items, QueueItem{
				ID:           d.ID,
				OrderID:      o.ID,
				OrderNumber:  o.OrderNumber,
				TableNo:      o.Table.TableNo,
				Menu:         d.Menu,
				Quantity:     d.Quantity,
				Note:         d.Note,
				Status:       d.Status,
				CreatedAt:    d.CreatedAt,
				UpdatedAt:    d.UpdatedAt,
				OrderUpdated: o.UpdatedAt,
			})
		}
	}
	return items
}

// ChefQueue flattens all line items of the active orders into one
// preparation queue, oldest touched first. Served items are excluded;
// ready items stay visible so the chef sees what is waiting for pickup.
func ChefQueue(orders []model.Order) []QueueItem {
	items := flatten(orders)
	actionable := items[:0]
	for _, it := range items {
		if it.Status != enum.OrderItemStatusServed {
			actionable = append(actionable, it)
		}
	}
	sort.SliceStable(actionable, func(i, j int) bool {
		return actionable[i].UpdatedAt.Before(actionable[j].UpdatedAt)
	})
	return actionable
}

// ReadyOrderList flattens line items across all tables filtered to
// pending/preparing/ready, driving the waiter's serve action. Ordered by
// item creation time so the longest-waiting items surface first.
func ReadyOrderList(orders []model.Order) []QueueItem {
	items := flatten(orders)
	open := items[:0]
	for _, it := range items {
		switch it.Status {
		case enum.OrderItemStatusPending, enum.OrderItemStatusPreparing, enum.OrderItemStatusReady:
			open = append(open, it)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].CreatedAt.Before(open[j].CreatedAt)
	})
	return open
}

// PaymentBoard shapes billed orders for the cashier: only orders with a
// payment record appear, most recently touched first. Completed rows are
// kept for receipt views.
func PaymentBoard(orders []model.Order) []PaymentOrder {
	var board []PaymentOrder
	for _, o := range orders {
		if o.Payment == nil {
			continue
		}
		board = append(board, PaymentOrder{
			ID:            o.ID,
			OrderNumber:   o.OrderNumber,
			Status:        o.Status,
			PaymentStatus: o.Payment.PaymentStatus,
			PaymentID:     o.Payment.ID,
			PaymentMethod: o.Payment.PaymentMethod,
			PaymentNumber: o.Payment.PaymentNumber,
			OrderDetails:  o.OrderDetails,
			Table:         o.Table,
			CreatedAt:     o.CreatedAt,
			UpdatedAt:     o.UpdatedAt,
		})
	}
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].UpdatedAt.After(board[j].UpdatedAt)
	})
	return board
}
