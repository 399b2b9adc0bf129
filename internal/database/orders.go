package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dineflow-pos/api/internal/model"
)

// --- tables ---

const getTableSQL = `
SELECT id, table_no, capacity, status, created_at, updated_at
FROM tables WHERE id = $1`

func (q *Queries) GetTable(ctx context.Context, id int64) (model.Table, error) {
	var t model.Table
	err := q.db.QueryRow(ctx, getTableSQL, id).Scan(
		&t.ID, &t.TableNo, &t.Capacity, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

type UpdateTableStatusParams struct {
	ID     int64
	Status string
}

const updateTableStatusSQL = `
UPDATE tables SET status = $2, updated_at = now() WHERE id = $1`

func (q *Queries) UpdateTableStatus(ctx context.Context, arg UpdateTableStatusParams) error {
	tag, err := q.db.Exec(ctx, updateTableStatusSQL, arg.ID, arg.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListTables returns every table with its non-completed order summaries
// attached. Out-of-service tables are excluded when activeOnly is set
// (the waiter's currentTableList).
func (q *Queries) ListTables(ctx context.Context, activeOnly bool) ([]model.Table, error) {
	sql := `
SELECT id, table_no, capacity, status, created_at, updated_at
FROM tables`
	if activeOnly {
		sql += ` WHERE status <> 'outofservice'`
	}
	sql += ` ORDER BY table_no`

	rows, err := q.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []model.Table
	ids := []int64{}
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(&t.ID, &t.TableNo, &t.Capacity, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Orders = []model.OrderSummary{}
		tables = append(tables, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return tables, nil
	}

	const activeOrdersSQL = `
SELECT id, order_number, status, table_id
FROM orders
WHERE table_id = ANY($1) AND status <> 'completed'
ORDER BY created_at`
	orows, err := q.db.Query(ctx, activeOrdersSQL, ids)
	if err != nil {
		return nil, err
	}
	defer orows.Close()

	byTable := make(map[int64][]model.OrderSummary)
	for orows.Next() {
		var s model.OrderSummary
		var tableID int64
		if err := orows.Scan(&s.ID, &s.OrderNumber, &s.Status, &tableID); err != nil {
			return nil, err
		}
		byTable[tableID] = append(byTable[tableID], s)
	}
	if err := orows.Err(); err != nil {
		return nil, err
	}

	for i := range tables {
		if summaries, ok := byTable[tables[i].ID]; ok {
			tables[i].Orders = summaries
		}
	}
	return tables, nil
}

type CreateTableParams struct {
	TableNo  string
	Capacity int32
	Status   string
}

const createTableSQL = `
INSERT INTO tables (table_no, capacity, status)
VALUES ($1, $2, $3)
RETURNING id, table_no, capacity, status, created_at, updated_at`

func (q *Queries) CreateTable(ctx context.Context, arg CreateTableParams) (model.Table, error) {
	var t model.Table
	err := q.db.QueryRow(ctx, createTableSQL, arg.TableNo, arg.Capacity, arg.Status).Scan(
		&t.ID, &t.TableNo, &t.Capacity, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

type UpdateTableParams struct {
	ID       int64
	TableNo  string
	Capacity int32
	Status   string
}

const updateTableSQL = `
UPDATE tables SET table_no = $2, capacity = $3, status = $4, updated_at = now()
WHERE id = $1
RETURNING id, table_no, capacity, status, created_at, updated_at`

func (q *Queries) UpdateTable(ctx context.Context, arg UpdateTableParams) (model.Table, error) {
	var t model.Table
	err := q.db.QueryRow(ctx, updateTableSQL, arg.ID, arg.TableNo, arg.Capacity, arg.Status).Scan(
		&t.ID, &t.TableNo, &t.Capacity, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

const deleteTableSQL = `DELETE FROM tables WHERE id = $1`

func (q *Queries) DeleteTable(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, deleteTableSQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// --- orders ---

const getNextOrderNumberSQL = `
SELECT COALESCE(MAX(id), 0) + 1 FROM orders`

func (q *Queries) GetNextOrderNumber(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, getNextOrderNumberSQL).Scan(&n)
	return n, err
}

type CreateOrderParams struct {
	OrderNumber string
	TableID     int64
	WaiterID    int64
}

const createOrderSQL = `
INSERT INTO orders (order_number, status, table_id, waiter_id)
VALUES ($1, 'pending', $2, $3)
RETURNING id, order_number, status, table_id, created_at, updated_at`

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (model.Order, error) {
	var o model.Order
	err := q.db.QueryRow(ctx, createOrderSQL, arg.OrderNumber, arg.TableID, arg.WaiterID).Scan(
		&o.ID, &o.OrderNumber, &o.Status, &o.TableID, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

const getOrderSQL = `
SELECT o.id, o.order_number, o.status, o.table_id, o.created_at, o.updated_at, t.table_no
FROM orders o
JOIN tables t ON t.id = o.table_id
WHERE o.id = $1`

func (q *Queries) GetOrder(ctx context.Context, id int64) (model.Order, error) {
	var o model.Order
	err := q.db.QueryRow(ctx, getOrderSQL, id).Scan(
		&o.ID, &o.OrderNumber, &o.Status, &o.TableID, &o.CreatedAt, &o.UpdatedAt, &o.Table.TableNo,
	)
	o.Table.ID = o.TableID
	return o, err
}

const touchOrderSQL = `
UPDATE orders SET updated_at = now() WHERE id = $1`

// TouchOrder bumps an order's updated_at so supervisor boards sorted by
// recency reflect item-level activity.
func (q *Queries) TouchOrder(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, touchOrderSQL, id)
	return err
}

const completeOrderSQL = `
UPDATE orders SET status = 'completed', updated_at = now()
WHERE id = $1
RETURNING id, order_number, status, table_id, created_at, updated_at`

func (q *Queries) CompleteOrder(ctx context.Context, id int64) (model.Order, error) {
	var o model.Order
	err := q.db.QueryRow(ctx, completeOrderSQL, id).Scan(
		&o.ID, &o.OrderNumber, &o.Status, &o.TableID, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

const countActiveOrdersByTableSQL = `
SELECT COUNT(*) FROM orders WHERE table_id = $1 AND status <> 'completed'`

func (q *Queries) CountActiveOrdersByTable(ctx context.Context, tableID int64) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countActiveOrdersByTableSQL, tableID).Scan(&n)
	return n, err
}

// --- order details ---

type CreateOrderDetailParams struct {
	OrderID  int64
	MenuID   int64
	Quantity int32
	Note     string
}

const createOrderDetailSQL = `
INSERT INTO order_details (order_id, menu_id, quantity, note, status)
VALUES ($1, $2, $3, $4, 'pending')
RETURNING id, order_id, menu_id, quantity, note, status, created_at, updated_at`

func (q *Queries) CreateOrderDetail(ctx context.Context, arg CreateOrderDetailParams) (model.OrderDetail, error) {
	var d model.OrderDetail
	err := q.db.QueryRow(ctx, createOrderDetailSQL, arg.OrderID, arg.MenuID, arg.Quantity, arg.Note).Scan(
		&d.ID, &d.OrderID, &d.MenuID, &d.Quantity, &d.Note, &d.Status, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

const getOrderDetailSQL = `
SELECT d.id, d.order_id, d.menu_id, d.quantity, d.note, d.status, d.created_at, d.updated_at,
       m.id, m.name, m.price, m.profile
FROM order_details d
JOIN menus m ON m.id = d.menu_id
WHERE d.id = $1`

func (q *Queries) GetOrderDetail(ctx context.Context, id int64) (model.OrderDetail, error) {
	var d model.OrderDetail
	var price pgtype.Numeric
	err := q.db.QueryRow(ctx, getOrderDetailSQL, id).Scan(
		&d.ID, &d.OrderID, &d.MenuID, &d.Quantity, &d.Note, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		&d.Menu.ID, &d.Menu.Name, &price, &d.Menu.Profile,
	)
	d.Menu.Price = numericToDecimal(price)
	return d, err
}

type UpdateOrderDetailStatusParams struct {
	ID     int64
	Status string
}

const updateOrderDetailStatusSQL = `
UPDATE order_details SET status = $2, updated_at = now()
WHERE id = $1
RETURNING id, order_id, menu_id, quantity, note, status, created_at, updated_at`

func (q *Queries) UpdateOrderDetailStatus(ctx context.Context, arg UpdateOrderDetailStatusParams) (model.OrderDetail, error) {
	var d model.OrderDetail
	err := q.db.QueryRow(ctx, updateOrderDetailStatusSQL, arg.ID, arg.Status).Scan(
		&d.ID, &d.OrderID, &d.MenuID, &d.Quantity, &d.Note, &d.Status, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

const listOrderDetailsSQL = `
SELECT d.id, d.order_id, d.menu_id, d.quantity, d.note, d.status, d.created_at, d.updated_at,
       m.id, m.name, m.price, m.profile
FROM order_details d
JOIN menus m ON m.id = d.menu_id
WHERE d.order_id = ANY($1)
ORDER BY d.created_at`

func (q *Queries) listOrderDetails(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderDetail, error) {
	rows, err := q.db.Query(ctx, listOrderDetailsSQL, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byOrder := make(map[int64][]model.OrderDetail)
	for rows.Next() {
		var d model.OrderDetail
		var price pgtype.Numeric
		if err := rows.Scan(
			&d.ID, &d.OrderID, &d.MenuID, &d.Quantity, &d.Note, &d.Status, &d.CreatedAt, &d.UpdatedAt,
			&d.Menu.ID, &d.Menu.Name, &price, &d.Menu.Profile,
		); err != nil {
			return nil, err
		}
		d.Menu.Price = numericToDecimal(price)
		byOrder[d.OrderID] = append(byOrder[d.OrderID], d)
	}
	return byOrder, rows.Err()
}

// ListOrderDetailsByOrder returns an order's line items with their menus.
func (q *Queries) ListOrderDetailsByOrder(ctx context.Context, orderID int64) ([]model.OrderDetail, error) {
	byOrder, err := q.listOrderDetails(ctx, []int64{orderID})
	if err != nil {
		return nil, err
	}
	details := byOrder[orderID]
	if details == nil {
		details = []model.OrderDetail{}
	}
	return details, nil
}

// --- payments ---

const getPaymentByOrderSQL = `
SELECT id, payment_number, COALESCE(payment_method, ''), payment_status,
       order_id, waiter_id, cashier_id, created_at, updated_at
FROM payments WHERE order_id = $1`

func (q *Queries) GetPaymentByOrder(ctx context.Context, orderID int64) (model.Payment, error) {
	var p model.Payment
	err := q.db.QueryRow(ctx, getPaymentByOrderSQL, orderID).Scan(
		&p.ID, &p.PaymentNumber, &p.PaymentMethod, &p.PaymentStatus,
		&p.OrderID, &p.WaiterID, &p.CashierID, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

const getNextPaymentNumberSQL = `
SELECT COALESCE(MAX(id), 0) + 1 FROM payments`

func (q *Queries) GetNextPaymentNumber(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, getNextPaymentNumberSQL).Scan(&n)
	return n, err
}

type CreatePaymentParams struct {
	PaymentNumber string
	OrderID       int64
	WaiterID      int64
}

const createPaymentSQL = `
INSERT INTO payments (payment_number, payment_status, order_id, waiter_id)
VALUES ($1, 'pending', $2, $3)
RETURNING id, payment_number, COALESCE(payment_method, ''), payment_status,
          order_id, waiter_id, cashier_id, created_at, updated_at`

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) (model.Payment, error) {
	var p model.Payment
	err := q.db.QueryRow(ctx, createPaymentSQL, arg.PaymentNumber, arg.OrderID, arg.WaiterID).Scan(
		&p.ID, &p.PaymentNumber, &p.PaymentMethod, &p.PaymentStatus,
		&p.OrderID, &p.WaiterID, &p.CashierID, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

type CompletePaymentParams struct {
	ID            int64
	PaymentMethod string
	CashierID     int64
}

const completePaymentSQL = `
UPDATE payments
SET payment_method = $2, payment_status = 'completed', cashier_id = $3, updated_at = now()
WHERE id = $1 AND payment_status = 'pending'
RETURNING id, payment_number, COALESCE(payment_method, ''), payment_status,
          order_id, waiter_id, cashier_id, created_at, updated_at`

func (q *Queries) CompletePayment(ctx context.Context, arg CompletePaymentParams) (model.Payment, error) {
	var p model.Payment
	err := q.db.QueryRow(ctx, completePaymentSQL, arg.ID, arg.PaymentMethod, arg.CashierID).Scan(
		&p.ID, &p.PaymentNumber, &p.PaymentMethod, &p.PaymentStatus,
		&p.OrderID, &p.WaiterID, &p.CashierID, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// --- aggregate reads ---

func (q *Queries) listOrdersWhere(ctx context.Context, where string, args ...any) ([]model.Order, error) {
	sql := `
SELECT o.id, o.order_number, o.status, o.table_id, o.created_at, o.updated_at, t.table_no
FROM orders o
JOIN tables t ON t.id = o.table_id ` + where + `
ORDER BY o.created_at`

	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []model.Order
	ids := []int64{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.Status, &o.TableID, &o.CreatedAt, &o.UpdatedAt, &o.Table.TableNo); err != nil {
			return nil, err
		}
		o.Table.ID = o.TableID
		o.OrderDetails = []model.OrderDetail{}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []model.Order{}, nil
	}

	details, err := q.listOrderDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	const paymentsSQL = `
SELECT id, payment_number, COALESCE(payment_method, ''), payment_status,
       order_id, waiter_id, cashier_id, created_at, updated_at
FROM payments WHERE order_id = ANY($1)`
	prows, err := q.db.Query(ctx, paymentsSQL, ids)
	if err != nil {
		return nil, err
	}
	defer prows.Close()

	payments := make(map[int64]*model.Payment)
	for prows.Next() {
		var p model.Payment
		if err := prows.Scan(
			&p.ID, &p.PaymentNumber, &p.PaymentMethod, &p.PaymentStatus,
			&p.OrderID, &p.WaiterID, &p.CashierID, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		pp := p
		payments[p.OrderID] = &pp
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if d, ok := details[orders[i].ID]; ok {
			orders[i].OrderDetails = d
		}
		orders[i].Payment = payments[orders[i].ID]
	}
	return orders, nil
}

// ListActiveOrders returns all non-completed orders with their details,
// tables, and payments. Source for the chef queue and the waiter ready list.
func (q *Queries) ListActiveOrders(ctx context.Context) ([]model.Order, error) {
	return q.listOrdersWhere(ctx, `WHERE o.status <> 'completed'`)
}

// ListPaymentOrders returns orders that have a payment record, for the
// cashier's board and receipt views.
func (q *Queries) ListPaymentOrders(ctx context.Context) ([]model.Order, error) {
	return q.listOrdersWhere(ctx, `WHERE EXISTS (SELECT 1 FROM payments p WHERE p.order_id = o.id)`)
}

// GetOrderWithDetails returns one order fully hydrated (bill dialog).
func (q *Queries) GetOrderWithDetails(ctx context.Context, id int64) (model.Order, error) {
	orders, err := q.listOrdersWhere(ctx, `WHERE o.id = $1`, id)
	if err != nil {
		return model.Order{}, err
	}
	if len(orders) == 0 {
		return model.Order{}, pgx.ErrNoRows
	}
	return orders[0], nil
}
