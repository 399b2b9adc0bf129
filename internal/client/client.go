// Package client is the polling synchronization layer the role
// dashboards are built on. It never caches server state of its own:
// the per-role views hold the last fetched projection and replace it
// wholesale after a successful refetch. Mutations refetch only the
// projections they affect, and only after the server confirmed success;
// a rejected mutation leaves the cached view exactly as it was.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dineflow-pos/api/internal/model"
	"github.com/dineflow-pos/api/internal/projection"
)

// ErrUnauthorized is returned on a transport-level 401; the caller
// drops its session and returns to the login screen.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a business rejection carried in the response envelope.
// Message is shown to the user verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Client talks to the POS backend.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New creates a Client for the given base URL. httpClient nil uses
// http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// SetToken installs the session token sent on every request.
func (c *Client) SetToken(token string) { c.token = token }

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Status  int             `json:"status"`
	Message string          `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusInternalServerError {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if env.Status != 0 {
		return &APIError{Status: env.Status, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// --- Authentication ---

type loginResult struct {
	Token string         `json:"token"`
	Role  string         `json:"role"`
	User  model.Employee `json:"user"`
}

// Login authenticates and installs the returned token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (model.Employee, string, error) {
	var res loginResult
	err := c.post(ctx, "/authorization/login", map[string]string{
		"username": username,
		"password": password,
	}, &res)
	if err != nil {
		return model.Employee{}, "", err
	}
	c.token = res.Token
	return res.User, res.Role, nil
}

// --- Waiter fetches ---

func (c *Client) TableList(ctx context.Context) ([]model.Table, error) {
	var tables []model.Table
	err := c.get(ctx, "/waiter/tableList", &tables)
	return tables, err
}

func (c *Client) CurrentTableList(ctx context.Context) ([]model.Table, error) {
	var tables []model.Table
	err := c.get(ctx, "/waiter/currentTableList", &tables)
	return tables, err
}

func (c *Client) Menus(ctx context.Context) ([]model.Menu, error) {
	var menus []model.Menu
	err := c.get(ctx, "/waiter/menus", &menus)
	return menus, err
}

func (c *Client) MenuCategories(ctx context.Context) ([]model.MenuCategory, error) {
	var categories []model.MenuCategory
	err := c.get(ctx, "/waiter/menu-categories", &categories)
	return categories, err
}

func (c *Client) GetOrderByID(ctx context.Context, orderID int64) (model.Order, error) {
	var order model.Order
	err := c.get(ctx, fmt.Sprintf("/waiter/orders/getOrderById?orderId=%d", orderID), &order)
	return order, err
}

func (c *Client) ReadyOrderList(ctx context.Context) ([]projection.QueueItem, error) {
	var items []projection.QueueItem
	err := c.get(ctx, "/waiter/orders/readyOrderList", &items)
	return items, err
}

// --- Waiter mutations ---

// CartItem is one line of a cart submission. The id is the menu id; the
// server reprices from the menus table.
type CartItem struct {
	MenuID   int64  `json:"id"`
	Quantity int32  `json:"quantity"`
	Note     string `json:"note,omitempty"`
}

type proceedOrderBody struct {
	TableID   int64      `json:"table_id"`
	OrderID   int64      `json:"order_id,omitempty"`
	OrderList []CartItem `json:"order_list"`
}

func (c *Client) ProceedOrder(ctx context.Context, tableID, orderID int64, items []CartItem) (model.Order, error) {
	var order model.Order
	err := c.post(ctx, "/waiter/orders/proceedOrder", proceedOrderBody{
		TableID:   tableID,
		OrderID:   orderID,
		OrderList: items,
	}, &order)
	return order, err
}

type itemActionBody struct {
	OrderDetailID int64 `json:"orderDetail_id"`
}

func (c *Client) ServeOrder(ctx context.Context, orderDetailID int64) (model.OrderDetail, error) {
	var detail model.OrderDetail
	err := c.post(ctx, "/waiter/orders/serveOrder", itemActionBody{OrderDetailID: orderDetailID}, &detail)
	return detail, err
}

type requestBillBody struct {
	OrderID int64 `json:"order_id"`
}

func (c *Client) RequestBill(ctx context.Context, orderID int64) (model.Payment, error) {
	var payment model.Payment
	err := c.post(ctx, "/waiter/orders/requestBill", requestBillBody{OrderID: orderID}, &payment)
	return payment, err
}

// --- Chef ---

func (c *Client) CurrentOrderList(ctx context.Context) ([]projection.QueueItem, error) {
	var items []projection.QueueItem
	err := c.get(ctx, "/chef/currentOrderList", &items)
	return items, err
}

func (c *Client) StartPreparing(ctx context.Context, orderDetailID int64) (model.OrderDetail, error) {
	var detail model.OrderDetail
	err := c.post(ctx, "/chef/startPreparing", itemActionBody{OrderDetailID: orderDetailID}, &detail)
	return detail, err
}

func (c *Client) MarkAsReady(ctx context.Context, orderDetailID int64) (model.OrderDetail, error) {
	var detail model.OrderDetail
	err := c.post(ctx, "/chef/markAsReady", itemActionBody{OrderDetailID: orderDetailID}, &detail)
	return detail, err
}

// --- Cashier ---

func (c *Client) PaymentOrder(ctx context.Context) ([]projection.PaymentOrder, error) {
	var board []projection.PaymentOrder
	err := c.get(ctx, "/cashier/paymentOrder", &board)
	return board, err
}

type processPaymentBody struct {
	OrderID       int64  `json:"order_id"`
	PaymentMethod string `json:"payment_method"`
}

func (c *Client) ProcessPayment(ctx context.Context, orderID int64, method string) (model.Payment, error) {
	var payment model.Payment
	err := c.post(ctx, "/cashier/processPayment", processPaymentBody{
		OrderID:       orderID,
		PaymentMethod: method,
	}, &payment)
	return payment, err
}
