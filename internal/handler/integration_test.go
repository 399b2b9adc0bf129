//go:build integration

package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"github.com/dineflow-pos/api/internal/config"
	"github.com/dineflow-pos/api/internal/database"
	"github.com/dineflow-pos/api/internal/router"
	"github.com/dineflow-pos/api/internal/ws"
)

// TestIntegrationFlow runs the whole order lifecycle against a real
// PostgreSQL database: admin sets up the floor and the menu, the waiter
// seats a table, the chef cooks, the waiter serves and bills, the
// cashier settles, and the table frees up with the stock deducted.
func TestIntegrationFlow(t *testing.T) {
	ctx := context.Background()

	connStr, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	if err := database.Migrate(connStr, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	defer pool.Close()

	cfg := &config.Config{
		Port:        "8081",
		DatabaseURL: connStr,
		JWTSecret:   "integration-test-secret",
		CORSOrigins: []string{"http://localhost:5173"},
	}
	queries := database.New(pool)
	hub := ws.NewHub()
	// The hub goroutine leaks on test exit; it has no shutdown hook.
	go hub.Run()

	server := httptest.NewServer(router.New(cfg, queries, pool, hub))
	defer server.Close()

	// --- Bootstrap the admin account directly; everything else goes
	// through the API. ---
	bootstrapAdmin(t, ctx, pool)
	adminToken := login(t, server, "admin", "password123")

	roleIDs := fetchRoleIDs(t, server, adminToken)

	// --- Admin sets up the floor, the pantry, and the menu. ---
	table := postEnvelope(t, server, "/admin/tables/create", map[string]any{
		"table_no": "T1", "capacity": 4,
	}, adminToken)
	tableID := int64(table["id"].(float64))

	itemCategory := postEnvelope(t, server, "/admin/item-categories/create", map[string]any{
		"name": "Dry Goods",
	}, adminToken)
	rice := postEnvelope(t, server, "/admin/inventories/create", map[string]any{
		"name":             "Rice",
		"unit_of_measure":  "kg",
		"current_stock":    "10",
		"item_category_id": int64(itemCategory["id"].(float64)),
	}, adminToken)
	riceID := int64(rice["id"].(float64))

	menuCategory := postEnvelope(t, server, "/admin/menu-categories/create", map[string]any{
		"name": "Mains",
	}, adminToken)
	menu := postEnvelope(t, server, "/admin/menus/create", map[string]any{
		"name":        "Nasi Goreng",
		"price":       "15.00",
		"category_id": int64(menuCategory["id"].(float64)),
		"inventory_items": []map[string]any{
			{"item_id": riceID, "quantity": "0.3"},
		},
	}, adminToken)
	menuID := int64(menu["id"].(float64))

	// --- Admin hires the staff. ---
	for _, emp := range []struct {
		employeeID, name, username, role string
	}{
		{"EMP-002", "Wati", "wati", "waiter"},
		{"EMP-003", "Chandra", "chandra", "chef"},
		{"EMP-004", "Citra", "citra", "cashier"},
	} {
		postEnvelope(t, server, "/admin/employees/create", map[string]any{
			"employee_id": emp.employeeID,
			"full_name":   emp.name,
			"username":    emp.username,
			"password":    "password123",
			"role_id":     roleIDs[emp.role],
		}, adminToken)
	}

	waiterToken := login(t, server, "wati", "password123")
	chefToken := login(t, server, "chandra", "password123")
	cashierToken := login(t, server, "citra", "password123")

	// --- Waiter seats the table. ---
	order := postEnvelope(t, server, "/waiter/orders/proceedOrder", map[string]any{
		"table_id": tableID,
		"order_list": []map[string]any{
			{"id": menuID, "name": "Nasi Goreng", "price": 15, "quantity": 2, "note": "extra spicy"},
		},
	}, waiterToken)
	orderID := int64(order["id"].(float64))
	if got := order["order_number"].(string); got != "ORD-001" {
		t.Fatalf("order number = %q, want ORD-001", got)
	}

	tables := getEnvelopeList(t, server, "/waiter/currentTableList", waiterToken)
	if got := tables[0].(map[string]any)["status"].(string); got != "occupied" {
		t.Fatalf("table status = %q, want occupied", got)
	}

	// --- Chef cooks the item. ---
	queue := getEnvelopeList(t, server, "/chef/currentOrderList", chefToken)
	if len(queue) != 1 {
		t.Fatalf("chef queue = %d, want 1", len(queue))
	}
	detailID := int64(queue[0].(map[string]any)["id"].(float64))

	postEnvelope(t, server, "/chef/startPreparing", map[string]any{"orderDetail_id": detailID}, chefToken)
	postEnvelope(t, server, "/chef/markAsReady", map[string]any{"orderDetail_id": detailID}, chefToken)

	// Repeating an action is rejected with the exact dashboard message.
	_, msg := postExpectRejection(t, server, "/chef/markAsReady", map[string]any{"orderDetail_id": detailID}, chefToken)
	if msg != "Item already marked ready" {
		t.Fatalf("rejection = %q, want Item already marked ready", msg)
	}

	// --- Waiter serves, then requests the bill. ---
	postEnvelope(t, server, "/waiter/orders/serveOrder", map[string]any{"orderDetail_id": detailID}, waiterToken)
	payment := postEnvelope(t, server, "/waiter/orders/requestBill", map[string]any{"order_id": orderID}, waiterToken)
	if got := payment["payment_status"].(string); got != "pending" {
		t.Fatalf("payment status = %q, want pending", got)
	}

	_, msg = postExpectRejection(t, server, "/waiter/orders/requestBill", map[string]any{"order_id": orderID}, waiterToken)
	if msg != "Bill already requested" {
		t.Fatalf("rejection = %q, want Bill already requested", msg)
	}

	// --- Cashier settles. ---
	board := getEnvelopeList(t, server, "/cashier/paymentOrder", cashierToken)
	if len(board) != 1 {
		t.Fatalf("payment board = %d, want 1", len(board))
	}
	settled := postEnvelope(t, server, "/cashier/processPayment", map[string]any{
		"order_id": orderID, "payment_method": "cash",
	}, cashierToken)
	if got := settled["payment_status"].(string); got != "completed" {
		t.Fatalf("settled status = %q, want completed", got)
	}

	// --- Settlement closed the order and freed the table. ---
	closedOrder := getEnvelopeObject(t, server,
		fmt.Sprintf("/waiter/orders/getOrderById?orderId=%d", orderID), waiterToken)
	if got := closedOrder["status"].(string); got != "completed" {
		t.Fatalf("order status = %q, want completed", got)
	}

	tables = getEnvelopeList(t, server, "/waiter/currentTableList", waiterToken)
	if got := tables[0].(map[string]any)["status"].(string); got != "available" {
		t.Fatalf("table status after settle = %q, want available", got)
	}

	// --- The recipe was deducted from stock (0.3 kg x 2 servings). ---
	var stock decimal.Decimal
	if err := pool.QueryRow(ctx,
		`SELECT current_stock FROM inventories WHERE id = $1`, riceID).Scan(&stock); err != nil {
		t.Fatalf("read stock: %v", err)
	}
	if !stock.Equal(decimal.RequireFromString("9.4")) {
		t.Fatalf("stock = %s, want 9.4", stock)
	}
}

// --- Setup helpers ---

func setupPostgresContainer(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("pos_test"),
		tcpostgres.WithUsername("pos"),
		tcpostgres.WithPassword("pos"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}

	cleanup := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	}
	return connStr, cleanup
}

func bootstrapAdmin(t *testing.T, ctx context.Context, pool *pgxpool.Pool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	_, err = pool.Exec(ctx,
		`INSERT INTO employees (employee_id, full_name, role_id, username, password_hash)
		 VALUES ('EMP-001', 'Administrator', (SELECT id FROM roles WHERE name = 'admin'), 'admin', $1)`,
		string(hash))
	if err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}
}

func login(t *testing.T, server *httptest.Server, username, password string) string {
	t.Helper()
	data := postEnvelope(t, server, "/authorization/login", map[string]any{
		"username": username, "password": password,
	}, "")
	token, ok := data["token"].(string)
	if !ok || token == "" {
		t.Fatalf("login %s: no token in response: %+v", username, data)
	}
	return token
}

func fetchRoleIDs(t *testing.T, server *httptest.Server, token string) map[string]int64 {
	t.Helper()
	roles := getEnvelopeList(t, server, "/admin/roles", token)
	ids := make(map[string]int64, len(roles))
	for _, r := range roles {
		role := r.(map[string]any)
		ids[role["name"].(string)] = int64(role["id"].(float64))
	}
	return ids
}

// --- Envelope-aware HTTP helpers ---

type wireEnvelope struct {
	Data    json.RawMessage `json:"data"`
	Status  int             `json:"status"`
	Message string          `json:"message"`
}

func doRequest(t *testing.T, server *httptest.Server, method, path string, body map[string]any, token string) wireEnvelope {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, server.URL+path, &buf)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("%s %s: http status %d", method, path, resp.StatusCode)
	}
	var env wireEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode envelope: %v", method, path, err)
	}
	return env
}

func postEnvelope(t *testing.T, server *httptest.Server, path string, body map[string]any, token string) map[string]any {
	t.Helper()
	env := doRequest(t, server, "POST", path, body, token)
	if env.Status != 0 {
		t.Fatalf("POST %s rejected: %s", path, env.Message)
	}
	var data map[string]any
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("POST %s: decode data: %v", path, err)
		}
	}
	return data
}

func postExpectRejection(t *testing.T, server *httptest.Server, path string, body map[string]any, token string) (int, string) {
	t.Helper()
	env := doRequest(t, server, "POST", path, body, token)
	if env.Status == 0 {
		t.Fatalf("POST %s unexpectedly succeeded", path)
	}
	return env.Status, env.Message
}

func getEnvelopeObject(t *testing.T, server *httptest.Server, path, token string) map[string]any {
	t.Helper()
	env := doRequest(t, server, "GET", path, nil, token)
	if env.Status != 0 {
		t.Fatalf("GET %s rejected: %s", path, env.Message)
	}
	var data map[string]any
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("GET %s: decode data: %v", path, err)
	}
	return data
}

func getEnvelopeList(t *testing.T, server *httptest.Server, path, token string) []any {
	t.Helper()
	env := doRequest(t, server, "GET", path, nil, token)
	if env.Status != 0 {
		t.Fatalf("GET %s rejected: %s", path, env.Message)
	}
	var data []any
	if string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("GET %s: decode data: %v", path, err)
	}
	return data
}
