package handler

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/dineflow-pos/api/internal/database"
	"github.com/dineflow-pos/api/internal/enum"
	"github.com/dineflow-pos/api/internal/model"
)

type mockTableStore struct {
	listTablesFn  func(ctx context.Context, activeOnly bool) ([]model.Table, error)
	createTableFn func(ctx context.Context, arg database.CreateTableParams) (model.Table, error)
	updateTableFn func(ctx context.Context, arg database.UpdateTableParams) (model.Table, error)
	deleteTableFn func(ctx context.Context, id int64) error
}

func (m *mockTableStore) ListTables(ctx context.Context, activeOnly bool) ([]model.Table, error) {
	return m.listTablesFn(ctx, activeOnly)
}

func (m *mockTableStore) CreateTable(ctx context.Context, arg database.CreateTableParams) (model.Table, error) {
	return m.createTableFn(ctx, arg)
}

func (m *mockTableStore) UpdateTable(ctx context.Context, arg database.UpdateTableParams) (model.Table, error) {
	return m.updateTableFn(ctx, arg)
}

func (m *mockTableStore) DeleteTable(ctx context.Context, id int64) error {
	return m.deleteTableFn(ctx, id)
}

func TestTableCreate_DefaultsToAvailable(t *testing.T) {
	var got database.CreateTableParams
	store := &mockTableStore{
		createTableFn: func(ctx context.Context, arg database.CreateTableParams) (model.Table, error) {
			got = arg
			return model.Table{ID: 1, TableNo: arg.TableNo, Capacity: arg.Capacity, Status: arg.Status}, nil
		},
	}
	h := NewTableHandler(store)
	router := authenticated("/admin/tables", h.RegisterRoutes)

	body := map[string]any{"table_no": "T7", "capacity": 4}
	req := authedRequest(t, "POST", "/admin/tables/create", body, 1, enum.RoleAdmin)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	env := requireEnvelope(t, rr, 0)
	var table model.Table
	decodeData(t, env, &table)
	if table.TableNo != "T7" {
		t.Errorf("table no = %q", table.TableNo)
	}
	if got.Status != enum.TableStatusAvailable {
		t.Errorf("status = %q, want available default", got.Status)
	}
}

func TestTableCreate_MissingTableNo(t *testing.T) {
	h := NewTableHandler(&mockTableStore{})
	router := authenticated("/admin/tables", h.RegisterRoutes)

	req := authedRequest(t, "POST", "/admin/tables/create", map[string]any{"capacity": 4}, 1, enum.RoleAdmin)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	env := requireEnvelope(t, rr, 1)
	if env.Message != "TableNo is required" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestTableEdit_NotFound(t *testing.T) {
	store := &mockTableStore{
		updateTableFn: func(ctx context.Context, arg database.UpdateTableParams) (model.Table, error) {
			return model.Table{}, pgx.ErrNoRows
		},
	}
	h := NewTableHandler(store)
	router := authenticated("/admin/tables", h.RegisterRoutes)

	body := map[string]any{"id": 99, "table_no": "T9", "capacity": 2, "status": "reservation"}
	req := authedRequest(t, "POST", "/admin/tables/edit", body, 1, enum.RoleAdmin)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	env := requireEnvelope(t, rr, 1)
	if env.Message != "Table not found" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestTableDelete(t *testing.T) {
	var deleted int64
	store := &mockTableStore{
		deleteTableFn: func(ctx context.Context, id int64) error {
			deleted = id
			return nil
		},
	}
	h := NewTableHandler(store)
	router := authenticated("/admin/tables", h.RegisterRoutes)

	req := authedRequest(t, "POST", "/admin/tables/3/delete", nil, 1, enum.RoleAdmin)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	requireEnvelope(t, rr, 0)
	if deleted != 3 {
		t.Errorf("deleted id = %d, want 3", deleted)
	}
}
