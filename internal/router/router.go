package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dineflow-pos/api/internal/config"
	"github.com/dineflow-pos/api/internal/database"
	"github.com/dineflow-pos/api/internal/enum"
	"github.com/dineflow-pos/api/internal/handler"
	mw "github.com/dineflow-pos/api/internal/middleware"
	"github.com/dineflow-pos/api/internal/service"
	"github.com/dineflow-pos/api/internal/ws"
)

// New creates a Chi router with all application routes wired up:
// public login, role-gated dashboard subtrees, admin CRUD, and the
// optional websocket push channel.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	})

	// hub may be nil in tests; handlers treat a nil Notifier as no push.
	var notifier handler.Notifier
	if hub != nil {
		notifier = hub
	}

	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.RoleWaiter))
			waiterHandler := handler.NewWaiterHandler(queries, orderService, notifier)
			r.Route("/waiter", waiterHandler.RegisterRoutes)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.RoleChef))
			chefHandler := handler.NewChefHandler(queries, orderService, notifier)
			r.Route("/chef", chefHandler.RegisterRoutes)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.RoleCashier))
			cashierHandler := handler.NewCashierHandler(queries, orderService, notifier)
			r.Route("/cashier", cashierHandler.RegisterRoutes)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.RoleAdmin))

			r.Route("/admin/tables", handler.NewTableHandler(queries).RegisterRoutes)
			r.Route("/admin/menus", handler.NewMenuHandler(queries).RegisterRoutes)
			r.Route("/admin/menu-categories", handler.NewMenuCategoryHandler(queries).RegisterRoutes)
			r.Route("/admin/inventories", handler.NewInventoryHandler(queries).RegisterRoutes)
			r.Route("/admin/item-categories", handler.NewItemCategoryHandler(queries).RegisterRoutes)
			r.Route("/admin/suppliers", handler.NewSupplierHandler(queries).RegisterRoutes)
			r.Route("/admin/purchases", handler.NewPurchaseHandler(queries).RegisterRoutes)

			employeeHandler := handler.NewEmployeeHandler(queries)
			r.Route("/admin/employees", employeeHandler.RegisterRoutes)
			r.Route("/admin/roles", employeeHandler.RegisterRoleRoutes)
		})
	})

	return r
}
