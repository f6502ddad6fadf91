package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/retailpoint/posadmin-backend/api/controllers"
	"github.com/retailpoint/posadmin-backend/api/middleware"
	authsvc "github.com/retailpoint/posadmin-backend/internal/auth"
	catalogsvc "github.com/retailpoint/posadmin-backend/internal/catalog"
	inventorysvc "github.com/retailpoint/posadmin-backend/internal/inventory"
	productsvc "github.com/retailpoint/posadmin-backend/internal/products"
	salesvc "github.com/retailpoint/posadmin-backend/internal/sales"
	transactionsvc "github.com/retailpoint/posadmin-backend/internal/transactions"
	transfersvc "github.com/retailpoint/posadmin-backend/internal/transfers"
	usersvc "github.com/retailpoint/posadmin-backend/internal/users"
	warehousesvc "github.com/retailpoint/posadmin-backend/internal/warehouses"
	"github.com/retailpoint/posadmin-backend/pkg/auth/session"
	"github.com/retailpoint/posadmin-backend/pkg/config"
	"github.com/retailpoint/posadmin-backend/pkg/db"
	"github.com/retailpoint/posadmin-backend/pkg/enums"
	"github.com/retailpoint/posadmin-backend/pkg/logger"
	"github.com/retailpoint/posadmin-backend/pkg/metrics"
	"github.com/retailpoint/posadmin-backend/pkg/redis"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Auth         authsvc.Service
	Catalog      catalogsvc.Service
	Products     productsvc.Service
	Warehouses   warehousesvc.Service
	Inventory    inventorysvc.Service
	Transfers    transfersvc.Service
	Sales        salesvc.Service
	Transactions transactionsvc.Service
	Users        usersvc.Service
}

// NewRouter assembles the HTTP surface: public health and auth endpoints plus
// the authenticated, role-gated admin API.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	dbP db.Pinger,
	redisP redis.Pinger,
	sessions session.AccessSessionChecker,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg.JWT, logg))
		if !cfg.App.IsProd() {
			r.Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		}
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		// Catalog reads serve every screen.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg))
			r.Get("/catalog", controllers.CatalogList(svcs.Catalog, logg))
			r.Get("/catalog/{productId}", controllers.CatalogDetail(svcs.Catalog, logg))
		})

		// Register screens.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, enums.UserRoleAdmin, enums.UserRoleCashier))
			r.Post("/checkout", controllers.Checkout(svcs.Sales, logg))
			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", controllers.TransactionList(svcs.Transactions, logg))
				r.Get("/{transactionId}", controllers.TransactionDetail(svcs.Transactions, logg))
			})
		})

		// Inventory management screens.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, enums.UserRoleAdmin, enums.UserRoleInventory))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.ProductCreate(svcs.Products, logg))
				r.Patch("/{productId}", controllers.ProductUpdate(svcs.Products, logg))
				r.Delete("/{productId}", controllers.ProductDelete(svcs.Products, logg))
			})
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", controllers.CategoryList(svcs.Products, logg))
				r.Post("/", controllers.CategoryCreate(svcs.Products, logg))
				r.Put("/{categoryId}", controllers.CategoryUpdate(svcs.Products, logg))
				r.Delete("/{categoryId}", controllers.CategoryDelete(svcs.Products, logg))
			})
			r.Route("/warehouses", func(r chi.Router) {
				r.Get("/", controllers.WarehouseList(svcs.Warehouses, logg))
				r.Post("/", controllers.WarehouseCreate(svcs.Warehouses, logg))
				r.Get("/{warehouseId}", controllers.WarehouseDetail(svcs.Warehouses, logg))
				r.Put("/{warehouseId}", controllers.WarehouseUpdate(svcs.Warehouses, logg))
				r.Delete("/{warehouseId}", controllers.WarehouseDelete(svcs.Warehouses, logg))
			})
			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", controllers.InventoryList(svcs.Inventory, logg))
				r.Post("/", controllers.InventoryCreate(svcs.Inventory, logg))
				r.Patch("/{recordId}", controllers.InventoryUpdate(svcs.Inventory, logg))
				r.Delete("/{recordId}", controllers.InventoryDelete(svcs.Inventory, logg))
			})
			r.Route("/transfers", func(r chi.Router) {
				r.Get("/", controllers.TransferList(svcs.Transfers, logg))
				r.Post("/", controllers.TransferCreate(svcs.Transfers, logg))
				r.Get("/{transferId}", controllers.TransferDetail(svcs.Transfers, logg))
				r.Post("/{transferId}/execute", controllers.TransferExecute(svcs.Transfers, logg))
				r.Post("/{transferId}/cancel", controllers.TransferCancel(svcs.Transfers, logg))
			})
		})

		// Settings screens.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, enums.UserRoleAdmin))
			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.UserList(svcs.Users, logg))
				r.Patch("/{userId}/role", controllers.UserUpdateRole(svcs.Users, logg))
				r.Patch("/{userId}/active", controllers.UserSetActive(svcs.Users, logg))
			})
		})
	})

	return r
}
