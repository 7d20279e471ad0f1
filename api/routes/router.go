package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/H3nrYP0/optica-api/api/controllers"
	"github.com/H3nrYP0/optica-api/api/middleware"
	"github.com/H3nrYP0/optica-api/internal/appointments"
	"github.com/H3nrYP0/optica-api/internal/catalog"
	"github.com/H3nrYP0/optica-api/internal/dashboard"
	"github.com/H3nrYP0/optica-api/internal/entities"
	"github.com/H3nrYP0/optica-api/internal/orders"
	"github.com/H3nrYP0/optica-api/internal/people"
	"github.com/H3nrYP0/optica-api/internal/sales"
	"github.com/H3nrYP0/optica-api/internal/suppliers"
	"github.com/H3nrYP0/optica-api/internal/users"
	"github.com/H3nrYP0/optica-api/pkg/config"
	"github.com/H3nrYP0/optica-api/pkg/db"
	"github.com/H3nrYP0/optica-api/pkg/enums"
	"github.com/H3nrYP0/optica-api/pkg/logger"
	"github.com/H3nrYP0/optica-api/pkg/metrics"
	pkgredis "github.com/H3nrYP0/optica-api/pkg/redis"
)

// Services groups everything the router wires into handlers.
type Services struct {
	Catalog      catalog.Service
	People       people.Service
	Suppliers    suppliers.Service
	Sales        sales.Service
	Appointments appointments.Service
	Orders       orders.Service
	Users        users.Service
	Dashboard    dashboard.Service
	Entities     entities.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.CORSOrigins...),
		middleware.Logging(logg),
	)
	if httpMetrics != nil {
		r.Use(middleware.Metrics(httpMetrics))
	}

	var cachePinger pkgredis.Pinger
	if redisClient != nil {
		cachePinger = redisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, cachePinger, logg))
	})
	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	r.Post("/auth/login", controllers.Login(svcs.Users, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		if redisClient != nil {
			r.Use(middleware.Idempotency(redisClient, logg))
		}

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", controllers.ListBrands(svcs.Catalog, logg))
			r.Post("/", controllers.CreateBrand(svcs.Catalog, logg))
			r.Get("/{id}", controllers.EntityDetailFor(enums.EntityBrands, svcs.Entities, logg))
			r.Put("/{id}", controllers.UpdateBrand(svcs.Catalog, logg))
			r.Delete("/{id}", controllers.DisableBrand(svcs.Catalog, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(svcs.Catalog, logg))
			r.Post("/", controllers.CreateCategory(svcs.Catalog, logg))
			r.Get("/{id}", controllers.EntityDetailFor(enums.EntityCategories, svcs.Entities, logg))
			r.Put("/{id}", controllers.UpdateCategory(svcs.Catalog, logg))
			r.Delete("/{id}", controllers.DisableCategory(svcs.Catalog, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Catalog, logg))
			r.Post("/", controllers.CreateProduct(svcs.Catalog, logg))
			r.Get("/low-stock", controllers.ListLowStockProducts(svcs.Catalog, logg))
			r.Get("/{id}", controllers.EntityDetailFor(enums.EntityProducts, svcs.Entities, logg))
			r.Put("/{id}", controllers.UpdateProduct(svcs.Catalog, logg))
			r.Delete("/{id}", controllers.DisableProduct(svcs.Catalog, logg))
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ListClients(svcs.People, logg))
			r.Post("/", controllers.CreateClient(svcs.People, logg))
			r.Get("/{id}", controllers.EntityDetailFor(enums.EntityClients, svcs.Entities, logg))
			r.Put("/{id}", controllers.UpdateClient(svcs.People, logg))
			r.Delete("/{id}", controllers.DisableClient(svcs.People, logg))
			r.Get("/{id}/prescriptions", controllers.ListClientPrescriptions(svcs.People, logg))
			r.Get("/{id}/orders", controllers.ListClientOrders(svcs.Orders, logg))
			r.Post("/{id}/prescriptions", controllers.CreatePrescription(svcs.People, logg))
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", controllers.ListEmployees(svcs.People, logg))
			r.Post("/", controllers.CreateEmployee(svcs.People, logg))
			r.Get("/{id}", controllers.EntityDetailFor(enums.EntityEmployees, svcs.Entities, logg))
			r.Put("/{id}", controllers.UpdateEmployee(svcs.People, logg))
			r.Delete("/{id}", controllers.DisableEmployee(svcs.People, logg))
			r.Put("/{id}/schedules", controllers.ReplaceEmployeeSchedules(svcs.People, logg))
			r.Get("/{id}/appointments", controllers.ListEmployeeAppointments(svcs.Appointments, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.ListSuppliers(svcs.Suppliers, logg))
			r.Post("/", controllers.CreateSupplier(svcs.Suppliers, logg))
			r.Get("/{id}", controllers.EntityDetailFor(enums.EntitySuppliers, svcs.Entities, logg))
			r.Put("/{id}", controllers.UpdateSupplier(svcs.Suppliers, logg))
			r.Delete("/{id}", controllers.DisableSupplier(svcs.Suppliers, logg))
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Get("/", controllers.ListPurchases(svcs.Suppliers, logg))
			r.Post("/", controllers.ReceivePurchase(svcs.Suppliers, logg))
			r.Get("/{id}", controllers.GetPurchase(svcs.Suppliers, logg))
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", controllers.ListServices(svcs.Appointments, logg))
			r.Post("/", controllers.CreateService(svcs.Appointments, logg))
			r.Get("/{id}", controllers.EntityDetailFor(enums.EntityServices, svcs.Entities, logg))
			r.Put("/{id}", controllers.UpdateService(svcs.Appointments, logg))
			r.Delete("/{id}", controllers.DisableService(svcs.Appointments, logg))
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Get("/", controllers.ListAppointments(svcs.Appointments, logg))
			r.Post("/", controllers.BookAppointment(svcs.Appointments, logg))
			r.Get("/statuses", controllers.ListAppointmentStatuses(svcs.Appointments, logg))
			r.Get("/{id}", controllers.EntityDetailFor(enums.EntityAppointments, svcs.Entities, logg))
			r.Put("/{id}/status", controllers.UpdateAppointmentStatus(svcs.Appointments, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.ListSales(svcs.Sales, logg))
			r.Post("/", controllers.CreateSale(svcs.Sales, logg))
			r.Get("/statuses", controllers.ListSaleStatuses(svcs.Sales, logg))
			r.Get("/{id}", controllers.EntityDetailFor(enums.EntitySales, svcs.Entities, logg))
			r.Get("/{id}/payments", controllers.ListSalePayments(svcs.Sales, logg))
			r.Post("/{id}/payments", controllers.RegisterPayment(svcs.Sales, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(svcs.Orders, logg))
			r.Post("/", controllers.CreateOrder(svcs.Orders, logg))
			r.Get("/{id}", controllers.GetOrder(svcs.Orders, logg))
			r.Get("/{id}/items", controllers.ListOrderItems(svcs.Orders, logg))
			r.Put("/{id}/status", controllers.UpdateOrderStatus(svcs.Orders, logg))
			r.Post("/{id}/convert-to-sale", controllers.ConvertOrderToSale(svcs.Orders, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, "admin"))
			r.Get("/", controllers.ListUsers(svcs.Users, logg))
			r.Post("/", controllers.CreateUser(svcs.Users, logg))
			r.Get("/{id}", controllers.EntityDetailFor(enums.EntityUsers, svcs.Entities, logg))
			r.Put("/{id}", controllers.UpdateUser(svcs.Users, logg))
			r.Delete("/{id}", controllers.DisableUser(svcs.Users, logg))
		})

		r.Route("/roles", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, "admin"))
			r.Get("/", controllers.ListRoles(svcs.Users, logg))
			r.Post("/", controllers.CreateRole(svcs.Users, logg))
			r.Put("/{id}/permissions", controllers.SetRolePermissions(svcs.Users, logg))
		})

		r.Get("/permissions", controllers.ListPermissions(svcs.Users, logg))
		r.Get("/dashboard/stats", controllers.DashboardStats(svcs.Dashboard, logg))
		r.Get("/{table}/{id}", controllers.EntityDetail(svcs.Entities, logg))
	})

	return r
}
