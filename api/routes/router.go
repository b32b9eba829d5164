package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stefanobartoli/filiera-backend/api/controllers"
	"github.com/stefanobartoli/filiera-backend/api/middleware"
	"github.com/stefanobartoli/filiera-backend/internal/analytics"
	"github.com/stefanobartoli/filiera-backend/internal/auth"
	order "github.com/stefanobartoli/filiera-backend/internal/orders"
	product "github.com/stefanobartoli/filiera-backend/internal/products"
	supplier "github.com/stefanobartoli/filiera-backend/internal/suppliers"
	"github.com/stefanobartoli/filiera-backend/pkg/config"
	"github.com/stefanobartoli/filiera-backend/pkg/logger"
	"github.com/stefanobartoli/filiera-backend/pkg/metrics"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	HTTPMetrics *metrics.HTTPMetrics

	DBPinger    controllers.Pinger
	RedisPinger controllers.Pinger

	AuthService      auth.Service
	SupplierService  supplier.Service
	ProductService   product.Service
	OrderService     order.Service
	AnalyticsService analytics.Service
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(params.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg,
			controllers.NamedPinger{Name: "postgres", Pinger: params.DBPinger},
			controllers.NamedPinger{Name: "redis", Pinger: params.RedisPinger},
		))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(params.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.SupplierList(params.SupplierService, logg))
			r.Post("/", controllers.SupplierCreate(params.SupplierService, logg))
			r.Route("/{supplierID}", func(r chi.Router) {
				r.Get("/", controllers.SupplierGet(params.SupplierService, logg))
				r.Put("/", controllers.SupplierUpdate(params.SupplierService, logg))
				r.Delete("/", controllers.SupplierDelete(params.SupplierService, logg))
				r.Post("/contracts", controllers.SupplierAddContract(params.SupplierService, logg))
				r.Post("/ratings", controllers.SupplierRate(params.SupplierService, logg))
				r.Get("/performance", controllers.SupplierPerformance(params.SupplierService, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(params.ProductService, logg))
			r.Post("/", controllers.ProductCreate(params.ProductService, logg))
			r.Route("/{productID}", func(r chi.Router) {
				r.Get("/", controllers.ProductGet(params.ProductService, logg))
				r.Put("/", controllers.ProductUpdate(params.ProductService, logg))
				r.Delete("/", controllers.ProductDelete(params.ProductService, logg))
				r.Post("/variants", controllers.ProductAddVariant(params.ProductService, logg))
				r.Put("/variants/{variantID}", controllers.ProductUpdateVariant(params.ProductService, logg))
				r.Delete("/variants/{variantID}", controllers.ProductDeleteVariant(params.ProductService, logg))
				r.Post("/price-lists", controllers.ProductAddPriceList(params.ProductService, logg))
				r.Patch("/price-lists/{priceListID}/tiers/{tierID}", controllers.ProductUpdateTier(params.ProductService, logg))
				r.Get("/pricing-summary", controllers.ProductPricingSummary(params.ProductService, logg))
				r.Get("/margins", controllers.ProductVariantMargins(params.ProductService, logg))
				r.Get("/stats", controllers.ProductStats(params.ProductService, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(params.OrderService, logg))
			r.Post("/", controllers.OrderCreate(params.OrderService, logg))
			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", controllers.OrderGet(params.OrderService, logg))
				r.Put("/", controllers.OrderUpdate(params.OrderService, logg))
				r.Delete("/", controllers.OrderDelete(params.OrderService, logg))
				r.Post("/status", controllers.OrderUpdateStatus(params.OrderService, logg))
				r.Post("/items/{itemID}/grade", controllers.OrderGradeItem(params.OrderService, logg))
				r.Post("/milestones", controllers.OrderAddMilestone(params.OrderService, logg))
				r.Put("/milestones/{milestoneID}", controllers.OrderUpdateMilestone(params.OrderService, logg))
				r.Get("/returns", controllers.OrderListReturns(params.OrderService, logg))
				r.Post("/returns", controllers.OrderCreateReturn(params.OrderService, logg))
				r.Put("/returns/{returnID}", controllers.OrderUpdateReturnStatus(params.OrderService, logg))
			})
		})

		r.Get("/analytics/dashboard", controllers.AnalyticsDashboard(params.AnalyticsService, logg))
	})

	return r
}
