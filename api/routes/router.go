package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luxemart/storefront/api/controllers"
	"github.com/luxemart/storefront/api/middleware"
	"github.com/luxemart/storefront/internal/repo"
	"github.com/luxemart/storefront/pkg/config"
	"github.com/luxemart/storefront/pkg/db"
	"github.com/luxemart/storefront/pkg/logger"
	"github.com/luxemart/storefront/pkg/metrics"
)

// NewRouter wires the stub API. rateStore may be nil; auth throttling is
// skipped entirely in that case.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	store repo.Repository,
	rateStore middleware.RateLimiterStore,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	reqMetrics := metrics.NewRequestMetrics(registry)

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, reqMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, logg))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, rateStore, logg)).
			Post("/register", controllers.Register(store, cfg.Password, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).
			Post("/login", controllers.Login(store, cfg.JWT, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).
			Post("/admin-login", controllers.AdminLogin(store, cfg.JWT, logg))
	})

	// Catalog reads are public; the storefront browses without a token.
	r.Get("/api/products", controllers.ListProducts(store, logg))
	r.Get("/api/products/{id}", controllers.GetProduct(store, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Post("/api/orders", controllers.CreateOrder(store, logg))
		r.Get("/api/orders", controllers.ListOrders(store, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))

			r.Post("/api/products", controllers.CreateProduct(store, logg))
			r.Put("/api/products/{id}", controllers.UpdateProduct(store, logg))
			r.Delete("/api/products/{id}", controllers.DeleteProduct(store, logg))

			r.Put("/api/orders/{id}/status", controllers.UpdateOrderStatus(store, logg))

			r.Get("/api/users", controllers.ListUsers(store, logg))
			r.Put("/api/users/{id}", controllers.UpdateUser(store, logg))
			r.Delete("/api/users/{id}", controllers.DeleteUser(store, logg))

			r.Get("/api/reports/all", controllers.Reports(store, logg))
		})
	})

	return r
}
