package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velvetloom/velvetloom-backend/api/controllers"
	"github.com/velvetloom/velvetloom-backend/api/middleware"
	"github.com/velvetloom/velvetloom-backend/internal/address"
	"github.com/velvetloom/velvetloom-backend/internal/auth"
	"github.com/velvetloom/velvetloom-backend/internal/cart"
	"github.com/velvetloom/velvetloom-backend/internal/catalog"
	"github.com/velvetloom/velvetloom-backend/internal/orders"
	"github.com/velvetloom/velvetloom-backend/internal/wishlist"
	"github.com/velvetloom/velvetloom-backend/pkg/config"
	"github.com/velvetloom/velvetloom-backend/pkg/db"
	"github.com/velvetloom/velvetloom-backend/pkg/logger"
	"github.com/velvetloom/velvetloom-backend/pkg/metrics"
	"github.com/velvetloom/velvetloom-backend/pkg/redis"
)

// Deps bundles everything the router needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *db.Client
	Redis       *redis.Client
	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics

	Auth      auth.Service
	Catalog   catalog.Service
	Cart      cart.Service
	Orders    orders.Service
	Wishlist  wishlist.Service
	Addresses address.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
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

	requireAuth := middleware.Auth(cfg.JWT, logg)
	requireAdmin := middleware.RequireAdmin(logg)

	passthrough := func(next http.Handler) http.Handler { return next }
	rateLimit := func(policy middleware.AuthRateLimitPolicy) func(http.Handler) http.Handler {
		if deps.Redis == nil {
			return passthrough
		}
		return middleware.AuthRateLimit(policy, deps.Redis, logg)
	}
	idempotent := passthrough
	if deps.Redis != nil {
		idempotent = middleware.Idempotency(deps.Redis, logg)
	}

	var dbPing, cachePing interface {
		Ping(ctx context.Context) error
	}
	if deps.DB != nil {
		dbPing = deps.DB
	}
	if deps.Redis != nil {
		cachePing = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbPing, cachePing, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(rateLimit(registerPolicy)).
				With(idempotent).
				Post("/register", controllers.Register(deps.Auth, logg))
			r.With(rateLimit(loginPolicy)).
				Post("/login", controllers.Login(deps.Auth, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Catalog, logg))
			r.Get("/{productID}", controllers.GetProduct(deps.Catalog, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/{productID}/reviews", controllers.AddReview(deps.Catalog, logg))
				r.Put("/{productID}/reviews", controllers.UpdateReview(deps.Catalog, logg))
				r.Delete("/{productID}/reviews", controllers.DeleteReview(deps.Catalog, logg))
			})
		})

		// Public order tracking by order number.
		r.Get("/track/{orderRef}", controllers.TrackOrder(deps.Orders, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/me", controllers.Profile(deps.Auth, logg))
			r.Put("/me", controllers.UpdateProfile(deps.Auth, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.Cart, logg))
				r.Post("/items", controllers.AddCartItem(deps.Cart, logg))
				r.Put("/items", controllers.UpdateCartItem(deps.Cart, logg))
				r.Delete("/items/{productID}", controllers.RemoveCartItem(deps.Cart, logg))
				r.Delete("/", controllers.ClearCart(deps.Cart, logg))
			})

			r.Post("/checkout/preview", controllers.PreviewCheckout(deps.Orders, logg))
			r.With(idempotent).
				Post("/checkout", controllers.Checkout(deps.Orders, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListMyOrders(deps.Orders, logg))
				r.Get("/{orderRef}", controllers.GetOrder(deps.Orders, logg))
				r.With(idempotent).
					Post("/{orderRef}/cancel", controllers.CancelOrder(deps.Orders, logg))
				r.With(idempotent).
					Post("/{orderRef}/return", controllers.RequestReturn(deps.Orders, logg))
				r.Delete("/{orderRef}", controllers.DeleteOrder(deps.Orders, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.ListWishlist(deps.Wishlist, logg))
				r.Post("/{productID}", controllers.AddWishlistItem(deps.Wishlist, logg))
				r.Delete("/{productID}", controllers.RemoveWishlistItem(deps.Wishlist, logg))
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.ListAddresses(deps.Addresses, logg))
				r.Post("/", controllers.CreateAddress(deps.Addresses, logg))
				r.Put("/{addressID}", controllers.UpdateAddress(deps.Addresses, logg))
				r.Delete("/{addressID}", controllers.DeleteAddress(deps.Addresses, logg))
				r.Post("/{addressID}/default", controllers.SetDefaultAddress(deps.Addresses, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.With(rateLimit(loginPolicy)).
			Post("/auth/login", controllers.AdminLogin(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.AdminCreateProduct(deps.Catalog, logg))
				r.Put("/{productID}", controllers.AdminUpdateProduct(deps.Catalog, logg))
				r.Delete("/{productID}", controllers.AdminDeleteProduct(deps.Catalog, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
				r.Get("/{orderRef}", controllers.GetOrder(deps.Orders, logg))
				r.Put("/{orderRef}/status", controllers.AdminUpdateOrderStatus(deps.Orders, logg))
				r.Delete("/{orderRef}", controllers.DeleteOrder(deps.Orders, logg))
			})
		})
	})

	return r
}
