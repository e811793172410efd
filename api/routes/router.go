package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lbstore/storefront-backend/api/controllers"
	"github.com/lbstore/storefront-backend/api/middleware"
	"github.com/lbstore/storefront-backend/internal/auth"
	"github.com/lbstore/storefront-backend/internal/cart"
	"github.com/lbstore/storefront-backend/internal/checkout"
	"github.com/lbstore/storefront-backend/internal/coupons"
	"github.com/lbstore/storefront-backend/internal/products"
	"github.com/lbstore/storefront-backend/pkg/auth/session"
	"github.com/lbstore/storefront-backend/pkg/config"
	"github.com/lbstore/storefront-backend/pkg/logger"
	"github.com/lbstore/storefront-backend/pkg/metrics"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Deps is everything the router mounts. RateLimiter and Gatherer may be nil.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Readiness   map[string]controllers.Pinger
	Sessions    session.AccessSessionChecker
	RateLimiter rateLimiter
	Metrics     *metrics.Storefront
	Gatherer    prometheus.Gatherer

	Auth     auth.Service
	Products products.Service
	Coupons  coupons.Service
	Cart     cart.Service
	Checkout checkout.Service
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.Metrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	requireAuth := middleware.Auth(cfg.JWT, d.Sessions, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.Readiness))
	})

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(d.Products))
		r.Get("/coupons", controllers.ListActiveCoupons(d.Coupons))

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.CartSession(logg))
			r.Get("/", controllers.GetCart(d.Cart, logg))
			r.Post("/items", controllers.AddCartItem(d.Cart, logg))
			r.Put("/items/{productId}/selection", controllers.SelectCartQuantity(d.Cart, logg))
			r.Patch("/items/{productId}", controllers.UpdateCartItem(d.Cart, logg))
			r.Delete("/items/{productId}", controllers.RemoveCartItem(d.Cart, logg))
			r.Post("/coupon", controllers.ApplyCartCoupon(d.Cart, logg))
			r.Delete("/coupon", controllers.RemoveCartCoupon(d.Cart, logg))
			r.Put("/contact", controllers.SetCartContact(d.Cart, logg))
			r.Post("/checkout", controllers.Checkout(d.Checkout, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			login := r.With()
			if d.RateLimiter != nil {
				login = r.With(middleware.AuthRateLimit(loginPolicy, d.RateLimiter, logg))
			}
			login.Post("/login", controllers.AdminLogin(d.Auth, logg))
			r.With(requireAuth).Post("/logout", controllers.AdminLogout(d.Auth, logg))
		})

		r.Group(func(r chi.Router) {
			if cfg.Admin.RequireAuth {
				r.Use(requireAuth, middleware.RequireAdmin(logg))
			}

			r.Get("/products", controllers.ListProducts(d.Products))
			r.Post("/products", controllers.AdminCreateProduct(d.Products, logg))
			r.Patch("/products/{productId}", controllers.AdminUpdateProduct(d.Products, logg))
			r.Delete("/products/{productId}", controllers.AdminDeleteProduct(d.Products, logg))

			r.Get("/coupons", controllers.AdminListCoupons(d.Coupons))
			r.Post("/coupons", controllers.AdminCreateCoupon(d.Coupons, logg))
			r.Patch("/coupons/{couponId}", controllers.AdminUpdateCoupon(d.Coupons, logg))
			r.Post("/coupons/{couponId}/toggle", controllers.AdminToggleCoupon(d.Coupons, logg))
			r.Delete("/coupons/{couponId}", controllers.AdminDeleteCoupon(d.Coupons, logg))
		})
	})

	return r
}
