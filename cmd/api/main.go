package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/lbstore/storefront-backend/api/controllers"
	"github.com/lbstore/storefront-backend/api/routes"
	"github.com/lbstore/storefront-backend/internal/auth"
	"github.com/lbstore/storefront-backend/internal/cart"
	"github.com/lbstore/storefront-backend/internal/checkout"
	"github.com/lbstore/storefront-backend/internal/coupons"
	"github.com/lbstore/storefront-backend/internal/products"
	"github.com/lbstore/storefront-backend/pkg/auth/session"
	"github.com/lbstore/storefront-backend/pkg/config"
	"github.com/lbstore/storefront-backend/pkg/db"
	"github.com/lbstore/storefront-backend/pkg/env"
	"github.com/lbstore/storefront-backend/pkg/logger"
	"github.com/lbstore/storefront-backend/pkg/metrics"
	"github.com/lbstore/storefront-backend/pkg/migrate"
	"github.com/lbstore/storefront-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storefrontMetrics := metrics.NewStorefront(reg)

	productService, err := products.NewService(products.NewRepository(dbClient.DB()), logg, storefrontMetrics)
	if err != nil {
		return err
	}
	couponService, err := coupons.NewService(coupons.NewRepository(dbClient.DB()), logg, storefrontMetrics)
	if err != nil {
		return err
	}
	cartService, err := cart.NewService(cart.ServiceParams{
		Products:  productService,
		Coupons:   couponService,
		Persister: cart.NewRedisPersister(redisClient, cfg.Cart.TTL),
		Logger:    logg,
		Metrics:   storefrontMetrics,
	})
	if err != nil {
		return err
	}
	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Carts:         cartService,
		AppTitle:      cfg.Storefront.AppTitle,
		DefaultNumber: cfg.Storefront.WhatsAppNumber,
		Logger:        logg,
		Metrics:       storefrontMetrics,
	})
	if err != nil {
		return err
	}
	authService, err := auth.NewService(auth.ServiceParams{
		Admins:         auth.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return err
	}

	if cfg.Admin.HasBootstrap() {
		if err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return err
		}
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config: cfg,
			Logger: logg,
			Readiness: map[string]controllers.Pinger{
				"db":    dbClient,
				"redis": redisClient,
			},
			Sessions:    sessionManager,
			RateLimiter: redisClient,
			Metrics:     storefrontMetrics,
			Gatherer:    reg,
			Auth:        authService,
			Products:    productService,
			Coupons:     couponService,
			Cart:        cartService,
			Checkout:    checkoutService,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
