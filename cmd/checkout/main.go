package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-checkout/internal/cache"
	"github.com/nikolayk812/storefront-checkout/internal/checkout"
	"github.com/nikolayk812/storefront-checkout/internal/config"
	checkouthttp "github.com/nikolayk812/storefront-checkout/internal/http"
	"github.com/nikolayk812/storefront-checkout/internal/metrics"
	"github.com/nikolayk812/storefront-checkout/internal/port"
	"github.com/nikolayk812/storefront-checkout/internal/pricing"
	"github.com/nikolayk812/storefront-checkout/internal/repository"
	"github.com/nikolayk812/storefront-checkout/internal/woocommerce"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "checkout: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	logger, err := newLogger(cfg.LogDevelopment)
	if err != nil {
		return fmt.Errorf("newLogger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	woo, err := woocommerce.New(woocommerce.Config{
		BaseURL:         cfg.WooCommerce.BaseURL,
		ConsumerKey:     cfg.WooCommerce.ConsumerKey,
		ConsumerSecret:  cfg.WooCommerce.ConsumerSecret,
		Timeout:         cfg.WooCommerce.Timeout,
		Currency:        cfg.Checkout.Currency,
		ShippingZoneID:  cfg.WooCommerce.ShippingZoneID,
		BreakerFailures: uint32(cfg.WooCommerce.BreakerFailures),
		BreakerTimeout:  cfg.WooCommerce.BreakerTimeout,
	}, nil)
	if err != nil {
		return fmt.Errorf("woocommerce.New: %w", err)
	}

	carts, closeCarts, err := newCartRepository(ctx, cfg, woo)
	if err != nil {
		return fmt.Errorf("newCartRepository: %w", err)
	}
	defer closeCarts()

	var pricingSource port.PricingSource = woo
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = rdb.Close() }()

		// store settings may have changed while we were down
		if err := cache.Invalidate(ctx, rdb); err != nil {
			logger.Warn("invalidate pricing cache", zap.Error(err))
		}

		pricingSource = cache.NewPricingCache(woo, rdb, cfg.Redis.CacheTTL, logger)
	}

	svc := checkout.NewService(checkout.Deps{
		Carts:   carts,
		Pricing: pricingSource,
		Catalog: woo,
		Coupons: woo,
		Orders:  woo,
	}, checkout.Config{
		Currency:   cfg.Checkout.Currency,
		SessionTTL: cfg.Checkout.SessionTTL,
		Payments: pricing.PaymentSelector{
			CODGatewayID:     cfg.Checkout.CODGatewayID,
			OnlineGatewayIDs: cfg.Checkout.OnlineGatewayIDs,
		},
	}, logger, m)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           checkouthttp.NewRouter(svc, reg, logger, cfg.Server.RequestTimeout),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("checkout service starting",
			zap.Int("port", cfg.Server.Port),
			zap.String("cart_store", cfg.CartStore),
			zap.String("currency", cfg.Checkout.Currency.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}

	logger.Info("server exited")

	return nil
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newCartRepository(ctx context.Context, cfg config.Config, woo *woocommerce.Client) (port.CartRepository, func(), error) {
	if cfg.CartStore == config.CartStoreWooCommerce {
		return woocommerce.NewCustomerCartStore(woo), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("pool.Ping: %w", err)
	}

	return repository.NewCart(pool), pool.Close, nil
}
