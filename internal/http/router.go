package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/storefront-checkout/internal/checkout"
	"github.com/nikolayk812/storefront-checkout/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const defaultRequestTimeout = 30 * time.Second

type CheckoutService interface {
	Session(ctx context.Context, ownerID string) (*checkout.Session, error)
	Mutate(ctx context.Context, ownerID string, fn func(sess *checkout.Session) error) (*checkout.Session, error)
	Checkout(ctx context.Context, ownerID string) (checkout.CheckoutResult, error)
	ConfirmPayment(ctx context.Context, orderID int64) (domain.Order, error)
}

func NewRouter(svc CheckoutService, gatherer prometheus.Gatherer, logger *zap.Logger, timeout time.Duration) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	h := NewHandler(svc, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/health", healthHandler)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/carts/{ownerID}", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Post("/items", h.AddItem)
			r.Patch("/items/{productID}", h.UpdateItem)
			r.Delete("/items/{productID}", h.RemoveItem)
			r.Post("/coupons", h.ApplyCoupon)
			r.Delete("/coupons/{code}", h.RemoveCoupon)
			r.Put("/shipping", h.SelectShipping)
			r.Post("/checkout", h.Checkout)
		})
		r.Post("/orders/{orderID}/payment", h.ConfirmPayment)
	})

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "checkout",
	})
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
