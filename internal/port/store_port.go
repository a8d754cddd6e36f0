package port

import (
	"context"
	"errors"

	"github.com/nikolayk812/storefront-checkout/internal/domain"
)

// PricingSource supplies the store-wide inputs of the order total computation.
type PricingSource interface {
	ListTaxRates(ctx context.Context) ([]domain.TaxRate, error)
	ListShippingMethods(ctx context.Context) ([]domain.ShippingMethod, error)
	ListPaymentGateways(ctx context.Context) ([]domain.PaymentGateway, error)
}

type ProductCatalog interface {
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
}

type CouponSource interface {
	GetCoupon(ctx context.Context, code string) (domain.Coupon, error)
}

type OrderWriter interface {
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus, setPaid bool) (domain.Order, error)
}

var (
	// ErrNotFound is returned by collaborators when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable is returned by collaborators that cannot be reached or failed on their side.
	ErrUnavailable = errors.New("unavailable")
)
