package checkout

import (
	"context"
	"fmt"
	"slices"

	"github.com/nikolayk812/storefront-checkout/internal/domain"
	"github.com/nikolayk812/storefront-checkout/internal/metrics"
	"github.com/nikolayk812/storefront-checkout/internal/port"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	inputTaxRates        = "tax_rates"
	inputShippingMethods = "shipping_methods"
	inputPaymentGateways = "payment_gateways"
	inputProduct         = "product"
)

type Inputs struct {
	Items           []domain.CartItem
	TaxRates        []domain.TaxRate
	ShippingMethods []domain.ShippingMethod
	Gateways        []domain.PaymentGateway
}

type Loader struct {
	source  port.PricingSource
	catalog port.ProductCatalog
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewLoader(source port.PricingSource, catalog port.ProductCatalog, logger *zap.Logger, m *metrics.Metrics) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &Loader{
		source:  source,
		catalog: catalog,
		logger:  logger,
		metrics: m,
	}
}

// Load fetches every pricing input concurrently. A failed fetch degrades to an empty list,
// a failed product lookup keeps the stored line item. Only cancellation of ctx is an error.
func (l *Loader) Load(ctx context.Context, cart domain.Cart) (Inputs, error) {
	in := Inputs{
		Items: slices.Clone(cart.Items),
	}

	var g errgroup.Group

	g.Go(func() error {
		rates, err := l.source.ListTaxRates(ctx)
		if err != nil {
			l.degraded(inputTaxRates, cart.OwnerID, err)
			return nil
		}
		in.TaxRates = rates
		return nil
	})

	g.Go(func() error {
		methods, err := l.source.ListShippingMethods(ctx)
		if err != nil {
			l.degraded(inputShippingMethods, cart.OwnerID, err)
			return nil
		}
		in.ShippingMethods = methods
		return nil
	})

	g.Go(func() error {
		gateways, err := l.source.ListPaymentGateways(ctx)
		if err != nil {
			l.degraded(inputPaymentGateways, cart.OwnerID, err)
			return nil
		}
		in.Gateways = gateways
		return nil
	})

	if l.catalog != nil {
		for i := range in.Items {
			g.Go(func() error {
				product, err := l.catalog.GetProduct(ctx, in.Items[i].ProductID)
				if err != nil {
					l.degraded(inputProduct, cart.OwnerID, err, zap.Int64("product_id", in.Items[i].ProductID))
					return nil
				}
				in.Items[i] = refreshItem(in.Items[i], product)
				return nil
			})
		}
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Inputs{}, fmt.Errorf("load inputs: %w", err)
	}

	return in, nil
}

func (l *Loader) degraded(input, ownerID string, err error, fields ...zap.Field) {
	l.metrics.InputFetchFailures.WithLabelValues(input).Inc()
	l.logger.Warn("pricing input unavailable, using default",
		append([]zap.Field{zap.String("input", input), zap.String("owner_id", ownerID), zap.Error(err)}, fields...)...)
}

// refreshItem applies current catalog data to a stored line item, keeping its quantity.
func refreshItem(item domain.CartItem, product domain.Product) domain.CartItem {
	item.Name = product.Name
	item.RegularPrice = product.RegularPrice
	item.SalePrice = product.SalePrice
	item.TaxClass = product.TaxClass
	item.TaxStatus = product.TaxStatus
	item.PaymentMethods = product.PaymentMethods
	return item
}

func itemFromProduct(product domain.Product, quantity int) domain.CartItem {
	return refreshItem(domain.CartItem{ProductID: product.ID, Quantity: quantity}, product)
}
