package pricing

import (
	"github.com/nikolayk812/storefront-checkout/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Input is an immutable snapshot of everything the totals depend on.
type Input struct {
	Currency currency.Unit

	Items   []domain.CartItem
	Coupons []domain.Coupon

	ShippingMethods  []domain.ShippingMethod
	SelectedShipping string

	TaxRates []domain.TaxRate
	Gateways []domain.PaymentGateway
}

type Summary struct {
	Currency currency.Unit
	Quantity int

	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	Shipping    decimal.Decimal
	ItemTax     decimal.Decimal
	ShippingTax decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal

	ShippingMethod *domain.ShippingMethod
	TaxLines       []domain.TaxLine
	GST            domain.GSTBreakdown

	Payment    domain.PaymentSelection
	HasPayment bool
}

type Calculator struct {
	matcher  RateMatcher
	splitter GSTSplitter
	payments PaymentSelector
}

type Option func(*Calculator)

func WithRateMatcher(m RateMatcher) Option {
	return func(c *Calculator) { c.matcher = m }
}

func WithGSTSplitter(s GSTSplitter) Option {
	return func(c *Calculator) { c.splitter = s }
}

func WithPaymentSelector(s PaymentSelector) Option {
	return func(c *Calculator) { c.payments = s }
}

func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		matcher:  ClassMatcher{},
		splitter: DomesticSplit{},
		payments: PaymentSelector{CODGatewayID: DefaultCODGatewayID},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate prices the snapshot from scratch. It never patches a previous result.
func (c *Calculator) Calculate(in Input) Summary {
	subtotal := Subtotal(in.Items)
	discount := CouponDiscount(in.Coupons, subtotal)

	shipping := decimal.Zero
	method, selected := SelectedShippingMethod(in.ShippingMethods, in.SelectedShipping)
	if selected {
		shipping = ShippingCost(method.Cost, in.Items)
	}

	tax := CalculateTax(in.Items, shipping, in.TaxRates, c.matcher)

	// presented totals are sums of the rounded components
	s := Summary{
		Currency:    in.Currency,
		Quantity:    TotalQuantity(in.Items),
		Subtotal:    domain.RoundAmount(subtotal, in.Currency),
		Discount:    domain.RoundAmount(discount, in.Currency),
		Shipping:    domain.RoundAmount(shipping, in.Currency),
		ItemTax:     domain.RoundAmount(tax.ItemTax, in.Currency),
		ShippingTax: domain.RoundAmount(tax.ShippingTax, in.Currency),
		TaxLines:    tax.Lines,
		GST:         c.splitter.Split(tax.Lines),
	}
	s.Tax = s.ItemTax.Add(s.ShippingTax)
	s.Total = s.Subtotal.Sub(s.Discount).Add(s.Shipping).Add(s.Tax)

	if selected {
		s.ShippingMethod = &method
	}

	s.Payment, s.HasPayment = c.payments.Select(in.Items, in.Gateways)

	return s
}

func Subtotal(items []domain.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

func TotalQuantity(items []domain.CartItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

// CouponDiscount sums percent and fixed cart coupons. Other discount types are ignored.
func CouponDiscount(coupons []domain.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, coupon := range coupons {
		switch coupon.DiscountType {
		case domain.DiscountTypePercent:
			sum = sum.Add(percentOf(subtotal, coupon.Amount))
		case domain.DiscountTypeFixedCart:
			sum = sum.Add(coupon.Amount)
		}
	}
	return sum
}
