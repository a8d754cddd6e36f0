package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TaxLine struct {
	TaxClass    string
	RateID      int64
	Label       string
	Rate        decimal.Decimal
	ItemTax     decimal.Decimal
	ShippingTax decimal.Decimal
}

func (l TaxLine) Total() decimal.Decimal {
	return l.ItemTax.Add(l.ShippingTax)
}

type GSTBreakdown struct {
	CGST  decimal.Decimal
	SGST  decimal.Decimal
	IGST  decimal.Decimal
	Total decimal.Decimal
}

type PaymentSelection struct {
	Gateway     PaymentGateway
	Description string
}

// CheckoutSummary is handed over to the order step once the cart is priced.
type CheckoutSummary struct {
	ID      uuid.UUID
	OwnerID string

	Payment  PaymentSelection
	Shipping *ShippingMethod

	Subtotal    Money
	Discount    Money
	ShippingFee Money
	ItemTax     Money
	ShippingTax Money
	Tax         Money
	Total       Money

	Items    []CartItem
	Coupons  []Coupon
	TaxLines []TaxLine
	GST      GSTBreakdown

	CreatedAt time.Time
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
)

type Order struct {
	ID                 int64
	CustomerID         string
	Status             OrderStatus
	PaymentMethod      string
	PaymentMethodTitle string
	SetPaid            bool

	Items       []CartItem
	Coupons     []Coupon
	Shipping    *ShippingMethod
	ShippingFee Money
	Total       Money

	CheckoutID uuid.UUID
}
