package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TaxStatus string

const (
	TaxStatusTaxable  TaxStatus = "taxable"
	TaxStatusShipping TaxStatus = "shipping"
	TaxStatusNone     TaxStatus = "none"
)

const StandardTaxClass = "standard"

type Cart struct {
	OwnerID string
	Items   []CartItem
	Coupons []Coupon
}

type CartItem struct {
	ProductID    int64
	Name         string
	SalePrice    Money
	RegularPrice Money
	Quantity     int

	TaxClass       string
	TaxStatus      TaxStatus
	PaymentMethods []string

	CreatedAt time.Time
}

// UnitPrice is the sale price when the product is on sale, the regular price otherwise.
func (i CartItem) UnitPrice() Money {
	if i.SalePrice.IsPositive() {
		return i.SalePrice
	}
	return i.RegularPrice
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice().Amount.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// EffectiveTaxClass maps the empty class to the standard one.
func (i CartItem) EffectiveTaxClass() string {
	if i.TaxClass == "" {
		return StandardTaxClass
	}
	return i.TaxClass
}

// SupportsPaymentMethod reports whether the item can be paid with the gateway.
// An item without a declared restriction supports every gateway.
func (i CartItem) SupportsPaymentMethod(gatewayID string) bool {
	if len(i.PaymentMethods) == 0 {
		return true
	}
	for _, m := range i.PaymentMethods {
		if strings.EqualFold(m, gatewayID) {
			return true
		}
	}
	return false
}

func (c Cart) Item(productID int64) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}

func (c Cart) Coupon(code string) (Coupon, bool) {
	code = NormalizeCouponCode(code)
	for _, coupon := range c.Coupons {
		if coupon.Code == code {
			return coupon, true
		}
	}
	return Coupon{}, false
}
