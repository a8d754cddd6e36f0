package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercent   DiscountType = "percent"
	DiscountTypeFixedCart DiscountType = "fixed_cart"
)

type Coupon struct {
	Code         string
	DiscountType DiscountType
	Amount       decimal.Decimal
}

// NormalizeCouponCode returns the form coupon codes are keyed by within a cart.
func NormalizeCouponCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
