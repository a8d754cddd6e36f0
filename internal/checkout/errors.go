package checkout

import "errors"

var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrNoPaymentMethod       = errors.New("no payment method is available for the items in your cart")
	ErrInvalidQuantity       = errors.New("quantity must be at least 1")
	ErrItemNotFound          = errors.New("item is not in the cart")
	ErrProductNotFound       = errors.New("product does not exist")
	ErrCouponNotFound        = errors.New("coupon does not exist")
	ErrCouponNotApplied      = errors.New("coupon is not applied to the cart")
	ErrUnknownShippingMethod = errors.New("shipping method is not available")
	ErrCurrencyMismatch      = errors.New("product is priced in another currency")
	ErrOrderNotFound         = errors.New("order does not exist")
	ErrSessionClosed         = errors.New("cart has already been checked out")
)
