package port

import (
	"context"

	"github.com/nikolayk812/storefront-checkout/internal/domain"
)

type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)
	AddItem(ctx context.Context, ownerID string, item domain.CartItem) error
	UpdateQuantity(ctx context.Context, ownerID string, productID int64, quantity int) (bool, error)
	DeleteItem(ctx context.Context, ownerID string, productID int64) (bool, error)
	AddCoupon(ctx context.Context, ownerID string, coupon domain.Coupon) error
	DeleteCoupon(ctx context.Context, ownerID string, code string) (bool, error)
	ClearCart(ctx context.Context, ownerID string) error
}
