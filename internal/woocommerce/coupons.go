package woocommerce

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nikolayk812/storefront-checkout/internal/domain"
)

func (c *Client) GetCoupon(ctx context.Context, code string) (domain.Coupon, error) {
	code = domain.NormalizeCouponCode(code)
	if code == "" {
		return domain.Coupon{}, fmt.Errorf("code is empty")
	}

	var dtos []couponDTO
	if err := c.get(ctx, "coupons", url.Values{"code": {code}}, &dtos); err != nil {
		return domain.Coupon{}, fmt.Errorf("list coupons: %w", err)
	}

	for _, dto := range dtos {
		if domain.NormalizeCouponCode(dto.Code) != code {
			continue
		}

		amount, err := parseAmount(dto.Amount)
		if err != nil {
			return domain.Coupon{}, fmt.Errorf("amount[%s] is not valid: %w", dto.Amount, err)
		}

		return domain.Coupon{
			Code:         code,
			DiscountType: domain.DiscountType(dto.DiscountType),
			Amount:       amount,
		}, nil
	}

	return domain.Coupon{}, fmt.Errorf("coupon[%s]: %w", code, ErrNotFound)
}
