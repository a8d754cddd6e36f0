package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront-checkout/internal/domain"
	"golang.org/x/text/currency"
)

const checkoutIDMetaKey = "checkout_id"

func (c *Client) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	in, err := mapOrderToDTO(order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("mapOrderToDTO: %w", err)
	}

	var out orderDTO
	if err := c.do(ctx, http.MethodPost, "orders", nil, in, &out); err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	created, err := c.mergeOrder(order, out)
	if err != nil {
		return domain.Order{}, fmt.Errorf("mergeOrder: %w", err)
	}

	return created, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus, setPaid bool) (domain.Order, error) {
	in := orderStatusDTO{Status: string(status), SetPaid: setPaid}

	var out orderDTO
	if err := c.do(ctx, http.MethodPut, "orders/"+strconv.FormatInt(orderID, 10), nil, in, &out); err != nil {
		return domain.Order{}, fmt.Errorf("update order[%d]: %w", orderID, err)
	}

	updated, err := c.mergeOrder(domain.Order{SetPaid: setPaid}, out)
	if err != nil {
		return domain.Order{}, fmt.Errorf("mergeOrder: %w", err)
	}

	return updated, nil
}

func mapOrderToDTO(order domain.Order) (orderDTO, error) {
	dto := orderDTO{
		Status:             string(order.Status),
		PaymentMethod:      order.PaymentMethod,
		PaymentMethodTitle: order.PaymentMethodTitle,
		SetPaid:            order.SetPaid,
	}

	if order.CustomerID != "" {
		customerID, err := strconv.ParseInt(order.CustomerID, 10, 64)
		if err != nil {
			return orderDTO{}, fmt.Errorf("customer id[%s] is not valid: %w", order.CustomerID, err)
		}
		dto.CustomerID = customerID
	}

	for _, item := range order.Items {
		dto.LineItems = append(dto.LineItems, lineItemDTO{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	for _, coupon := range order.Coupons {
		dto.CouponLines = append(dto.CouponLines, couponLineDTO{Code: coupon.Code})
	}

	if order.Shipping != nil {
		dto.ShippingLines = append(dto.ShippingLines, shippingLineDTO{
			MethodID:    order.Shipping.MethodID,
			MethodTitle: order.Shipping.Title,
			Total:       order.ShippingFee.Amount.StringFixed(2),
		})
	}

	if order.CheckoutID != uuid.Nil {
		value, err := json.Marshal(order.CheckoutID.String())
		if err != nil {
			return orderDTO{}, fmt.Errorf("json.Marshal: %w", err)
		}
		dto.MetaData = append(dto.MetaData, metaData{Key: checkoutIDMetaKey, Value: value})
	}

	return dto, nil
}

// mergeOrder copies the fields assigned by the store onto the order that was sent.
func (c *Client) mergeOrder(order domain.Order, dto orderDTO) (domain.Order, error) {
	order.ID = dto.ID
	order.Status = domain.OrderStatus(dto.Status)
	if dto.PaymentMethod != "" {
		order.PaymentMethod = dto.PaymentMethod
		order.PaymentMethodTitle = dto.PaymentMethodTitle
	}

	total, err := parseAmount(dto.Total)
	if err != nil {
		return domain.Order{}, fmt.Errorf("total[%s] is not valid: %w", dto.Total, err)
	}

	cur := c.currency
	if dto.Currency != "" {
		if cur, err = currency.ParseISO(dto.Currency); err != nil {
			return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", dto.Currency, err)
		}
	}

	order.Total = domain.Money{Amount: total, Currency: cur}

	return order, nil
}
