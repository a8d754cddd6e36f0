package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nikolayk812/storefront-checkout/internal/domain"
)

// PaymentMethodsMetaKey is the product meta key listing the gateways a product may be paid with.
const PaymentMethodsMetaKey = "payment_methods"

func (c *Client) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	var dto productDTO
	if err := c.get(ctx, "products/"+strconv.FormatInt(productID, 10), nil, &dto); err != nil {
		return domain.Product{}, fmt.Errorf("get product[%d]: %w", productID, err)
	}

	product, err := c.mapProductToDomain(dto)
	if err != nil {
		return domain.Product{}, fmt.Errorf("mapProductToDomain: %w", err)
	}

	return product, nil
}

func (c *Client) mapProductToDomain(dto productDTO) (domain.Product, error) {
	regular, err := parseAmount(dto.RegularPrice)
	if err != nil {
		return domain.Product{}, fmt.Errorf("regular_price[%s] is not valid: %w", dto.RegularPrice, err)
	}

	// variable products only carry "price"
	if regular.IsZero() {
		if regular, err = parseAmount(dto.Price); err != nil {
			return domain.Product{}, fmt.Errorf("price[%s] is not valid: %w", dto.Price, err)
		}
	}

	sale, err := parseAmount(dto.SalePrice)
	if err != nil {
		return domain.Product{}, fmt.Errorf("sale_price[%s] is not valid: %w", dto.SalePrice, err)
	}

	taxStatus := domain.TaxStatus(dto.TaxStatus)
	if taxStatus == "" {
		taxStatus = domain.TaxStatusTaxable
	}

	var paymentMethods []string
	if m, ok := findMeta(dto.MetaData, PaymentMethodsMetaKey); ok {
		paymentMethods = parsePaymentMethods(m.Value)
	}

	return domain.Product{
		ID:             dto.ID,
		Name:           dto.Name,
		RegularPrice:   domain.Money{Amount: regular, Currency: c.currency},
		SalePrice:      domain.Money{Amount: sale, Currency: c.currency},
		TaxClass:       dto.TaxClass,
		TaxStatus:      taxStatus,
		PaymentMethods: paymentMethods,
	}, nil
}

// parsePaymentMethods accepts a JSON array of ids or a comma separated string.
func parsePaymentMethods(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		list = strings.Split(metaString(raw), ",")
	}

	var methods []string
	for _, m := range list {
		m = strings.TrimSpace(m)
		if m != "" {
			methods = append(methods, m)
		}
	}

	return methods
}
