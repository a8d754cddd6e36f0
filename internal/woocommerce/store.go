package woocommerce

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nikolayk812/storefront-checkout/internal/domain"
)

const (
	perPage = 100
	// upper bound on pages fetched from one listing
	maxPages = 50
)

func (c *Client) ListTaxRates(ctx context.Context) ([]domain.TaxRate, error) {
	var dtos []taxRateDTO
	for page := 1; page <= maxPages; page++ {
		var batch []taxRateDTO
		query := url.Values{
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
		}
		if err := c.get(ctx, "taxes", query, &batch); err != nil {
			return nil, fmt.Errorf("list taxes page[%d]: %w", page, err)
		}

		dtos = append(dtos, batch...)
		if len(batch) < perPage {
			break
		}
	}

	rates := make([]domain.TaxRate, 0, len(dtos))
	for _, dto := range dtos {
		rate, err := parseAmount(dto.Rate)
		if err != nil {
			return nil, fmt.Errorf("tax rate[%d] rate[%s] is not valid: %w", dto.ID, dto.Rate, err)
		}

		rates = append(rates, domain.TaxRate{
			ID:       dto.ID,
			Name:     dto.Name,
			Class:    dto.Class,
			Rate:     rate,
			Shipping: dto.Shipping,
		})
	}

	return rates, nil
}

func (c *Client) ListShippingMethods(ctx context.Context) ([]domain.ShippingMethod, error) {
	path := "shipping/zones/" + strconv.Itoa(c.shippingZoneID) + "/methods"

	var dtos []shippingMethodDTO
	if err := c.get(ctx, path, nil, &dtos); err != nil {
		return nil, fmt.Errorf("list shipping methods: %w", err)
	}

	methods := make([]domain.ShippingMethod, 0, len(dtos))
	for _, dto := range dtos {
		title := dto.Title
		if title == "" {
			title = dto.MethodTitle
		}

		cost := "0"
		if setting, ok := dto.Settings["cost"]; ok && setting.Value != "" {
			cost = setting.Value
		}

		methods = append(methods, domain.ShippingMethod{
			ID:       strconv.FormatInt(dto.InstanceID, 10),
			MethodID: dto.MethodID,
			Title:    title,
			Cost:     cost,
			Enabled:  dto.Enabled,
		})
	}

	return methods, nil
}

func (c *Client) ListPaymentGateways(ctx context.Context) ([]domain.PaymentGateway, error) {
	var dtos []paymentGatewayDTO
	if err := c.get(ctx, "payment_gateways", nil, &dtos); err != nil {
		return nil, fmt.Errorf("list payment gateways: %w", err)
	}

	gateways := make([]domain.PaymentGateway, 0, len(dtos))
	for _, dto := range dtos {
		gateways = append(gateways, domain.PaymentGateway{
			ID:          dto.ID,
			Title:       dto.Title,
			Description: dto.Description,
			Enabled:     dto.Enabled,
		})
	}

	return gateways, nil
}
