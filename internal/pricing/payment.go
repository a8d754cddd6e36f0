package pricing

import (
	"slices"

	"github.com/nikolayk812/storefront-checkout/internal/domain"
)

const DefaultCODGatewayID = "cod"

type PaymentSelector struct {
	CODGatewayID string
	// OnlineGatewayIDs lists online gateways in order of preference.
	// When empty, any enabled gateway other than COD counts as online.
	OnlineGatewayIDs []string
}

// Select picks the gateway for the cart:
//  1. COD, when every item accepts it and it is enabled;
//  2. otherwise an enabled online gateway;
//  3. otherwise COD, when it is enabled;
//  4. otherwise nothing.
func (s PaymentSelector) Select(items []domain.CartItem, gateways []domain.PaymentGateway) (domain.PaymentSelection, bool) {
	codID := s.codID()

	cod, codEnabled := findEnabledGateway(gateways, codID)

	if codEnabled && allSupport(items, codID) {
		return domain.PaymentSelection{Gateway: cod, Description: describe(cod)}, true
	}

	if online, ok := s.onlineGateway(gateways, codID); ok {
		return domain.PaymentSelection{Gateway: online, Description: describe(online)}, true
	}

	if codEnabled {
		return domain.PaymentSelection{
			Gateway:     cod,
			Description: describe(cod) + " (some items in your cart do not accept cash on delivery)",
		}, true
	}

	return domain.PaymentSelection{}, false
}

func (s PaymentSelector) codID() string {
	if s.CODGatewayID == "" {
		return DefaultCODGatewayID
	}
	return s.CODGatewayID
}

func (s PaymentSelector) onlineGateway(gateways []domain.PaymentGateway, codID string) (domain.PaymentGateway, bool) {
	if len(s.OnlineGatewayIDs) > 0 {
		for _, id := range s.OnlineGatewayIDs {
			if g, ok := findEnabledGateway(gateways, id); ok {
				return g, true
			}
		}
		return domain.PaymentGateway{}, false
	}

	idx := slices.IndexFunc(gateways, func(g domain.PaymentGateway) bool {
		return g.Enabled && g.ID != codID
	})
	if idx < 0 {
		return domain.PaymentGateway{}, false
	}
	return gateways[idx], true
}

func findEnabledGateway(gateways []domain.PaymentGateway, id string) (domain.PaymentGateway, bool) {
	for _, g := range gateways {
		if g.ID == id && g.Enabled {
			return g, true
		}
	}
	return domain.PaymentGateway{}, false
}

func allSupport(items []domain.CartItem, gatewayID string) bool {
	for _, item := range items {
		if !item.SupportsPaymentMethod(gatewayID) {
			return false
		}
	}
	return true
}

func describe(g domain.PaymentGateway) string {
	if g.Description != "" {
		return g.Description
	}
	return g.Title
}
