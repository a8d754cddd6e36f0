package pricing

import (
	"strings"

	"github.com/nikolayk812/storefront-checkout/internal/domain"
	"github.com/shopspring/decimal"
)

// ShippingCost evaluates a shipping method cost expression against the cart.
//
// Formulas referencing [qty] or [cost] are evaluated with the restricted arithmetic parser.
// Anything else, and any formula that fails to evaluate, is read as a literal amount.
// The result is never negative.
func ShippingCost(expr string, items []domain.CartItem) decimal.Decimal {
	cost := shippingCost(expr, items)
	if cost.IsNegative() {
		return decimal.Zero
	}
	return cost
}

func shippingCost(expr string, items []domain.CartItem) decimal.Decimal {
	lower := strings.ToLower(expr)
	if !strings.Contains(lower, placeholderQty) && !strings.Contains(lower, placeholderCost) {
		return parseLeadingNumber(expr)
	}

	vars := formulaVars{
		qty:  decimal.NewFromInt(int64(TotalQuantity(items))),
		cost: Subtotal(items),
	}

	value, err := evalFormula(expr, vars)
	if err != nil {
		return parseLeadingNumber(expr)
	}

	return value
}

// SelectedShippingMethod returns the enabled method with the given id.
func SelectedShippingMethod(methods []domain.ShippingMethod, id string) (domain.ShippingMethod, bool) {
	if id == "" {
		return domain.ShippingMethod{}, false
	}
	for _, m := range methods {
		if m.ID == id && m.Enabled {
			return m, true
		}
	}
	return domain.ShippingMethod{}, false
}
