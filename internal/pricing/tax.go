package pricing

import (
	"slices"

	"github.com/nikolayk812/storefront-checkout/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RateMatcher decides which tax rates apply to a tax class.
type RateMatcher interface {
	Matches(taxClass string, rate domain.TaxRate) bool
}

// ClassMatcher matches rates of the same class; the empty class and "standard" are the same class.
type ClassMatcher struct{}

func (ClassMatcher) Matches(taxClass string, rate domain.TaxRate) bool {
	return normalizeTaxClass(taxClass) == normalizeTaxClass(rate.Class)
}

func normalizeTaxClass(class string) string {
	if class == "" {
		return domain.StandardTaxClass
	}
	return class
}

type TaxResult struct {
	Lines       []domain.TaxLine
	ItemTax     decimal.Decimal
	ShippingTax decimal.Decimal
}

func (r TaxResult) Total() decimal.Decimal {
	return r.ItemTax.Add(r.ShippingTax)
}

// CalculateTax partitions items by tax class, taxing only the items with a taxable status,
// and emits one tax line per matching (class, rate) pair.
func CalculateTax(items []domain.CartItem, shippingTotal decimal.Decimal, rates []domain.TaxRate, matcher RateMatcher) TaxResult {
	if matcher == nil {
		matcher = ClassMatcher{}
	}

	// every class present in the cart takes part in shipping tax, even when none of its items is taxable
	classSubtotals := make(map[string]decimal.Decimal)
	for _, item := range items {
		class := item.EffectiveTaxClass()
		subtotal := classSubtotals[class]
		if item.TaxStatus != domain.TaxStatusNone && item.TaxStatus != domain.TaxStatusShipping {
			subtotal = subtotal.Add(item.LineTotal())
		}
		classSubtotals[class] = subtotal
	}

	classes := make([]string, 0, len(classSubtotals))
	for class := range classSubtotals {
		classes = append(classes, class)
	}
	slices.Sort(classes)

	result := TaxResult{
		ItemTax:     decimal.Zero,
		ShippingTax: decimal.Zero,
	}

	for _, class := range classes {
		subtotal := classSubtotals[class]

		for _, rate := range rates {
			if !matcher.Matches(class, rate) {
				continue
			}

			line := domain.TaxLine{
				TaxClass:    class,
				RateID:      rate.ID,
				Label:       rate.Name,
				Rate:        rate.Rate,
				ItemTax:     percentOf(subtotal, rate.Rate),
				ShippingTax: decimal.Zero,
			}
			if rate.Shipping {
				line.ShippingTax = percentOf(shippingTotal, rate.Rate)
			}

			result.ItemTax = result.ItemTax.Add(line.ItemTax)
			result.ShippingTax = result.ShippingTax.Add(line.ShippingTax)
			result.Lines = append(result.Lines, line)
		}
	}

	return result
}

func percentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred)
}
