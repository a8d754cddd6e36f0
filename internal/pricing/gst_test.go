package pricing_test

import (
	"testing"

	"github.com/nikolayk812/storefront-checkout/internal/domain"
	"github.com/nikolayk812/storefront-checkout/internal/pricing"
	"github.com/shopspring/decimal"
)

func TestDomesticSplit(t *testing.T) {
	tests := []struct {
		name      string
		lines     []domain.TaxLine
		wantCGST  string
		wantSGST  string
		wantTotal string
	}{
		{
			name: "item and shipping tax",
			lines: []domain.TaxLine{
				{ItemTax: decimal.NewFromInt(180), ShippingTax: decimal.NewFromInt(18)},
			},
			wantCGST:  "99.00",
			wantSGST:  "99.00",
			wantTotal: "198.00",
		},
		{
			name: "several lines",
			lines: []domain.TaxLine{
				{ItemTax: decimal.NewFromInt(10), ShippingTax: decimal.Zero},
				{ItemTax: decimal.RequireFromString("2.5"), ShippingTax: decimal.RequireFromString("0.5")},
			},
			wantCGST:  "6.50",
			wantSGST:  "6.50",
			wantTotal: "13.00",
		},
		{
			name: "buckets rounded to two places",
			lines: []domain.TaxLine{
				{ItemTax: decimal.RequireFromString("0.333"), ShippingTax: decimal.Zero},
			},
			wantCGST:  "0.17",
			wantSGST:  "0.17",
			wantTotal: "0.34",
		},
		{
			name:      "no lines",
			wantCGST:  "0",
			wantSGST:  "0",
			wantTotal: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.DomesticSplit{}.Split(tt.lines)

			assertDecimal(t, tt.wantCGST, got.CGST)
			assertDecimal(t, tt.wantSGST, got.SGST)
			assertDecimal(t, "0", got.IGST)
			assertDecimal(t, tt.wantTotal, got.Total)
		})
	}
}

func TestDomesticSplit_FromTaxCalculator(t *testing.T) {
	rates := []domain.TaxRate{{ID: 1, Rate: decimal.NewFromInt(18), Shipping: true}}
	tax := pricing.CalculateTax([]domain.CartItem{item(1, "1000", 1)}, decimal.NewFromInt(100), rates, nil)

	got := pricing.DomesticSplit{}.Split(tax.Lines)

	assertDecimal(t, "99.00", got.CGST)
	assertDecimal(t, "99.00", got.SGST)
	assertDecimal(t, "0.00", got.IGST)
	assertDecimal(t, "198.00", got.Total)
}
