package pricing

import (
	"github.com/nikolayk812/storefront-checkout/internal/domain"
	"github.com/shopspring/decimal"
)

// GSTSplitter turns tax lines into a GST breakdown. The split is jurisdiction policy.
type GSTSplitter interface {
	Split(lines []domain.TaxLine) domain.GSTBreakdown
}

// DomesticSplit assigns half of every tax line to CGST and half to SGST.
// IGST is always zero: inter-state supplies are not handled.
type DomesticSplit struct{}

var two = decimal.NewFromInt(2)

func (DomesticSplit) Split(lines []domain.TaxLine) domain.GSTBreakdown {
	cgst := decimal.Zero
	sgst := decimal.Zero

	for _, line := range lines {
		itemHalf := line.ItemTax.Div(two)
		shippingHalf := line.ShippingTax.Div(two)

		cgst = cgst.Add(itemHalf).Add(shippingHalf)
		sgst = sgst.Add(itemHalf).Add(shippingHalf)
	}

	cgst = cgst.Round(2)
	sgst = sgst.Round(2)
	igst := decimal.Zero

	return domain.GSTBreakdown{
		CGST:  cgst,
		SGST:  sgst,
		IGST:  igst,
		Total: cgst.Add(sgst).Add(igst),
	}
}
