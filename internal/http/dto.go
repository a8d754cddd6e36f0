package http

import (
	"github.com/nikolayk812/storefront-checkout/internal/checkout"
	"github.com/nikolayk812/storefront-checkout/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type cartResponse struct {
	OwnerID  string `json:"ownerId"`
	Currency string `json:"currency"`
	Quantity int    `json:"quantity"`

	Items   []itemResponse   `json:"items"`
	Coupons []couponResponse `json:"coupons"`

	ShippingMethods  []shippingMethodResponse `json:"shippingMethods"`
	SelectedShipping *shippingMethodResponse  `json:"selectedShipping,omitempty"`

	totalsResponse

	Payment      *paymentResponse `json:"payment,omitempty"`
	PaymentError string           `json:"paymentError,omitempty"`
}

type totalsResponse struct {
	Subtotal    string `json:"subtotal"`
	Discount    string `json:"discount"`
	Shipping    string `json:"shipping"`
	ItemTax     string `json:"itemTax"`
	ShippingTax string `json:"shippingTax"`
	Tax         string `json:"tax"`
	Total       string `json:"total"`

	TaxLines []taxLineResponse `json:"taxLines"`
	GST      gstResponse       `json:"gst"`
}

type itemResponse struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
	TaxClass  string `json:"taxClass"`
}

type couponResponse struct {
	Code         string `json:"code"`
	DiscountType string `json:"discountType"`
	Amount       string `json:"amount"`
}

type shippingMethodResponse struct {
	ID       string `json:"id"`
	MethodID string `json:"methodId"`
	Title    string `json:"title"`
}

type taxLineResponse struct {
	TaxClass    string `json:"taxClass"`
	RateID      int64  `json:"rateId"`
	Label       string `json:"label"`
	Rate        string `json:"rate"`
	ItemTax     string `json:"itemTax"`
	ShippingTax string `json:"shippingTax"`
}

type gstResponse struct {
	CGST  string `json:"cgst"`
	SGST  string `json:"sgst"`
	IGST  string `json:"igst"`
	Total string `json:"total"`
}

type paymentResponse struct {
	GatewayID   string `json:"gatewayId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type checkoutResponse struct {
	CheckoutID  string `json:"checkoutId"`
	OrderID     int64  `json:"orderId"`
	OrderStatus string `json:"orderStatus"`

	Payment paymentResponse `json:"payment"`
	Items   []itemResponse  `json:"items"`

	totalsResponse
}

type orderResponse struct {
	OrderID       int64  `json:"orderId"`
	Status        string `json:"status"`
	PaymentMethod string `json:"paymentMethod"`
	SetPaid       bool   `json:"setPaid"`
	Total         string `json:"total"`
}

func mapSessionToResponse(sess *checkout.Session) cartResponse {
	in, summary := sess.State()
	cur := summary.Currency

	resp := cartResponse{
		OwnerID:  sess.OwnerID(),
		Currency: cur.String(),
		Quantity: summary.Quantity,
		Items:    mapItemsToResponse(in.Items, cur),
		Coupons:  make([]couponResponse, 0, len(in.Coupons)),
		totalsResponse: totalsResponse{
			Subtotal:    formatAmount(summary.Subtotal, cur),
			Discount:    formatAmount(summary.Discount, cur),
			Shipping:    formatAmount(summary.Shipping, cur),
			ItemTax:     formatAmount(summary.ItemTax, cur),
			ShippingTax: formatAmount(summary.ShippingTax, cur),
			Tax:         formatAmount(summary.Tax, cur),
			Total:       formatAmount(summary.Total, cur),
			TaxLines:    mapTaxLinesToResponse(summary.TaxLines),
			GST:         mapGSTToResponse(summary.GST),
		},
	}

	for _, c := range in.Coupons {
		resp.Coupons = append(resp.Coupons, couponResponse{
			Code:         c.Code,
			DiscountType: string(c.DiscountType),
			Amount:       c.Amount.String(),
		})
	}

	resp.ShippingMethods = make([]shippingMethodResponse, 0, len(in.ShippingMethods))
	for _, m := range in.ShippingMethods {
		if m.Enabled {
			resp.ShippingMethods = append(resp.ShippingMethods, mapShippingMethodToResponse(m))
		}
	}
	if summary.ShippingMethod != nil {
		selected := mapShippingMethodToResponse(*summary.ShippingMethod)
		resp.SelectedShipping = &selected
	}

	if summary.HasPayment {
		resp.Payment = &paymentResponse{
			GatewayID:   summary.Payment.Gateway.ID,
			Title:       summary.Payment.Gateway.Title,
			Description: summary.Payment.Description,
		}
	} else if len(in.Items) > 0 {
		resp.PaymentError = checkout.ErrNoPaymentMethod.Error()
	}

	return resp
}

func mapCheckoutResultToResponse(result checkout.CheckoutResult) checkoutResponse {
	s := result.Summary
	cur := s.Total.Currency

	return checkoutResponse{
		CheckoutID:  s.ID.String(),
		OrderID:     result.Order.ID,
		OrderStatus: string(result.Order.Status),
		Payment: paymentResponse{
			GatewayID:   s.Payment.Gateway.ID,
			Title:       s.Payment.Gateway.Title,
			Description: s.Payment.Description,
		},
		Items: mapItemsToResponse(s.Items, cur),
		totalsResponse: totalsResponse{
			Subtotal:    formatAmount(s.Subtotal.Amount, cur),
			Discount:    formatAmount(s.Discount.Amount, cur),
			Shipping:    formatAmount(s.ShippingFee.Amount, cur),
			ItemTax:     formatAmount(s.ItemTax.Amount, cur),
			ShippingTax: formatAmount(s.ShippingTax.Amount, cur),
			Tax:         formatAmount(s.Tax.Amount, cur),
			Total:       formatAmount(s.Total.Amount, cur),
			TaxLines:    mapTaxLinesToResponse(s.TaxLines),
			GST:         mapGSTToResponse(s.GST),
		},
	}
}

func mapOrderToResponse(order domain.Order) orderResponse {
	return orderResponse{
		OrderID:       order.ID,
		Status:        string(order.Status),
		PaymentMethod: order.PaymentMethod,
		SetPaid:       order.SetPaid,
		Total:         formatAmount(order.Total.Amount, order.Total.Currency),
	}
}

func mapItemsToResponse(items []domain.CartItem, cur currency.Unit) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, itemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: formatAmount(item.UnitPrice().Amount, cur),
			Quantity:  item.Quantity,
			LineTotal: formatAmount(item.LineTotal(), cur),
			TaxClass:  item.EffectiveTaxClass(),
		})
	}
	return out
}

func mapTaxLinesToResponse(lines []domain.TaxLine) []taxLineResponse {
	out := make([]taxLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, taxLineResponse{
			TaxClass:    l.TaxClass,
			RateID:      l.RateID,
			Label:       l.Label,
			Rate:        l.Rate.String(),
			ItemTax:     l.ItemTax.StringFixed(2),
			ShippingTax: l.ShippingTax.StringFixed(2),
		})
	}
	return out
}

func mapGSTToResponse(g domain.GSTBreakdown) gstResponse {
	return gstResponse{
		CGST:  g.CGST.StringFixed(2),
		SGST:  g.SGST.StringFixed(2),
		IGST:  g.IGST.StringFixed(2),
		Total: g.Total.StringFixed(2),
	}
}

func mapShippingMethodToResponse(m domain.ShippingMethod) shippingMethodResponse {
	return shippingMethodResponse{ID: m.ID, MethodID: m.MethodID, Title: m.Title}
}

func formatAmount(amount decimal.Decimal, cur currency.Unit) string {
	if cur == (currency.Unit{}) {
		return amount.StringFixed(2)
	}
	scale, _ := currency.Standard.Rounding(cur)
	return amount.StringFixed(int32(scale))
}
