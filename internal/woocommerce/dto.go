package woocommerce

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

type metaData struct {
	ID    int64           `json:"id,omitempty"`
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type productDTO struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Price        string     `json:"price"`
	RegularPrice string     `json:"regular_price"`
	SalePrice    string     `json:"sale_price"`
	TaxStatus    string     `json:"tax_status"`
	TaxClass     string     `json:"tax_class"`
	MetaData     []metaData `json:"meta_data"`
}

type couponDTO struct {
	ID           int64  `json:"id"`
	Code         string `json:"code"`
	Amount       string `json:"amount"`
	DiscountType string `json:"discount_type"`
}

type taxRateDTO struct {
	ID       int64  `json:"id"`
	Country  string `json:"country"`
	State    string `json:"state"`
	Rate     string `json:"rate"`
	Name     string `json:"name"`
	Shipping bool   `json:"shipping"`
	Class    string `json:"class"`
}

type shippingSettingDTO struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type shippingMethodDTO struct {
	InstanceID  int64                         `json:"instance_id"`
	Title       string                        `json:"title"`
	Enabled     bool                          `json:"enabled"`
	MethodID    string                        `json:"method_id"`
	MethodTitle string                        `json:"method_title"`
	Settings    map[string]shippingSettingDTO `json:"settings"`
}

type paymentGatewayDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

type customerDTO struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	MetaData  []metaData `json:"meta_data"`
}

type customerUpdateDTO struct {
	MetaData []metaData `json:"meta_data"`
}

type lineItemDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type shippingLineDTO struct {
	MethodID    string `json:"method_id"`
	MethodTitle string `json:"method_title"`
	Total       string `json:"total"`
}

type couponLineDTO struct {
	Code string `json:"code"`
}

type orderDTO struct {
	ID                 int64             `json:"id,omitempty"`
	CustomerID         int64             `json:"customer_id,omitempty"`
	Status             string            `json:"status,omitempty"`
	Currency           string            `json:"currency,omitempty"`
	Total              string            `json:"total,omitempty"`
	PaymentMethod      string            `json:"payment_method,omitempty"`
	PaymentMethodTitle string            `json:"payment_method_title,omitempty"`
	SetPaid            bool              `json:"set_paid"`
	LineItems          []lineItemDTO     `json:"line_items,omitempty"`
	ShippingLines      []shippingLineDTO `json:"shipping_lines,omitempty"`
	CouponLines        []couponLineDTO   `json:"coupon_lines,omitempty"`
	MetaData           []metaData        `json:"meta_data,omitempty"`
}

type orderStatusDTO struct {
	Status  string `json:"status"`
	SetPaid bool   `json:"set_paid"`
}

// parseAmount reads a WooCommerce money string; the API sends "" for unset prices.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// metaString returns the meta value as a string, whether it was stored as a JSON string or as raw JSON.
func metaString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func findMeta(meta []metaData, key string) (metaData, bool) {
	for _, m := range meta {
		if m.Key == key {
			return m, true
		}
	}
	return metaData{}, false
}
